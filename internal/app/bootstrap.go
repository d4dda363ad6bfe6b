package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/olusolaa/helm-guard/internal/adapters/command"
	"github.com/olusolaa/helm-guard/internal/adapters/matching/identity"
	"github.com/olusolaa/helm-guard/internal/adapters/platform/kube"
	"github.com/olusolaa/helm-guard/internal/adapters/platform/oc"
	"github.com/olusolaa/helm-guard/internal/adapters/state/helm"
	"github.com/olusolaa/helm-guard/internal/config"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/core/service"
	"github.com/olusolaa/helm-guard/internal/errors"
	"github.com/olusolaa/helm-guard/internal/log"
	"github.com/olusolaa/helm-guard/internal/normalization"
	jsonreporter "github.com/olusolaa/helm-guard/internal/reporting/json"
	s3reporter "github.com/olusolaa/helm-guard/internal/reporting/s3"
	"github.com/olusolaa/helm-guard/internal/reporting/text"
)

// LiveProviderFactory builds the live-state provider named by the config.
// Providers register cluster-scoped kinds they discover into scopes.
type LiveProviderFactory func(ctx context.Context, cfg *config.Config, runner command.Runner, scopes *domain.KindScopes, logger ports.Logger) (ports.LiveStateProvider, error)

type bootstrapOptions struct {
	runner      command.Runner
	liveFactory LiveProviderFactory
}

type BootstrapOption func(*bootstrapOptions)

// WithRunner replaces the external command runner.
func WithRunner(r command.Runner) BootstrapOption {
	return func(o *bootstrapOptions) {
		o.runner = r
	}
}

func WithLiveProviderFactory(f LiveProviderFactory) BootstrapOption {
	return func(o *bootstrapOptions) {
		o.liveFactory = f
	}
}

func BuildApplicationFromViper(ctx context.Context, v *viper.Viper, opts ...BootstrapOption) (*Application, error) {
	options := bootstrapOptions{liveFactory: newLiveProvider}
	for _, opt := range opts {
		opt(&options)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	applyCLIOverrides(cfg, v)

	logger, err := log.NewLogger(log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, err
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	if err := cfg.Validate(ctx); err != nil {
		logger.Errorf(ctx, err, "Configuration validation failed")
		return nil, err
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	if options.runner == nil {
		options.runner = command.NewExecRunner(
			logger.WithFields(map[string]any{"component": "command"}),
			command.WithTimeout(cfg.Command.Timeout),
			command.WithRetries(cfg.Command.Retries),
		)
	}

	registry := service.NewComponentRegistry()

	helmLog := logger.WithFields(map[string]any{"provider": helm.ProviderType})
	if err := registry.RegisterDesiredProvider(helm.NewProvider(cfg.Desired.Helm.Binary, options.runner, helmLog)); err != nil {
		return nil, err
	}

	scopes := domain.NewKindScopes()
	liveProvider, err := options.liveFactory(ctx, cfg, options.runner, scopes, logger.WithFields(map[string]any{"provider": cfg.Live.Provider}))
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterLiveProvider(liveProvider); err != nil {
		return nil, err
	}

	if err := registerReporters(ctx, registry, cfg, logger); err != nil {
		return nil, err
	}

	desired, err := registry.GetDesiredProvider(helm.ProviderType)
	if err != nil {
		return nil, err
	}
	live, err := registry.GetLiveProvider(cfg.Live.Provider)
	if err != nil {
		return nil, err
	}

	matcher := identity.NewMatcher(logger.WithFields(map[string]any{"component": "matcher"}), identity.WithScopes(scopes))
	comparator := service.NewComparator(service.ComparatorOptions{
		Namespace:    cfg.Target.Namespace,
		Strict:       cfg.Settings.Strict,
		IncludeKinds: cfg.Target.IncludeKinds,
		Concurrency:  cfg.Settings.Concurrency,
	}, matcher, logger.WithFields(map[string]any{"component": "comparator"}),
		service.WithScopes(scopes),
		service.WithNormalizer(normalization.NewNormalizer(cfg.NormalizerOptions()...)),
	)

	engine, err := service.NewDriftAnalysisEngine(desired, live, comparator, registry.Reporters(),
		logger.WithFields(map[string]any{"component": "engine"}), runSettings(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize drift analysis engine")
	}

	logger.Debugf(ctx, "Application bootstrap complete")
	return NewApplication(engine, logger, cfg), nil
}

func runSettings(cfg *config.Config) service.RunSettings {
	return service.RunSettings{
		Render: ports.RenderRequest{
			Chart:       cfg.Desired.Helm.Chart,
			Release:     cfg.Desired.Helm.Release,
			Namespace:   cfg.Target.Namespace,
			ValuesFiles: cfg.Desired.Helm.Values,
			SetValues:   cfg.Desired.Helm.Set,
		},
		LabelSelector: cfg.Settings.Mode.LabelSelector(),
		Report:        cfg.ReportConfig(),
	}
}

func newLiveProvider(_ context.Context, cfg *config.Config, runner command.Runner, scopes *domain.KindScopes, logger ports.Logger) (ports.LiveStateProvider, error) {
	switch cfg.Live.Provider {
	case oc.ProviderType:
		return oc.NewProvider(runner, logger,
			oc.WithBinary(cfg.Live.OC.Binary), oc.WithContext(cfg.Live.OC.Context), oc.WithScopes(scopes)), nil
	case kube.ProviderType:
		return kube.NewProvider(cfg.KubeProviderConfig(scopes), logger)
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported live provider: %s", cfg.Live.Provider), "Supported: oc, kube")
	}
}

func registerReporters(ctx context.Context, registry *service.ComponentRegistry, cfg *config.Config, logger ports.Logger) error {
	textLog := logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText})
	textReporter, err := text.NewReporter(cfg.Reporting.Text, textLog)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
	}
	if err := registry.RegisterReporter(textReporter); err != nil {
		return err
	}

	if cfg.Reporting.JSON.Path != "" {
		jsonLog := logger.WithFields(map[string]any{"component": "reporter", "type": jsonreporter.ReporterTypeJSON})
		jsonReporter, err := jsonreporter.NewReporter(cfg.Reporting.JSON, jsonLog)
		if err != nil {
			return err
		}
		if err := registry.RegisterReporter(jsonReporter); err != nil {
			return err
		}
	}

	if cfg.Reporting.S3.Bucket != "" {
		s3Log := logger.WithFields(map[string]any{"component": "reporter", "type": s3reporter.ReporterTypeS3})
		s3Reporter, err := s3reporter.NewReporter(ctx, cfg.Reporting.S3, s3Log)
		if err != nil {
			return err
		}
		if err := registry.RegisterReporter(s3Reporter); err != nil {
			return err
		}
		s3Log.Infof(ctx, "Publishing reports to s3://%s", cfg.Reporting.S3.Bucket)
	}
	return nil
}
