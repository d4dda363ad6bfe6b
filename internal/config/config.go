package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/olusolaa/helm-guard/internal/adapters/command"
	"github.com/olusolaa/helm-guard/internal/adapters/platform/kube"
	"github.com/olusolaa/helm-guard/internal/adapters/platform/oc"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/errors"
	"github.com/olusolaa/helm-guard/internal/log"
	"github.com/olusolaa/helm-guard/internal/normalization"
	jsonreporter "github.com/olusolaa/helm-guard/internal/reporting/json"
	s3reporter "github.com/olusolaa/helm-guard/internal/reporting/s3"
	"github.com/olusolaa/helm-guard/internal/reporting/text"
)

const (
	EnvPrefix          = "HELM_GUARD"
	FileName           = ".helm-guard"
	DefaultConcurrency = 8
)

type Config struct {
	Settings      SettingsConfig      `mapstructure:"settings" yaml:"settings"`
	Target        TargetConfig        `mapstructure:"target" yaml:"target"`
	Normalization NormalizationConfig `mapstructure:"normalization" yaml:"normalization"`
	Desired       DesiredConfig       `mapstructure:"desired" yaml:"desired"`
	Live          LiveConfig          `mapstructure:"live" yaml:"live"`
	Command       CommandConfig       `mapstructure:"command" yaml:"command"`
	Reporting     ReportingConfig     `mapstructure:"reporting" yaml:"reporting"`
}

type SettingsConfig struct {
	LogLevel    log.Level   `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   log.Format  `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
	Concurrency int         `mapstructure:"concurrency" yaml:"concurrency" validate:"min=1,max=64"`
	Strict      bool        `mapstructure:"strict" yaml:"strict"`
	Mode        domain.Mode `mapstructure:"mode" yaml:"mode" validate:"oneof=bootstrap helm-managed"`
}

type TargetConfig struct {
	Namespace    string   `mapstructure:"namespace" yaml:"namespace" validate:"required"`
	IncludeKinds []string `mapstructure:"include_kinds" yaml:"include_kinds" validate:"dive,required"`
}

// NormalizationConfig lists annotations stripped from both sides on top of
// the built-in noise list.
type NormalizationConfig struct {
	IgnoreAnnotations        []string `mapstructure:"ignore_annotations" yaml:"ignore_annotations" validate:"dive,required"`
	IgnoreAnnotationPrefixes []string `mapstructure:"ignore_annotation_prefixes" yaml:"ignore_annotation_prefixes" validate:"dive,required"`
}

type DesiredConfig struct {
	Helm HelmConfig `mapstructure:"helm" yaml:"helm"`
}

type HelmConfig struct {
	Chart   string   `mapstructure:"chart" yaml:"chart" validate:"required"`
	Release string   `mapstructure:"release" yaml:"release"`
	Values  []string `mapstructure:"values" yaml:"values" validate:"dive,required"`
	Set     []string `mapstructure:"set" yaml:"set" validate:"dive,required"`
	Binary  string   `mapstructure:"binary" yaml:"binary"`
}

type LiveConfig struct {
	Provider string     `mapstructure:"provider" yaml:"provider" validate:"oneof=oc kube"`
	OC       OCConfig   `mapstructure:"oc" yaml:"oc"`
	Kube     KubeConfig `mapstructure:"kube" yaml:"kube"`
}

type OCConfig struct {
	Binary  string `mapstructure:"binary" yaml:"binary"`
	Context string `mapstructure:"context" yaml:"context"`
}

type KubeConfig struct {
	Kubeconfig string `mapstructure:"kubeconfig" yaml:"kubeconfig"`
	Context    string `mapstructure:"context" yaml:"context"`
	RPS        int    `mapstructure:"rps" yaml:"rps" validate:"min=0,max=100"`
}

type CommandConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=0"`
	Retries int           `mapstructure:"retries" yaml:"retries" validate:"min=0,max=10"`
}

type ReportingConfig struct {
	Text text.Config         `mapstructure:"text" yaml:"text"`
	JSON jsonreporter.Config `mapstructure:"json" yaml:"json"`
	S3   s3reporter.Config   `mapstructure:"s3" yaml:"s3"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:    log.LevelInfo,
			LogFormat:   log.FormatText,
			Concurrency: DefaultConcurrency,
			Mode:        domain.ModeBootstrap,
		},
		Target: TargetConfig{IncludeKinds: []string{}},
		Live: LiveConfig{
			Provider: oc.ProviderType,
			OC:       OCConfig{Binary: oc.DefaultBinary},
			Kube:     KubeConfig{RPS: 0},
		},
		Command: CommandConfig{
			Timeout: command.DefaultTimeout,
			Retries: command.DefaultRetries,
		},
	}
}

// Load decodes the viper tree over the defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeConfigParseError,
			"failed to decode configuration", "Check the types of the values in your configuration file.")
	}
	return cfg, nil
}

// Validate checks the configuration and reports every failing field.
func (c *Config) Validate(ctx context.Context) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Wrap(err, errors.CodeConfigValidation, "configuration validation failed")
	}

	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	for _, fe := range validationErrors {
		details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.NewUserFacing(errors.CodeConfigValidation, details.String(),
		"Please check your configuration file or flags (--chart and --namespace are required).")
}

func (c *Config) KubeProviderConfig(scopes *domain.KindScopes) kube.Config {
	return kube.Config{
		Kubeconfig:  c.Live.Kube.Kubeconfig,
		Context:     c.Live.Kube.Context,
		RPS:         c.Live.Kube.RPS,
		Concurrency: c.Settings.Concurrency,
		Scopes:      scopes,
	}
}

func (c *Config) NormalizerOptions() []normalization.NormalizerOption {
	return []normalization.NormalizerOption{
		normalization.WithIgnoredAnnotations(c.Normalization.IgnoreAnnotations...),
		normalization.WithIgnoredAnnotationPrefixes(c.Normalization.IgnoreAnnotationPrefixes...),
	}
}

// ReportConfig is the configuration echoed into the report.
func (c *Config) ReportConfig() domain.ReportConfig {
	return domain.ReportConfig{
		HelmChart:    c.Desired.Helm.Chart,
		Namespace:    c.Target.Namespace,
		StrictMode:   c.Settings.Strict,
		Mode:         c.Settings.Mode,
		ReleaseName:  c.Desired.Helm.Release,
		ValuesFiles:  c.Desired.Helm.Values,
		IncludeKinds: c.Target.IncludeKinds,
		LiveProvider: c.Live.Provider,
	}
}

// EnvKeyReplacer maps nested keys to HELM_GUARD_SECTION_KEY variables.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

var keys = []string{
	"settings.log_level", "settings.log_format", "settings.concurrency", "settings.strict", "settings.mode",
	"target.namespace", "target.include_kinds",
	"normalization.ignore_annotations", "normalization.ignore_annotation_prefixes",
	"desired.helm.chart", "desired.helm.release", "desired.helm.values", "desired.helm.set", "desired.helm.binary",
	"live.provider", "live.oc.binary", "live.oc.context",
	"live.kube.kubeconfig", "live.kube.context", "live.kube.rps",
	"command.timeout", "command.retries",
	"reporting.text.no_color", "reporting.text.show_matches",
	"reporting.json.path",
	"reporting.s3.bucket", "reporting.s3.key_prefix", "reporting.s3.region",
}

// BindEnv registers every configuration key so environment variables are
// seen by Unmarshal even when no file or flag mentions the key.
func BindEnv(v *viper.Viper) {
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
