package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/helm-guard/internal/adapters/platform/oc"
	"github.com/olusolaa/helm-guard/internal/app"
	"github.com/olusolaa/helm-guard/internal/config"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	apperrors "github.com/olusolaa/helm-guard/internal/errors"
	"github.com/olusolaa/helm-guard/internal/log"
)

var cfgFile string

// flagKeys binds each flag to the viper key it overrides.
var flagKeys = map[string]string{
	"chart":         "desired.helm.chart",
	"release":       "desired.helm.release",
	"values":        "desired.helm.values",
	"set":           "desired.helm.set",
	"namespace":     "target.namespace",
	"include-kinds": app.KeyIncludeKinds,
	"mode":          "settings.mode",
	"strict":        "settings.strict",
	"concurrency":   "settings.concurrency",
	"log-level":     "settings.log_level",
	"log-format":    "settings.log_format",
	"live-provider": "live.provider",
	"kubeconfig":    "live.kube.kubeconfig",
	"context":       app.KeyContext,
	"output":        "reporting.json.path",
	"no-color":      "reporting.text.no_color",
	"show-matches":  "reporting.text.show_matches",
	"s3-bucket":     "reporting.s3.bucket",
}

func newRootCmd(v *viper.Viper, exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helm-guard",
		Short: "Detects drift between a rendered Helm chart and the live cluster.",
		Long: `helm-guard renders a Helm chart, reads the matching live resources from an
OpenShift or Kubernetes namespace and reports every difference that is not a
known platform default.

Exit codes: 0 no drift, 1 warnings only, 2 failures, 3 error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.BuildApplicationFromViper(cmd.Context(), v)
			if err != nil {
				return err
			}

			report, err := application.Run(cmd.Context())
			if err != nil {
				return err
			}
			*exitCode = report.ExitCode()
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .helm-guard.yaml in the current or home directory)")
	flags.String("chart", "", "Helm chart path or reference to render")
	flags.String("release", "", "Helm release name")
	flags.StringSliceP("values", "f", nil, "Helm values file (repeatable)")
	flags.StringArray("set", nil, "Helm --set expression (repeatable)")
	flags.StringP("namespace", "n", "", "Target namespace")
	flags.String("include-kinds", "", "Additional live kinds to compare, comma separated (e.g. Service,Route)")
	flags.String("mode", string(domain.ModeBootstrap), "Live selection mode: bootstrap or helm-managed")
	flags.Bool("strict", false, "Report every difference as a failure")
	flags.Int("concurrency", config.DefaultConcurrency, "Resource pairs diffed in parallel")
	flags.String("log-level", string(log.LevelInfo), "Log level (debug, info, warn, error)")
	flags.String("log-format", string(log.FormatText), "Log format (text, json)")
	flags.String("live-provider", oc.ProviderType, "Live state source: oc or kube")
	flags.String("kubeconfig", "", "Kubeconfig path for the kube provider")
	flags.String("context", "", "Kubeconfig context to use")
	flags.StringP("output", "o", "", "Write the JSON report to this file")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.Bool("show-matches", false, "List matching resources in the text report")
	flags.String("s3-bucket", "", "Upload the JSON report to this S3 bucket")

	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(config.EnvKeyReplacer)
	v.AutomaticEnv()
	config.BindEnv(v)

	return cmd
}

func initializeConfig(v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(config.FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return apperrors.WrapUserFacing(err, apperrors.CodeConfigReadError,
			"failed to read config file", "Check that the file exists and is valid YAML.")
	}
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	return execute(ctx, os.Args[1:])
}

func execute(ctx context.Context, args []string) int {
	exitCode := domain.ExitCodeClean
	cmd := newRootCmd(viper.New(), &exitCode)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(err)
		return domain.ExitCodeError
	}
	return exitCode
}

func printError(err error) {
	userMsg, suggestion, userFacing := apperrors.GetUserFacingMessage(err)
	if !userFacing {
		userMsg = err.Error()
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
	}
}
