package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/errors"
	"github.com/olusolaa/helm-guard/internal/log"
	"github.com/olusolaa/helm-guard/internal/normalization"
)

const sampleConfig = `
settings:
  log_level: debug
  concurrency: 4
  strict: true
  mode: helm-managed
target:
  namespace: shop
  include_kinds: [Service, Route]
normalization:
  ignore_annotations: [team]
  ignore_annotation_prefixes: [argocd.argoproj.io/]
desired:
  helm:
    chart: ./charts/shop
    release: shop
    values: [values.yaml, values-prod.yaml]
    set: ["image.tag=1.2.3"]
live:
  provider: kube
  kube:
    context: prod
    rps: 10
command:
  timeout: 45s
  retries: 1
reporting:
  json:
    path: out/report.json
  s3:
    bucket: drift-reports
    key_prefix: shop
`

func loadFromYAML(t *testing.T, content string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadFromYAML(t, sampleConfig)

	assert.Equal(t, log.LevelDebug, cfg.Settings.LogLevel)
	assert.Equal(t, log.FormatText, cfg.Settings.LogFormat, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Settings.Concurrency)
	assert.Equal(t, domain.ModeHelmManaged, cfg.Settings.Mode)
	assert.Equal(t, []string{"Service", "Route"}, cfg.Target.IncludeKinds)
	assert.Equal(t, []string{"values.yaml", "values-prod.yaml"}, cfg.Desired.Helm.Values)
	assert.Equal(t, "kube", cfg.Live.Provider)
	assert.Equal(t, 10, cfg.Live.Kube.RPS)
	assert.Equal(t, 45*time.Second, cfg.Command.Timeout)
	assert.Equal(t, "drift-reports", cfg.Reporting.S3.Bucket)
	require.NoError(t, cfg.Validate(context.Background()))

	rc := cfg.ReportConfig()
	assert.Equal(t, "./charts/shop", rc.HelmChart)
	assert.True(t, rc.StrictMode)
	assert.Equal(t, "kube", rc.LiveProvider)

	scopes := domain.NewKindScopes()
	kc := cfg.KubeProviderConfig(scopes)
	assert.Equal(t, "prod", kc.Context)
	assert.Equal(t, 4, kc.Concurrency)
	assert.Same(t, scopes, kc.Scopes)

	assert.Equal(t, []string{"team"}, cfg.Normalization.IgnoreAnnotations)
	assert.Equal(t, []string{"argocd.argoproj.io/"}, cfg.Normalization.IgnoreAnnotationPrefixes)

	normalizer := normalization.NewNormalizer(cfg.NormalizerOptions()...)
	out := normalizer.Normalize(domain.Resource{
		"kind": "ConfigMap",
		"metadata": map[string]any{"name": "settings", "annotations": map[string]any{
			"team": "payments", "argocd.argoproj.io/sync-wave": "1", "owner": "ops",
		}},
	})
	metadata, _ := out.Metadata()
	assert.Equal(t, map[string]any{"owner": "ops"}, metadata["annotations"])
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HELM_GUARD_TARGET_NAMESPACE", "payments")
	t.Setenv("HELM_GUARD_DESIRED_HELM_CHART", "oci://registry/payments")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "payments", cfg.Target.Namespace)
	assert.Equal(t, "oci://registry/payments", cfg.Desired.Helm.Chart)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Target.Namespace = "shop"
		cfg.Desired.Helm.Chart = "./chart"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "missing namespace", mutate: func(c *Config) { c.Target.Namespace = "" }, field: "Namespace"},
		{name: "missing chart", mutate: func(c *Config) { c.Desired.Helm.Chart = "" }, field: "Chart"},
		{name: "bad mode", mutate: func(c *Config) { c.Settings.Mode = "everything" }, field: "Mode"},
		{name: "bad provider", mutate: func(c *Config) { c.Live.Provider = "aws" }, field: "Provider"},
		{name: "concurrency too high", mutate: func(c *Config) { c.Settings.Concurrency = 65 }, field: "Concurrency"},
		{name: "bad log level", mutate: func(c *Config) { c.Settings.LogLevel = "trace" }, field: "LogLevel"},
	}

	require.NoError(t, valid().Validate(context.Background()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeConfigValidation))

			msg, suggestion, userFacing := errors.GetUserFacingMessage(err)
			assert.True(t, userFacing)
			assert.Contains(t, msg, tt.field)
			assert.NotEmpty(t, suggestion)
		})
	}
}
