package json

import (
	"context"
	stdjson "encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	portsmocks "github.com/olusolaa/helm-guard/internal/core/ports/mocks"
	"github.com/olusolaa/helm-guard/internal/errors"
	"github.com/olusolaa/helm-guard/pkg/compare"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		SchemaVersion: domain.ReportSchemaVersion,
		RunID:         "7b0f3c1e-8d4a-4f53-9a51-2f1f0c3d9e11",
		Timestamp:     time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC),
		Config:        domain.ReportConfig{HelmChart: "./chart", Namespace: "shop", Mode: domain.ModeHelmManaged, LiveProvider: "oc"},
		Selection:     domain.ReportSelection{DesiredKinds: []string{"Deployment"}, AdditionalKinds: []string{}, ComparedKinds: []string{"Deployment"}},
		Normalization: domain.NormalizationSummary{Rules: []domain.RuleCount{}},
		Summary:       domain.ReportSummary{Total: 1, Drifted: 1, Warnings: 1},
		Results: []domain.ResourceResult{{
			Resource: domain.ResourceIdentifier{Kind: "Deployment", Namespace: "shop", Name: "web"},
			Scope:    domain.ScopeNamespaced,
			Status:   domain.StatusDrift,
			Differences: []domain.DiffItem{{
				Path:         domain.DiffPath{domain.FieldSegment("spec"), domain.FieldSegment("paused")},
				DesiredValue: compare.Undefined,
				LiveValue:    nil,
				Action:       domain.ActionWarn,
			}},
		}},
	}
}

func TestReportWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "drift.json")
	r, err := NewReporter(Config{Path: path}, portsmocks.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, ReporterTypeJSON, r.Type())

	require.NoError(t, r.Report(context.Background(), sampleReport()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"schemaVersion\": 1,")

	var doc map[string]any
	require.NoError(t, stdjson.Unmarshal(data, &doc))
	assert.Equal(t, "7b0f3c1e-8d4a-4f53-9a51-2f1f0c3d9e11", doc["runId"])
	assert.Equal(t, "2026-04-02T08:00:00Z", doc["timestamp"])

	results := doc["results"].([]any)
	diff := results[0].(map[string]any)["differences"].([]any)[0].(map[string]any)
	assert.Equal(t, "spec.paused", diff["path"])
	assert.NotContains(t, diff, "desiredValue")
	assert.Contains(t, diff, "liveValue")
	assert.Nil(t, diff["liveValue"])
}

func TestNewReporterRequiresPath(t *testing.T) {
	_, err := NewReporter(Config{}, portsmocks.NewLogger(t))
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))
}

func TestReportUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r, err := NewReporter(Config{Path: filepath.Join(blocker, "drift.json")}, portsmocks.NewLogger(t))
	require.NoError(t, err)

	err = r.Report(context.Background(), sampleReport())
	assert.True(t, errors.Is(err, errors.CodeReportWriteError))
}

func TestMarshalIndentsDifferences(t *testing.T) {
	data, err := Marshal(sampleReport())
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, `{"path":`)
	assert.Contains(t, out, "\n          \"path\": \"spec.paused\",\n")
	assert.Contains(t, out, "\n          \"liveValue\": null,\n")
	assert.Contains(t, out, "\n          \"action\": \"WARN\"\n")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}
