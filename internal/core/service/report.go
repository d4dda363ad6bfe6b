package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

// BuildReport assembles the versioned report. Cluster-scoped results are
// counted by status and in ClusterScoped but never as warnings or failures.
func BuildReport(outcome domain.ComparisonOutcome, cfg domain.ReportConfig, now time.Time) *domain.Report {
	results := outcome.Results
	if results == nil {
		results = []domain.ResourceResult{}
	}
	return &domain.Report{
		SchemaVersion: domain.ReportSchemaVersion,
		RunID:         uuid.NewString(),
		Timestamp:     now.UTC(),
		Config:        cfg,
		Selection:     outcome.Selection,
		Normalization: outcome.Normalization,
		Summary:       Summarize(results),
		Results:       results,
	}
}

func Summarize(results []domain.ResourceResult) domain.ReportSummary {
	summary := domain.ReportSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case domain.StatusMatch:
			summary.Matched++
		case domain.StatusDrift:
			summary.Drifted++
		case domain.StatusMissingLive:
			summary.MissingLive++
		case domain.StatusMissingHelm:
			summary.MissingHelm++
		}

		if r.Informational() {
			summary.ClusterScoped++
			continue
		}
		if r.Status == domain.StatusMissingLive || r.Status == domain.StatusMissingHelm {
			summary.Failures++
		}
		for _, d := range r.Differences {
			switch d.Action {
			case domain.ActionWarn:
				summary.Warnings++
			case domain.ActionFail:
				summary.Failures++
			}
		}
	}
	return summary
}
