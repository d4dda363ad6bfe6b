package domain

import "time"

const ReportSchemaVersion = 1

type Mode string

const (
	ModeBootstrap   Mode = "bootstrap"
	ModeHelmManaged Mode = "helm-managed"
)

// LabelSelector returns the live query selector the mode implies.
func (m Mode) LabelSelector() string {
	if m == ModeHelmManaged {
		return LabelManagedBy + "=" + ManagedByHelm
	}
	return ""
}

type ReportConfig struct {
	HelmChart    string   `json:"helmChart"`
	Namespace    string   `json:"namespace"`
	StrictMode   bool     `json:"strictMode"`
	Mode         Mode     `json:"mode"`
	ReleaseName  string   `json:"releaseName,omitempty"`
	ValuesFiles  []string `json:"valuesFiles,omitempty"`
	IncludeKinds []string `json:"includeKinds,omitempty"`
	LiveProvider string   `json:"liveProvider"`
}

type ReportSelection struct {
	DesiredKinds    []string `json:"desiredKinds"`
	AdditionalKinds []string `json:"additionalKinds"`
	ComparedKinds   []string `json:"comparedKinds"`
}

type NormalizationRule struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type RuleCount struct {
	Rule            NormalizationRule `json:"rule"`
	SuppressedCount int64             `json:"suppressedCount"`
}

type NormalizationSummary struct {
	TotalSuppressed int64       `json:"totalSuppressed"`
	Rules           []RuleCount `json:"rules"`
}

type ReportSummary struct {
	Total         int `json:"total"`
	Matched       int `json:"matched"`
	Drifted       int `json:"drifted"`
	MissingLive   int `json:"missingLive"`
	MissingHelm   int `json:"missingHelm"`
	Warnings      int `json:"warnings"`
	Failures      int `json:"failures"`
	ClusterScoped int `json:"clusterScoped"`
}

type Report struct {
	SchemaVersion int                  `json:"schemaVersion"`
	RunID         string               `json:"runId"`
	Timestamp     time.Time            `json:"timestamp"`
	Config        ReportConfig         `json:"config"`
	Selection     ReportSelection      `json:"selection"`
	Normalization NormalizationSummary `json:"normalization"`
	Summary       ReportSummary        `json:"summary"`
	Results       []ResourceResult     `json:"results"`
}

const (
	ExitCodeClean    = 0
	ExitCodeWarnings = 1
	ExitCodeFailures = 2
	ExitCodeError    = 3
)

// ExitCode maps the outcome to a process exit code. Cluster-scoped results
// never affect it.
func (r *Report) ExitCode() int {
	if r.Summary.Failures > 0 {
		return ExitCodeFailures
	}
	if r.Summary.Warnings > 0 {
		return ExitCodeWarnings
	}
	return ExitCodeClean
}

// ComparisonOutcome is everything the comparator produces for one run.
type ComparisonOutcome struct {
	Results       []ResourceResult
	Selection     ReportSelection
	Normalization NormalizationSummary
}
