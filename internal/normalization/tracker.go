package normalization

import (
	"sync/atomic"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

// Tracker counts suppressions per rule. It is safe for concurrent use.
type Tracker struct {
	catalog []domain.NormalizationRule
	counts  map[string]*atomic.Int64
}

func NewTracker(catalog []domain.NormalizationRule) *Tracker {
	t := &Tracker{
		catalog: catalog,
		counts:  make(map[string]*atomic.Int64, len(catalog)),
	}
	for _, rule := range catalog {
		if _, exists := t.counts[rule.ID]; !exists {
			t.counts[rule.ID] = new(atomic.Int64)
		}
	}
	return t
}

// Record counts one suppression. Unknown ids are ignored.
func (t *Tracker) Record(ruleID string) {
	if counter, ok := t.counts[ruleID]; ok {
		counter.Add(1)
	}
}

func (t *Tracker) Summary() domain.NormalizationSummary {
	summary := domain.NormalizationSummary{
		Rules: make([]domain.RuleCount, 0, len(t.catalog)),
	}
	seen := make(map[string]struct{}, len(t.catalog))
	for _, rule := range t.catalog {
		if _, dup := seen[rule.ID]; dup {
			continue
		}
		seen[rule.ID] = struct{}{}
		count := t.counts[rule.ID].Load()
		summary.TotalSuppressed += count
		summary.Rules = append(summary.Rules, domain.RuleCount{Rule: rule, SuppressedCount: count})
	}
	return summary
}
