package diff

import (
	"sort"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/normalization"
)

// Outcome is the gated, classified diff of one resource pair. Suppressed
// holds one rule id per suppressed candidate.
type Outcome struct {
	Differences []domain.DiffItem
	Suppressed  []string
}

// Engine gates candidates through the rule engine and classifies survivors.
type Engine struct {
	gate   *normalization.Gate
	strict bool
}

func NewEngine(gate *normalization.Gate, strict bool) *Engine {
	return &Engine{gate: gate, strict: strict}
}

// Classify returns FAIL in strict mode and WARN otherwise.
func (e *Engine) Classify() domain.DiffAction {
	if e.strict {
		return domain.ActionFail
	}
	return domain.ActionWarn
}

// Diff compares two normalized resources of the given kind. live is also the
// resource context predicates inspect.
func (e *Engine) Diff(kind domain.ResourceKind, desired, live domain.Resource) Outcome {
	var outcome Outcome
	for _, c := range Walk(map[string]any(desired), map[string]any(live)) {
		decision := e.gate.Evaluate(normalization.DiffContext{
			Kind:         kind,
			LiveResource: live,
			Path:         c.Path,
			Desired:      c.Desired,
			Live:         c.Live,
		})

		action := domain.ActionIgnore
		if decision.Include {
			action = e.Classify()
		} else if decision.RuleID != "" {
			outcome.Suppressed = append(outcome.Suppressed, decision.RuleID)
		}
		if action == domain.ActionIgnore {
			continue
		}

		outcome.Differences = append(outcome.Differences, domain.DiffItem{
			Path:         c.Path,
			DesiredValue: c.Desired,
			LiveValue:    c.Live,
			Action:       action,
		})
	}

	sort.SliceStable(outcome.Differences, func(i, j int) bool {
		return outcome.Differences[i].Path.Compare(outcome.Differences[j].Path) < 0
	})
	return outcome
}
