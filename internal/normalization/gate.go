package normalization

import (
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/pkg/compare"
)

// DiffContext describes one candidate difference. LiveResource is the
// normalized live document the path was computed against.
type DiffContext struct {
	Kind         domain.ResourceKind
	LiveResource domain.Resource
	Path         domain.DiffPath
	Desired      any
	Live         any
}

// Decision is the outcome of gating a candidate. RuleID names the predicate
// or rule that suppressed it and is empty otherwise.
type Decision struct {
	Include bool
	RuleID  string
}

// Gate decides whether a candidate difference is real drift.
type Gate struct {
	predicates []ContextPredicate
	rules      []Rule
}

type GateOption func(*Gate)

// WithRules replaces the rule table.
func WithRules(rules []Rule) GateOption {
	return func(g *Gate) {
		g.rules = rules
	}
}

func WithPredicates(predicates []ContextPredicate) GateOption {
	return func(g *Gate) {
		g.predicates = predicates
	}
}

func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		predicates: defaultPredicates(),
		rules:      DefaultRules(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) Evaluate(dc DiffContext) Decision {
	if len(dc.Path) == 0 {
		return Decision{}
	}
	if compare.SemanticallyEqual(dc.Desired, dc.Live) {
		return Decision{}
	}
	if !desiredOmitted(dc.Desired) {
		return Decision{Include: true}
	}
	for _, p := range g.predicates {
		if p.Applies(dc) {
			return Decision{RuleID: p.ID}
		}
	}
	for _, r := range g.rules {
		if r.Fires(dc.Kind, dc.Path, dc.Live) {
			return Decision{RuleID: r.ID}
		}
	}
	return Decision{Include: true}
}

func (g *Gate) ShouldIncludeDiff(dc DiffContext) bool {
	return g.Evaluate(dc).Include
}

// Catalog lists every predicate and rule, predicates first, in evaluation order.
func (g *Gate) Catalog() []domain.NormalizationRule {
	catalog := make([]domain.NormalizationRule, 0, len(g.predicates)+len(g.rules))
	for _, p := range g.predicates {
		catalog = append(catalog, domain.NormalizationRule{ID: p.ID, Description: p.Description})
	}
	for _, r := range g.rules {
		catalog = append(catalog, domain.NormalizationRule{ID: r.ID, Description: r.Description})
	}
	return catalog
}

// desiredOmitted reports whether the desired side left a field unspecified.
func desiredOmitted(value any) bool {
	if compare.IsAbsent(value) {
		return true
	}
	return MatchEmptyObject(value) || MatchObjectWithNullCreationTimestamp(value)
}
