package normalization

import (
	"github.com/olusolaa/helm-guard/internal/core/domain"
)

// Rule suppresses a difference when the desired side omitted the field and
// the live value is a documented platform default.
type Rule struct {
	ID          string
	Description string
	Path        PathPattern
	// Kinds restricts the rule. Empty means every kind.
	Kinds   []domain.ResourceKind
	Matches ValueMatcher
}

func (r Rule) AppliesTo(kind domain.ResourceKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Fires reports whether the rule explains live at path for the kind.
func (r Rule) Fires(kind domain.ResourceKind, path domain.DiffPath, live any) bool {
	return r.Path.Matches(path) && r.AppliesTo(kind) && r.Matches(live)
}

var (
	controllerKinds = []domain.ResourceKind{
		domain.KindDeployment,
		domain.KindReplicaSet,
		domain.KindStatefulSet,
		domain.KindDaemonSet,
		domain.KindReplicationController,
	}
	cronJobKinds     = []domain.ResourceKind{domain.KindCronJob}
	buildConfigKinds = []domain.ResourceKind{domain.KindBuildConfig}
	deploymentKinds  = []domain.ResourceKind{domain.KindDeployment}
	statefulSetKinds = []domain.ResourceKind{domain.KindStatefulSet}
	serviceKinds     = []domain.ResourceKind{domain.KindService}
	routeKinds       = []domain.ResourceKind{domain.KindRoute}
)

// DefaultRules returns the platform default table in evaluation order.
func DefaultRules() []Rule {
	var rules []Rule
	rules = append(rules, metadataRules()...)
	rules = append(rules, buildConfigRules()...)
	rules = append(rules, cronJobRules()...)
	rules = append(rules, podTemplateRules()...)
	rules = append(rules, coreRules()...)
	return rules
}
