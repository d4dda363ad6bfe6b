package normalization

import (
	"strings"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/pkg/compare"
)

// ContextPredicate suppresses defaults that depend on sibling data of the
// live resource rather than on the path alone.
type ContextPredicate struct {
	ID          string
	Description string
	Applies     func(dc DiffContext) bool
}

const (
	PredicateImagePullPolicy   = "container.imagePullPolicy.always"
	PredicateServiceTargetPort = "service.port.targetPort"
)

var (
	templateImagePullPolicyPatterns = imagePullPolicyPatterns(podTemplateSpec, jobPodTemplateSpec)
	podImagePullPolicyPatterns      = imagePullPolicyPatterns(ParsePattern("spec"))
)

func imagePullPolicyPatterns(podSpecs ...PathPattern) []PathPattern {
	var patterns []PathPattern
	for _, podSpec := range podSpecs {
		for _, list := range []string{"containers", "initContainers"} {
			patterns = append(patterns, podSpec.Then(list, wildcard, "imagePullPolicy"))
		}
	}
	return patterns
}

var serviceTargetPortPattern = ParsePattern("spec.ports.*.targetPort")

func defaultPredicates() []ContextPredicate {
	return []ContextPredicate{
		{
			ID:          PredicateImagePullPolicy,
			Description: "imagePullPolicy defaults to Always when the image is untagged or tagged latest and not pinned by digest.",
			Applies:     imagePullPolicyDefaulted,
		},
		{
			ID:          PredicateServiceTargetPort,
			Description: "A Service port's targetPort defaults to its port.",
			Applies:     serviceTargetPortDefaulted,
		},
	}
}

func imagePullPolicyDefaulted(dc DiffContext) bool {
	policy, ok := dc.Live.(string)
	if !ok || !strings.EqualFold(policy, "Always") {
		return false
	}
	patterns := templateImagePullPolicyPatterns
	if dc.Kind == domain.KindPod {
		patterns = podImagePullPolicyPatterns
	}
	if !matchesAny(patterns, dc.Path) {
		return false
	}
	container, ok := dc.LiveResource.ValueAt(dc.Path.Parent())
	if !ok {
		return false
	}
	containerMap, ok := container.(map[string]any)
	if !ok {
		return false
	}
	image, ok := containerMap["image"].(string)
	if !ok || image == "" {
		return false
	}
	return imageDefaultsToAlways(image)
}

// imageDefaultsToAlways is true for images without a digest whose tag is
// missing or latest. A colon before the last slash is a registry port.
func imageDefaultsToAlways(image string) bool {
	if strings.Contains(image, "@") {
		return false
	}
	lastSlash := strings.LastIndex(image, "/")
	lastColon := strings.LastIndex(image, ":")
	if lastColon > lastSlash {
		tag := image[lastColon+1:]
		return tag == "" || tag == "latest"
	}
	return true
}

func serviceTargetPortDefaulted(dc DiffContext) bool {
	if dc.Kind != domain.KindService || !serviceTargetPortPattern.Matches(dc.Path) {
		return false
	}
	port, ok := dc.LiveResource.ValueAt(dc.Path.Parent())
	if !ok {
		return false
	}
	portMap, ok := port.(map[string]any)
	if !ok {
		return false
	}
	portValue, ok := portMap["port"]
	if !ok {
		return false
	}
	return compare.SemanticallyEqual(dc.Live, portValue)
}

func matchesAny(patterns []PathPattern, path domain.DiffPath) bool {
	for _, p := range patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}
