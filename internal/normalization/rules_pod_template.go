package normalization

import "github.com/olusolaa/helm-guard/internal/core/domain"

var (
	podTemplate     = ParsePattern("spec.template")
	podTemplateSpec = podTemplate.Then("spec")
)

func podTemplateRules() []Rule {
	rules := []Rule{
		{
			ID:          "podTemplate.metadata",
			Description: "Pod template metadata is serialized with a null creationTimestamp.",
			Path:        podTemplate.Then(domain.KeyMetadata),
			Matches:     MatchObjectWithNullCreationTimestamp,
		},
		{
			ID:          "podTemplate.metadata.creationTimestamp",
			Description: "Pod template creationTimestamp is always null.",
			Path:        podTemplate.Then(domain.KeyMetadata, domain.KeyCreationTimestamp),
			Matches:     MatchNull,
		},
		{
			ID:          "podTemplate.dnsPolicy",
			Description: "Pod dnsPolicy defaults to ClusterFirst.",
			Path:        podTemplateSpec.Then("dnsPolicy"),
			Matches:     MatchExact("ClusterFirst"),
		},
		{
			ID:          "podTemplate.restartPolicy",
			Description: "Controller pod templates restart Always.",
			Path:        podTemplateSpec.Then("restartPolicy"),
			Kinds:       controllerKinds,
			Matches:     MatchExact("Always"),
		},
		{
			ID:          "podTemplate.schedulerName",
			Description: "Pods are scheduled by default-scheduler unless set.",
			Path:        podTemplateSpec.Then("schedulerName"),
			Matches:     MatchExact("default-scheduler"),
		},
		{
			ID:          "podTemplate.securityContext",
			Description: "Pod securityContext defaults to an empty object.",
			Path:        podTemplateSpec.Then("securityContext"),
			Matches:     MatchNullOrEmpty,
		},
		{
			ID:          "podTemplate.nodeSelector",
			Description: "Pod nodeSelector defaults to null.",
			Path:        podTemplateSpec.Then("nodeSelector"),
			Matches:     MatchNull,
		},
		{
			ID:          "podTemplate.terminationGracePeriodSeconds",
			Description: "Pods get a 30 second termination grace period.",
			Path:        podTemplateSpec.Then("terminationGracePeriodSeconds"),
			Matches:     MatchExact(30),
		},
	}
	rules = append(rules, containerDefaultRules("podTemplate.containers", podTemplateSpec.Then("containers"), nil)...)
	rules = append(rules, terminationMessageRules("podTemplate.initContainers", podTemplateSpec.Then("initContainers"), nil)...)
	rules = append(rules,
		Rule{
			ID:          "podTemplate.volumes.secret.defaultMode",
			Description: "Secret volumes default to mode 0644 (420).",
			Path:        podTemplateSpec.Then("volumes", wildcard, "secret", "defaultMode"),
			Matches:     MatchExact(420),
		},
		Rule{
			ID:          "podTemplate.volumes.configMap.defaultMode",
			Description: "ConfigMap volumes default to mode 0644 (420).",
			Path:        podTemplateSpec.Then("volumes", wildcard, "configMap", "defaultMode"),
			Matches:     MatchExact(420),
		},
		Rule{
			ID:          "podTemplate.metadata.annotations.restartedAt",
			Description: "A rollout restart stamps kubectl.kubernetes.io/restartedAt on the pod template.",
			Path:        podTemplate.Then(domain.KeyMetadata, domain.KeyAnnotations),
			Kinds:       controllerKinds,
			Matches:     MatchObjectWithRestartedAt,
		},
	)
	return rules
}

func terminationMessageRules(idPrefix string, containers PathPattern, kinds []domain.ResourceKind) []Rule {
	return []Rule{
		{
			ID:          idPrefix + ".terminationMessagePath",
			Description: "Containers write termination messages to /dev/termination-log.",
			Path:        containers.Then(wildcard, "terminationMessagePath"),
			Kinds:       kinds,
			Matches:     MatchExact("/dev/termination-log"),
		},
		{
			ID:          idPrefix + ".terminationMessagePolicy",
			Description: "Container terminationMessagePolicy defaults to File.",
			Path:        containers.Then(wildcard, "terminationMessagePolicy"),
			Kinds:       kinds,
			Matches:     MatchExact("File"),
		},
	}
}

// containerDefaultRules covers the defaults applied to every container of a
// pod spec rooted at containers.
func containerDefaultRules(idPrefix string, containers PathPattern, kinds []domain.ResourceKind) []Rule {
	rules := terminationMessageRules(idPrefix, containers, kinds)
	for _, probe := range []string{"livenessProbe", "readinessProbe"} {
		rules = append(rules,
			Rule{
				ID:          idPrefix + "." + probe + ".successThreshold",
				Description: "Probe successThreshold defaults to 1.",
				Path:        containers.Then(wildcard, probe, "successThreshold"),
				Kinds:       kinds,
				Matches:     MatchExact(1),
			},
			Rule{
				ID:          idPrefix + "." + probe + ".httpGet.scheme",
				Description: "HTTP probes default to the HTTP scheme.",
				Path:        containers.Then(wildcard, probe, "httpGet", "scheme"),
				Kinds:       kinds,
				Matches:     MatchExact("HTTP"),
			},
		)
	}
	return append(rules, Rule{
		ID:          idPrefix + ".ports.protocol",
		Description: "Container ports default to TCP.",
		Path:        containers.Then(wildcard, "ports", wildcard, "protocol"),
		Kinds:       kinds,
		Matches:     MatchExact("TCP"),
	})
}
