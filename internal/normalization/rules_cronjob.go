package normalization

import "github.com/olusolaa/helm-guard/internal/core/domain"

var (
	jobTemplate        = ParsePattern("spec.jobTemplate")
	jobPodTemplate     = jobTemplate.Then("spec", "template")
	jobPodTemplateSpec = jobPodTemplate.Then("spec")
)

func cronJobRules() []Rule {
	rules := []Rule{
		{
			ID:          "cronJob.failedJobsHistoryLimit",
			Description: "CronJob keeps 1 failed job by default.",
			Path:        ParsePattern("spec.failedJobsHistoryLimit"),
			Kinds:       cronJobKinds,
			Matches:     MatchExact(1),
		},
		{
			ID:          "cronJob.successfulJobsHistoryLimit",
			Description: "CronJob keeps 3 successful jobs by default.",
			Path:        ParsePattern("spec.successfulJobsHistoryLimit"),
			Kinds:       cronJobKinds,
			Matches:     MatchExact(3),
		},
		{
			ID:          "cronJob.concurrencyPolicy",
			Description: "CronJob concurrencyPolicy defaults to Allow.",
			Path:        ParsePattern("spec.concurrencyPolicy"),
			Kinds:       cronJobKinds,
			Matches:     MatchExact("Allow"),
		},
		{
			ID:          "cronJob.jobTemplate.metadata",
			Description: "Job template metadata is serialized with a null creationTimestamp.",
			Path:        jobTemplate.Then(domain.KeyMetadata),
			Kinds:       cronJobKinds,
			Matches:     MatchObjectWithNullCreationTimestamp,
		},
		{
			ID:          "cronJob.jobTemplate.metadata.creationTimestamp",
			Description: "Job template creationTimestamp is always null.",
			Path:        jobTemplate.Then(domain.KeyMetadata, domain.KeyCreationTimestamp),
			Kinds:       cronJobKinds,
			Matches:     MatchNull,
		},
		{
			ID:          "cronJob.podTemplate.metadata",
			Description: "Job pod template metadata is serialized with a null creationTimestamp.",
			Path:        jobPodTemplate.Then(domain.KeyMetadata),
			Kinds:       cronJobKinds,
			Matches:     MatchObjectWithNullCreationTimestamp,
		},
		{
			ID:          "cronJob.podTemplate.dnsPolicy",
			Description: "Job pod dnsPolicy defaults to ClusterFirst.",
			Path:        jobPodTemplateSpec.Then("dnsPolicy"),
			Kinds:       cronJobKinds,
			Matches:     MatchExact("ClusterFirst"),
		},
		{
			ID:          "cronJob.podTemplate.schedulerName",
			Description: "Job pods are scheduled by default-scheduler unless set.",
			Path:        jobPodTemplateSpec.Then("schedulerName"),
			Kinds:       cronJobKinds,
			Matches:     MatchExact("default-scheduler"),
		},
		{
			ID:          "cronJob.podTemplate.securityContext",
			Description: "Job pod securityContext defaults to an empty object.",
			Path:        jobPodTemplateSpec.Then("securityContext"),
			Kinds:       cronJobKinds,
			Matches:     MatchEmptyObject,
		},
		{
			ID:          "cronJob.podTemplate.terminationGracePeriodSeconds",
			Description: "Job pods get a 30 second termination grace period.",
			Path:        jobPodTemplateSpec.Then("terminationGracePeriodSeconds"),
			Kinds:       cronJobKinds,
			Matches:     MatchExact(30),
		},
		{
			ID:          "cronJob.containers.resources",
			Description: "Job containers without requests or limits report empty resources.",
			Path:        jobPodTemplateSpec.Then("containers", wildcard, "resources"),
			Kinds:       cronJobKinds,
			Matches:     MatchEmptyObject,
		},
	}
	return append(rules, containerDefaultRules("cronJob.containers", jobPodTemplateSpec.Then("containers"), cronJobKinds)...)
}
