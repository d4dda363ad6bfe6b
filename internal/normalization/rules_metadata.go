package normalization

import "github.com/olusolaa/helm-guard/internal/core/domain"

func metadataRules() []Rule {
	return []Rule{
		{
			ID:          "metadata.creationTimestamp",
			Description: "The API server stamps creationTimestamp on every object.",
			Path:        Pattern(domain.KeyMetadata, domain.KeyCreationTimestamp),
			Matches:     MatchNullOrTimestamp,
		},
		{
			ID:          "metadata.annotations.empty",
			Description: "An empty annotations map is equivalent to no annotations.",
			Path:        Pattern(domain.KeyMetadata, domain.KeyAnnotations),
			Matches:     MatchEmptyObject,
		},
		{
			ID:          "metadata.labels.managedByHelm",
			Description: "Helm adds the managed-by label to resources it installs.",
			Path:        Pattern(domain.KeyMetadata, domain.KeyLabels),
			Matches:     MatchExactObject(map[string]any{domain.LabelManagedBy: domain.ManagedByHelm}),
		},
		{
			ID:          "metadata.labels.managedBy",
			Description: "Helm sets app.kubernetes.io/managed-by to Helm.",
			Path:        Pattern(domain.KeyMetadata, domain.KeyLabels, domain.LabelManagedBy),
			Matches:     MatchOneOf("Helm", "helm"),
		},
		{
			ID:          "metadata.annotations.openshiftBranch",
			Description: "OpenShift build pipelines annotate an empty source branch.",
			Path:        Pattern(domain.KeyMetadata, domain.KeyAnnotations, "app.openshift.io/branch"),
			Matches:     MatchExact(""),
		},
		{
			ID:          "metadata.annotations.openshiftCommit",
			Description: "OpenShift build pipelines annotate the source commit.",
			Path:        Pattern(domain.KeyMetadata, domain.KeyAnnotations, "app.openshift.io/commit"),
			Matches:     MatchNonEmptyString,
		},
	}
}
