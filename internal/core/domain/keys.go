package domain

const (
	KeyAPIVersion = "apiVersion"
	KeyKind       = "kind"
	KeyMetadata   = "metadata"
	KeySpec       = "spec"
	KeyStatus     = "status"
	KeyItems      = "items"

	// Metadata keys
	KeyName              = "name"
	KeyNamespace         = "namespace"
	KeyLabels            = "labels"
	KeyAnnotations       = "annotations"
	KeyUID               = "uid"
	KeyResourceVersion   = "resourceVersion"
	KeyGeneration        = "generation"
	KeyManagedFields     = "managedFields"
	KeySelfLink          = "selfLink"
	KeyCreationTimestamp = "creationTimestamp"

	// Well-known labels
	LabelManagedBy = "app.kubernetes.io/managed-by"
	ManagedByHelm  = "Helm"
)
