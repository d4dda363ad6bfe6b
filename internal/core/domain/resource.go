package domain

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/olusolaa/helm-guard/pkg/convert"
)

// Resource is a decoded Kubernetes document. Its nested values are
// map[string]any, []any, string, bool, numbers or nil.
type Resource map[string]any

func (r Resource) Kind() ResourceKind {
	return ResourceKind(r.nestedString(KeyKind))
}

func (r Resource) APIVersion() string {
	return r.nestedString(KeyAPIVersion)
}

func (r Resource) Name() string {
	return r.nestedString(KeyMetadata, KeyName)
}

func (r Resource) Namespace() string {
	return r.nestedString(KeyMetadata, KeyNamespace)
}

// Metadata returns the metadata object without copying it.
func (r Resource) Metadata() (map[string]any, bool) {
	v, found, err := unstructured.NestedFieldNoCopy(r, KeyMetadata)
	if !found || err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// SetNamespace writes metadata.namespace, replacing metadata when it is
// absent or not an object.
func (r Resource) SetNamespace(namespace string) {
	if err := unstructured.SetNestedField(r, namespace, KeyMetadata, KeyNamespace); err != nil {
		r[KeyMetadata] = map[string]any{KeyNamespace: namespace}
	}
}

// nestedString returns the trimmed string at fields, or "" when it is absent
// or not a string.
func (r Resource) nestedString(fields ...string) string {
	s, found, err := unstructured.NestedString(r, fields...)
	if !found || err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (r Resource) DeepCopy() Resource {
	if r == nil {
		return nil
	}
	return Resource(convert.DeepCopy(map[string]any(r)).(map[string]any))
}

// Identifier derives the identity of the resource against the built-in
// cluster-scoped set.
func (r Resource) Identifier() ResourceIdentifier {
	return r.IdentifierIn(builtinScopes{})
}

// IdentifierIn derives the identity of the resource. Cluster-scoped kinds
// never carry a namespace in their identity.
func (r Resource) IdentifierIn(scopes ScopeResolver) ResourceIdentifier {
	id := ResourceIdentifier{
		Kind: r.Kind(),
		Name: r.Name(),
	}
	if scopes.ScopeOf(id.Kind) == ScopeCluster {
		id.ClusterScoped = true
		return id
	}
	id.Namespace = r.Namespace()
	return id
}

// ValueAt resolves a diff path inside the resource.
func (r Resource) ValueAt(path DiffPath) (any, bool) {
	var current any = map[string]any(r)
	for _, seg := range path {
		if seg.IsIndex {
			items, ok := current.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(items) {
				return nil, false
			}
			current = items[seg.Index]
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg.Field]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
