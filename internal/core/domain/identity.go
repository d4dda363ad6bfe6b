package domain

import (
	"fmt"
	"strings"
)

type ResourceIdentifier struct {
	Kind      ResourceKind `json:"kind"`
	Namespace string       `json:"namespace"`
	Name      string       `json:"name"`
	// ClusterScoped marks kinds resolved as cluster-scoped outside the
	// built-in set.
	ClusterScoped bool `json:"-"`
}

func (id ResourceIdentifier) Scope() Scope {
	if id.ClusterScoped {
		return ScopeCluster
	}
	return ScopeOf(id.Kind)
}

// Key renders Kind/namespace/name for namespaced resources and
// Kind::cluster/name for cluster-scoped ones.
func (id ResourceIdentifier) Key() string {
	if id.Scope() == ScopeCluster {
		return fmt.Sprintf("%s::cluster/%s", id.Kind, id.Name)
	}
	return fmt.Sprintf("%s/%s/%s", id.Kind, id.Namespace, id.Name)
}

func (id ResourceIdentifier) String() string {
	return id.Key()
}

// Compare orders identifiers by kind, then namespace, then name.
func (id ResourceIdentifier) Compare(other ResourceIdentifier) int {
	if c := strings.Compare(string(id.Kind), string(other.Kind)); c != 0 {
		return c
	}
	if c := strings.Compare(id.Namespace, other.Namespace); c != 0 {
		return c
	}
	return strings.Compare(id.Name, other.Name)
}
