package domain

import (
	"strings"
	"sync"
)

type ResourceKind string

const (
	KindDeployment            ResourceKind = "Deployment"
	KindStatefulSet           ResourceKind = "StatefulSet"
	KindDaemonSet             ResourceKind = "DaemonSet"
	KindReplicaSet            ResourceKind = "ReplicaSet"
	KindReplicationController ResourceKind = "ReplicationController"
	KindJob                   ResourceKind = "Job"
	KindCronJob               ResourceKind = "CronJob"
	KindPod                   ResourceKind = "Pod"
	KindService               ResourceKind = "Service"
	KindRoute                 ResourceKind = "Route"
	KindBuildConfig           ResourceKind = "BuildConfig"
)

func (rk ResourceKind) String() string {
	return string(rk)
}

type Scope string

const (
	ScopeNamespaced Scope = "namespaced"
	ScopeCluster    Scope = "cluster"
)

var builtinClusterScoped = func() map[string]struct{} {
	kinds := map[string]struct{}{}
	for _, kind := range []string{
		"Namespace",
		"Node",
		"PersistentVolume",
		"StorageClass",
		"VolumeAttachment",
		"CSIDriver",
		"CSINode",
		"ClusterRole",
		"ClusterRoleBinding",
		"CustomResourceDefinition",
		"APIService",
		"MutatingWebhookConfiguration",
		"ValidatingWebhookConfiguration",
		"PodSecurityPolicy",
		"PriorityClass",
		"RuntimeClass",
		"CertificateSigningRequest",
		"IngressClass",
		"GatewayClass",
		"ClusterIssuer",
		"ClusterPolicy",
		"SecurityContextConstraints",
		"ClusterResourceQuota",
		"Project",
		"ClusterOperator",
		"ClusterVersion",
		"ClusterNetwork",
		"OAuthClient",
		"OAuthClientAuthorization",
		"OAuthAccessToken",
		"OAuthAuthorizeToken",
	} {
		kinds[scopeKey(ResourceKind(kind))] = struct{}{}
	}
	return kinds
}()

// ScopeResolver classifies kinds as cluster-scoped or namespaced.
type ScopeResolver interface {
	ScopeOf(kind ResourceKind) Scope
}

// ScopeOf classifies a kind against the built-in cluster-scoped set,
// case-insensitively. Kinds outside the set are namespaced.
func ScopeOf(kind ResourceKind) Scope {
	if _, ok := builtinClusterScoped[scopeKey(kind)]; ok {
		return ScopeCluster
	}
	return ScopeNamespaced
}

type builtinScopes struct{}

func (builtinScopes) ScopeOf(kind ResourceKind) Scope {
	return ScopeOf(kind)
}

// KindScopes is a cluster-scoped kind set seeded with the built-in kinds.
// Live providers extend it with kinds discovered from the cluster. It is
// safe for concurrent use.
type KindScopes struct {
	mu      sync.RWMutex
	cluster map[string]struct{}
}

func NewKindScopes(extra ...ResourceKind) *KindScopes {
	s := &KindScopes{cluster: make(map[string]struct{}, len(builtinClusterScoped)+len(extra))}
	for key := range builtinClusterScoped {
		s.cluster[key] = struct{}{}
	}
	s.Register(extra...)
	return s
}

func (s *KindScopes) ScopeOf(kind ResourceKind) Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.cluster[scopeKey(kind)]; ok {
		return ScopeCluster
	}
	return ScopeNamespaced
}

// Register adds kinds, such as cluster-wide custom resources, to the set.
func (s *KindScopes) Register(kinds ...ResourceKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range kinds {
		if key := scopeKey(kind); key != "" {
			s.cluster[key] = struct{}{}
		}
	}
}

func scopeKey(kind ResourceKind) string {
	return strings.ToLower(strings.TrimSpace(string(kind)))
}
