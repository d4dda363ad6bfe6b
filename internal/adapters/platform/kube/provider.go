package kube

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/olusolaa/helm-guard/internal/adapters/platform/limiter"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const (
	ProviderType = "kube"

	listPageSize       = 500
	defaultConcurrency = 4
)

type Config struct {
	Kubeconfig  string
	Context     string
	RPS         int
	Concurrency int
	// Scopes receives the cluster-scoped kinds found during discovery.
	Scopes *domain.KindScopes
}

type mapping struct {
	gvr        schema.GroupVersionResource
	namespaced bool
}

// Provider reads live state through the Kubernetes API with the dynamic client.
type Provider struct {
	dynamic     dynamic.Interface
	discovery   discovery.DiscoveryInterface
	limiter     *limiter.Limiter
	scopes      *domain.KindScopes
	logger      ports.Logger
	concurrency int

	mu    sync.Mutex
	kinds map[string]mapping
}

// NewProvider loads the kubeconfig the way kubectl does: the explicit path
// if given, then KUBECONFIG, then ~/.kube/config.
func NewProvider(cfg Config, logger ports.Logger) (*Provider, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if cfg.Kubeconfig != "" {
		rules.ExplicitPath = cfg.Kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: cfg.Context}
	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			"failed to load kubeconfig",
			"Set --kubeconfig or KUBECONFIG, or log in with `oc login`.")
	}

	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create dynamic client")
	}
	disc, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create discovery client")
	}
	return NewProviderWithClients(dyn, disc, limiter.New(cfg.RPS, logger), logger, cfg.Concurrency, WithScopes(cfg.Scopes)), nil
}

type Option func(*Provider)

func WithScopes(scopes *domain.KindScopes) Option {
	return func(p *Provider) {
		p.scopes = scopes
	}
}

func NewProviderWithClients(dyn dynamic.Interface, disc discovery.DiscoveryInterface, lim *limiter.Limiter, logger ports.Logger, concurrency int, opts ...Option) *Provider {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	p := &Provider{
		dynamic:     dyn,
		discovery:   disc,
		limiter:     lim,
		logger:      logger,
		concurrency: concurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Type() string {
	return ProviderType
}

// ListResources lists every requested kind. Namespaced kinds are read from
// the query namespace and cluster-scoped kinds cluster-wide. Kinds the API
// server does not serve are skipped with a warning.
func (p *Provider) ListResources(ctx context.Context, query ports.LiveQuery) ([]domain.Resource, error) {
	kinds := uniqueKinds(query.Kinds)
	if len(kinds) == 0 {
		return []domain.Resource{}, nil
	}

	index, err := p.kindIndex(ctx)
	if err != nil {
		return nil, err
	}

	perKind := make([][]domain.Resource, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, kind := range kinds {
		m, ok := index[kind]
		if !ok {
			p.logger.Warnf(ctx, "Kind %s is not served by the cluster, skipping", kind)
			continue
		}
		g.Go(func() error {
			items, err := p.list(gctx, kind, m, query)
			if err != nil {
				return err
			}
			perKind[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resources := []domain.Resource{}
	for _, items := range perKind {
		resources = append(resources, items...)
	}
	p.logger.Debugf(ctx, "Cluster API returned %d live resources for %d kinds", len(resources), len(kinds))
	return resources, nil
}

func (p *Provider) list(ctx context.Context, kind string, m mapping, query ports.LiveQuery) ([]domain.Resource, error) {
	var client dynamic.ResourceInterface = p.dynamic.Resource(m.gvr)
	if m.namespaced {
		client = p.dynamic.Resource(m.gvr).Namespace(query.Namespace)
	}

	apiVersion := m.gvr.GroupVersion().String()
	var out []domain.Resource
	opts := metav1.ListOptions{LabelSelector: query.LabelSelector, Limit: listPageSize}
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		list, err := client.List(ctx, opts)
		if err != nil {
			return nil, classify(err, kind, query.Namespace)
		}
		for _, item := range list.Items {
			obj := item.Object
			if _, ok := obj[domain.KeyKind]; !ok {
				obj[domain.KeyKind] = kind
			}
			if _, ok := obj[domain.KeyAPIVersion]; !ok {
				obj[domain.KeyAPIVersion] = apiVersion
			}
			out = append(out, domain.Resource(obj))
		}
		opts.Continue = list.GetContinue()
		if opts.Continue == "" {
			return out, nil
		}
	}
}

// kindIndex maps each kind to the resource serving it, preferring the core
// group and each group's preferred version. The index is built once.
func (p *Provider) kindIndex(ctx context.Context) (map[string]mapping, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.kinds != nil {
		return p.kinds, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	groups, err := restmapper.GetAPIGroupResources(p.discovery)
	if err != nil {
		if len(groups) == 0 {
			return nil, classify(err, "", "")
		}
		p.logger.Warnf(ctx, "Partial API discovery: %v", err)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Group.Name == "" && groups[j].Group.Name != ""
	})

	index := make(map[string]mapping)
	for _, group := range groups {
		for _, version := range groupVersions(group) {
			for _, res := range group.VersionedResources[version] {
				if strings.Contains(res.Name, "/") || !hasVerb(res.Verbs, "list") {
					continue
				}
				if _, exists := index[res.Kind]; exists {
					continue
				}
				index[res.Kind] = mapping{
					gvr:        schema.GroupVersionResource{Group: group.Group.Name, Version: version, Resource: res.Name},
					namespaced: res.Namespaced,
				}
				if !res.Namespaced && p.scopes != nil {
					p.scopes.Register(domain.ResourceKind(res.Kind))
				}
			}
		}
	}
	p.kinds = index
	return index, nil
}

func groupVersions(group *restmapper.APIGroupResources) []string {
	preferred := group.Group.PreferredVersion.Version
	versions := []string{}
	if preferred != "" {
		versions = append(versions, preferred)
	}
	for _, v := range group.Group.Versions {
		if v.Version != preferred {
			versions = append(versions, v.Version)
		}
	}
	return versions
}

func hasVerb(verbs metav1.Verbs, verb string) bool {
	for _, v := range verbs {
		if v == verb {
			return true
		}
	}
	return false
}

func uniqueKinds(kinds []domain.ResourceKind) []string {
	seen := make(map[string]struct{}, len(kinds))
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		kind := strings.TrimSpace(string(k))
		if kind == "" {
			continue
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

func classify(err error, kind, namespace string) error {
	if k8serrors.IsUnauthorized(err) {
		return errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			"the cluster rejected the credentials",
			"Refresh your login with `oc login` or select another --context.")
	}
	if k8serrors.IsForbidden(err) {
		return errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			fmt.Sprintf("not allowed to list %s in namespace %s", kind, namespace),
			"Ask for list permission on the namespace or exclude the kind.")
	}
	if kind == "" {
		return errors.Wrap(err, errors.CodeLiveQueryError, "API discovery failed")
	}
	return errors.Wrap(err, errors.CodeLiveQueryError, fmt.Sprintf("failed to list %s", kind)).
		WithDetails("namespace=%s", namespace)
}
