package oc

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olusolaa/helm-guard/internal/adapters/command"
	"github.com/olusolaa/helm-guard/internal/adapters/manifest"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const (
	ProviderType  = "oc"
	DefaultBinary = "oc"
)

var authFailureMarkers = []string{
	"must be logged in",
	"Unauthorized",
	"provide credentials",
	"token has expired",
}

// Provider reads live state with `oc get`.
type Provider struct {
	binary  string
	kubeCtx string
	runner  command.Runner
	scopes  *domain.KindScopes
	logger  ports.Logger

	discoverOnce sync.Once
}

type Option func(*Provider)

func WithBinary(binary string) Option {
	return func(p *Provider) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithContext selects a kubeconfig context for every call.
func WithContext(name string) Option {
	return func(p *Provider) {
		p.kubeCtx = name
	}
}

// WithScopes registers the cluster's cluster-scoped kinds, read once with
// `oc api-resources`, into scopes before the first listing.
func WithScopes(scopes *domain.KindScopes) Option {
	return func(p *Provider) {
		p.scopes = scopes
	}
}

func NewProvider(runner command.Runner, logger ports.Logger, opts ...Option) *Provider {
	p := &Provider{binary: DefaultBinary, runner: runner, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Type() string {
	return ProviderType
}

func (p *Provider) ListResources(ctx context.Context, query ports.LiveQuery) ([]domain.Resource, error) {
	args := p.GetArgs(query)
	if args == nil {
		return []domain.Resource{}, nil
	}
	if p.scopes != nil {
		p.discoverOnce.Do(func() { p.discoverClusterScoped(ctx) })
	}

	out, err := p.runner.Run(ctx, p.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, classify(err, query.Namespace)
	}

	resources, err := manifest.Decode(out, fmt.Sprintf("oc output for namespace %s", query.Namespace))
	if err != nil {
		return nil, err
	}
	p.logger.Debugf(ctx, "oc returned %d live resources in namespace %s", len(resources), query.Namespace)
	return resources, nil
}

// GetArgs builds `get <kinds> -n <ns> [-l selector] -o yaml [--context c]`
// with kinds sorted and de-duplicated. It returns nil when no kinds are asked for.
func (p *Provider) GetArgs(query ports.LiveQuery) []string {
	kinds := make([]string, 0, len(query.Kinds))
	seen := make(map[string]struct{}, len(query.Kinds))
	for _, k := range query.Kinds {
		kind := strings.TrimSpace(string(k))
		if kind == "" {
			continue
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return nil
	}
	sort.Strings(kinds)

	args := []string{"get", strings.Join(kinds, ","), "-n", query.Namespace}
	if query.LabelSelector != "" {
		args = append(args, "-l", query.LabelSelector)
	}
	args = append(args, "-o", "yaml")
	if p.kubeCtx != "" {
		args = append(args, "--context", p.kubeCtx)
	}
	return args
}

// discoverClusterScoped registers every cluster-scoped kind the server
// serves. Failures keep the built-in set.
func (p *Provider) discoverClusterScoped(ctx context.Context) {
	out, err := p.runner.Run(ctx, p.binary, p.APIResourcesArgs()...)
	if err != nil {
		p.logger.Warnf(ctx, "Could not discover cluster-scoped kinds, using built-in list: %v", err)
		return
	}
	kinds := ParseAPIResourceKinds(out)
	p.scopes.Register(kinds...)
	p.logger.Debugf(ctx, "Registered %d cluster-scoped kinds from api-resources", len(kinds))
}

func (p *Provider) APIResourcesArgs() []string {
	args := []string{"api-resources", "--namespaced=false", "--no-headers"}
	if p.kubeCtx != "" {
		args = append(args, "--context", p.kubeCtx)
	}
	return args
}

// ParseAPIResourceKinds reads the KIND column, the last one, of
// `oc api-resources --no-headers` output.
func ParseAPIResourceKinds(out []byte) []domain.ResourceKind {
	var kinds []domain.ResourceKind
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kinds = append(kinds, domain.ResourceKind(fields[len(fields)-1]))
	}
	return kinds
}

func classify(err error, namespace string) error {
	var appErr *errors.AppError
	details := err.Error()
	if stderrors.As(err, &appErr) {
		details += " " + appErr.InternalDetails
	}
	for _, marker := range authFailureMarkers {
		if strings.Contains(details, marker) {
			return errors.WrapUserFacing(err, errors.CodePlatformAuthError,
				"not authenticated to the cluster",
				"Run `oc login` or select a context with --context.")
		}
	}
	return errors.WrapUserFacing(err, errors.CodeLiveQueryError,
		fmt.Sprintf("oc get failed in namespace %s", namespace),
		"Check that the namespace exists and that you can list its resources.")
}
