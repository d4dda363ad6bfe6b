package oc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	portsmocks "github.com/olusolaa/helm-guard/internal/core/ports/mocks"
	"github.com/olusolaa/helm-guard/internal/errors"
)

type fakeRunner struct {
	mock.Mock
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ret := f.Called(ctx, name, args)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}

const listOutput = `apiVersion: v1
kind: List
items:
- apiVersion: apps/v1
  kind: Deployment
  metadata:
    name: web
    namespace: shop
- apiVersion: v1
  kind: Service
  metadata:
    name: web
    namespace: shop
`

func TestGetArgs(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		query ports.LiveQuery
		want  []string
	}{
		{
			name:  "no kinds",
			query: ports.LiveQuery{Namespace: "shop"},
		},
		{
			name:  "sorted unique kinds",
			query: ports.LiveQuery{Namespace: "shop", Kinds: []domain.ResourceKind{"Service", "Deployment", "Service", " "}},
			want:  []string{"get", "Deployment,Service", "-n", "shop", "-o", "yaml"},
		},
		{
			name: "selector and context",
			opts: []Option{WithContext("prod")},
			query: ports.LiveQuery{
				Namespace:     "shop",
				Kinds:         []domain.ResourceKind{"Route"},
				LabelSelector: "app.kubernetes.io/managed-by=Helm",
			},
			want: []string{"get", "Route", "-n", "shop", "-l", "app.kubernetes.io/managed-by=Helm", "-o", "yaml", "--context", "prod"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(&fakeRunner{}, portsmocks.NewLogger(t), tt.opts...)
			assert.Equal(t, tt.want, p.GetArgs(tt.query))
		})
	}
}

func TestListResources(t *testing.T) {
	runner := &fakeRunner{}
	runner.On("Run", mock.Anything, "/opt/oc", []string{"get", "Deployment,Service", "-n", "shop", "-o", "yaml"}).
		Return([]byte(listOutput), nil).Once()

	p := NewProvider(runner, portsmocks.NewLogger(t), WithBinary("/opt/oc"))
	resources, err := p.ListResources(context.Background(), ports.LiveQuery{
		Namespace: "shop",
		Kinds:     []domain.ResourceKind{"Service", "Deployment"},
	})
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Deployment/shop/web", resources[0].Identifier().Key())
	runner.AssertExpectations(t)
}

func TestListResourcesEmptyKinds(t *testing.T) {
	runner := &fakeRunner{}
	p := NewProvider(runner, portsmocks.NewLogger(t))

	resources, err := p.ListResources(context.Background(), ports.LiveQuery{Namespace: "shop"})
	require.NoError(t, err)
	assert.Empty(t, resources)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestListResourcesErrors(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		wantCode errors.Code
	}{
		{name: "not logged in", stderr: "error: You must be logged in to the server (Unauthorized)", wantCode: errors.CodePlatformAuthError},
		{name: "other failure", stderr: `Error from server (NotFound): namespaces "shop" not found`, wantCode: errors.CodeLiveQueryError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			runner.On("Run", mock.Anything, DefaultBinary, mock.Anything).
				Return(nil, errors.New(errors.CodeCommandError, "oc failed").WithDetails("stderr=%s", tt.stderr)).Once()

			p := NewProvider(runner, portsmocks.NewLogger(t))
			_, err := p.ListResources(context.Background(), ports.LiveQuery{Namespace: "shop", Kinds: []domain.ResourceKind{"Deployment"}})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

const apiResourcesOutput = `clusterroles                     rbac.authorization.k8s.io/v1   false   ClusterRole
tenants          tn              platform.example.com/v1        false   Tenant
projects                         project.openshift.io/v1        false   Project

`

func TestParseAPIResourceKinds(t *testing.T) {
	kinds := ParseAPIResourceKinds([]byte(apiResourcesOutput))
	assert.Equal(t, []domain.ResourceKind{"ClusterRole", "Tenant", "Project"}, kinds)
	assert.Empty(t, ParseAPIResourceKinds(nil))
}

func TestListResourcesRegistersClusterScopedKinds(t *testing.T) {
	runner := &fakeRunner{}
	runner.On("Run", mock.Anything, DefaultBinary, []string{"api-resources", "--namespaced=false", "--no-headers", "--context", "prod"}).
		Return([]byte(apiResourcesOutput), nil).Once()
	runner.On("Run", mock.Anything, DefaultBinary, []string{"get", "Tenant", "-n", "shop", "-o", "yaml", "--context", "prod"}).
		Return([]byte("apiVersion: v1\nkind: List\nitems: []\n"), nil).Twice()

	scopes := domain.NewKindScopes()
	p := NewProvider(runner, portsmocks.NewLogger(t), WithScopes(scopes), WithContext("prod"))
	query := ports.LiveQuery{Namespace: "shop", Kinds: []domain.ResourceKind{"Tenant"}}

	_, err := p.ListResources(context.Background(), query)
	require.NoError(t, err)
	_, err = p.ListResources(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, domain.ScopeCluster, scopes.ScopeOf("Tenant"))
	runner.AssertExpectations(t)
}

func TestListResourcesDiscoveryFailureKeepsBuiltins(t *testing.T) {
	runner := &fakeRunner{}
	runner.On("Run", mock.Anything, DefaultBinary, []string{"api-resources", "--namespaced=false", "--no-headers"}).
		Return(nil, errors.New(errors.CodeCommandError, "oc failed")).Once()
	runner.On("Run", mock.Anything, DefaultBinary, []string{"get", "Tenant", "-n", "shop", "-o", "yaml"}).
		Return([]byte(listOutput), nil).Once()

	scopes := domain.NewKindScopes()
	p := NewProvider(runner, portsmocks.NewLogger(t), WithScopes(scopes))
	resources, err := p.ListResources(context.Background(), ports.LiveQuery{Namespace: "shop", Kinds: []domain.ResourceKind{"Tenant"}})
	require.NoError(t, err)
	assert.Len(t, resources, 2)
	assert.Equal(t, domain.ScopeNamespaced, scopes.ScopeOf("Tenant"))
	assert.Equal(t, domain.ScopeCluster, scopes.ScopeOf("ClusterRole"))
}
