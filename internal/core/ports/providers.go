package ports

import (
	"context"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

type RenderRequest struct {
	Chart       string
	Release     string
	Namespace   string
	ValuesFiles []string
	SetValues   []string
}

//go:generate mockery --name=DesiredStateProvider --output=./mocks --outpkg=mocks --case underscore
type DesiredStateProvider interface {
	Type() string
	Render(ctx context.Context, req RenderRequest) ([]domain.Resource, error)
}

// LiveQuery selects live resources. An empty Kinds list selects nothing.
type LiveQuery struct {
	Namespace     string
	Kinds         []domain.ResourceKind
	LabelSelector string
}

//go:generate mockery --name=LiveStateProvider --output=./mocks --outpkg=mocks --case underscore
type LiveStateProvider interface {
	Type() string
	ListResources(ctx context.Context, query LiveQuery) ([]domain.Resource, error)
}
