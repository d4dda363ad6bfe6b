package ports

import (
	"context"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

//go:generate mockery --name=Reporter --output=./mocks --outpkg=mocks --case underscore
type Reporter interface {
	Type() string
	Report(ctx context.Context, report *domain.Report) error
}
