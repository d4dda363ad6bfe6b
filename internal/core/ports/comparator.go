package ports

import (
	"context"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

//go:generate mockery --name=ResourceComparator --output=./mocks --outpkg=mocks --case underscore
type ResourceComparator interface {
	// Selection derives the kinds a comparison of desired will cover.
	Selection(desired []domain.Resource) domain.ReportSelection
	Compare(ctx context.Context, desired, live []domain.Resource) (domain.ComparisonOutcome, error)
}
