package ports

import (
	"context"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

//go:generate mockery --name DriftAnalysisEngine --output ./mocks --outpkg mocks --case underscore
type DriftAnalysisEngine interface {
	Run(ctx context.Context) (*domain.Report, error)
}
