package app

import (
	"context"

	"github.com/olusolaa/helm-guard/internal/config"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
)

// Application runs one drift analysis.
type Application struct {
	Engine ports.DriftAnalysisEngine
	Logger ports.Logger
	Config *config.Config
}

func NewApplication(engine ports.DriftAnalysisEngine, logger ports.Logger, cfg *config.Config) *Application {
	return &Application{
		Engine: engine,
		Logger: logger,
		Config: cfg,
	}
}

// Run executes the analysis. The report is returned whenever one was built,
// even if publishing it failed.
func (a *Application) Run(ctx context.Context) (*domain.Report, error) {
	a.Logger.Infof(ctx, "Starting drift analysis...")

	report, err := a.Engine.Run(ctx)
	if err != nil {
		a.Logger.Errorf(ctx, err, "Drift analysis failed")
		return report, err
	}

	a.Logger.Infof(ctx, "Drift analysis completed with exit code %d", report.ExitCode())
	return report, nil
}
