package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	apperrors "github.com/olusolaa/helm-guard/internal/errors"
)

// RunSettings carries the per-run inputs the engine hands to collaborators.
type RunSettings struct {
	Render        ports.RenderRequest
	LabelSelector string
	Report        domain.ReportConfig
}

type DriftAnalysisEngine struct {
	desired    ports.DesiredStateProvider
	live       ports.LiveStateProvider
	comparator ports.ResourceComparator
	reporters  []ports.Reporter
	logger     ports.Logger
	settings   RunSettings
	now        func() time.Time
}

func NewDriftAnalysisEngine(
	desired ports.DesiredStateProvider,
	live ports.LiveStateProvider,
	comparator ports.ResourceComparator,
	reporters []ports.Reporter,
	logger ports.Logger,
	settings RunSettings,
) (*DriftAnalysisEngine, error) {
	if desired == nil {
		return nil, apperrors.New(apperrors.CodeConfigValidation, "desired state provider cannot be nil")
	}
	if live == nil {
		return nil, apperrors.New(apperrors.CodeConfigValidation, "live state provider cannot be nil")
	}
	if comparator == nil {
		return nil, apperrors.New(apperrors.CodeConfigValidation, "comparator cannot be nil")
	}

	return &DriftAnalysisEngine{
		desired:    desired,
		live:       live,
		comparator: comparator,
		reporters:  reporters,
		logger:     logger,
		settings:   settings,
		now:        time.Now,
	}, nil
}

// Run renders desired state, reads the live kinds it selects, compares both
// and hands the report to every reporter. The report is returned even when a
// reporter fails.
func (e *DriftAnalysisEngine) Run(ctx context.Context) (*domain.Report, error) {
	e.logger.Infof(ctx, "Starting drift analysis using %s desired state and %s live state",
		e.desired.Type(), e.live.Type())

	desired, err := e.desired.Render(ctx, e.settings.Render)
	if err != nil {
		return nil, e.fail(ctx, err, apperrors.CodeRenderError, "failed rendering desired state")
	}
	e.logger.Debugf(ctx, "Rendered %d desired resources", len(desired))

	selection := e.comparator.Selection(desired)
	kinds := make([]domain.ResourceKind, 0, len(selection.ComparedKinds))
	for _, k := range selection.ComparedKinds {
		kinds = append(kinds, domain.ResourceKind(k))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	live, err := e.live.ListResources(ctx, ports.LiveQuery{
		Namespace:     e.settings.Render.Namespace,
		Kinds:         kinds,
		LabelSelector: e.settings.LabelSelector,
	})
	if err != nil {
		return nil, e.fail(ctx, err, apperrors.CodeLiveQueryError, "failed reading live state")
	}
	e.logger.Debugf(ctx, "Read %d live resources across %d kinds", len(live), len(kinds))

	outcome, err := e.comparator.Compare(ctx, desired, live)
	if err != nil {
		return nil, e.fail(ctx, err, apperrors.CodeComparisonError, "resource comparison failed")
	}

	report := BuildReport(outcome, e.settings.Report, e.now())
	e.logger.Infof(ctx, "Comparison finished: %d resources, %d drifted, %d missing live, %d missing in chart, %d suppressed defaults",
		report.Summary.Total, report.Summary.Drifted, report.Summary.MissingLive, report.Summary.MissingHelm,
		report.Normalization.TotalSuppressed)

	if err := e.publish(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}

// publish runs every reporter to completion and returns the first failure.
func (e *DriftAnalysisEngine) publish(ctx context.Context, report *domain.Report) error {
	var g errgroup.Group
	for _, reporter := range e.reporters {
		g.Go(func() error {
			if err := reporter.Report(ctx, report); err != nil {
				e.logger.Errorf(ctx, err, "reporter %s failed", reporter.Type())
				return apperrors.Wrap(err, apperrors.CodeReportWriteError, "failed to publish report")
			}
			return nil
		})
	}
	return g.Wait()
}

func (e *DriftAnalysisEngine) fail(ctx context.Context, err error, code apperrors.Code, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		e.logger.Warnf(ctx, "Drift analysis cancelled or timed out: %v", err)
		return err
	}
	wrapped := apperrors.Wrap(err, code, msg)
	e.logger.Errorf(ctx, wrapped, "%s", msg)
	return wrapped
}
