package limiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/olusolaa/helm-guard/internal/core/ports"
)

const (
	DefaultRPS = 20
	MinRPS     = 1
	MaxRPS     = 100
)

// Limiter is a token bucket guarding calls to the cluster API.
type Limiter struct {
	limiter *rate.Limiter
	rps     int
	logger  ports.Logger
}

// New builds a limiter allowing rps requests per second with a burst of the
// same size. Zero selects the default; out-of-range values fall back to it
// with a warning.
func New(rps int, logger ports.Logger) *Limiter {
	value := DefaultRPS
	switch {
	case rps >= MinRPS && rps <= MaxRPS:
		value = rps
	case rps != 0:
		logger.Warnf(context.Background(), "Invalid API RPS configured (%d), using default %d RPS. Valid range: %d-%d.",
			rps, DefaultRPS, MinRPS, MaxRPS)
	}
	logger.Debugf(context.Background(), "Cluster API rate limiter set to %d RPS", value)
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(value), value),
		rps:     value,
		logger:  logger,
	}
}

func (l *Limiter) RPS() int {
	return l.rps
}

func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			l.logger.Warnf(ctx, "Error waiting for API rate limiter: %v", err)
		}
		return err
	}
	return nil
}
