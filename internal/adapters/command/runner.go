package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"

	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const (
	DefaultTimeout = 2 * time.Minute
	DefaultRetries = 2
	defaultBackoff = 500 * time.Millisecond
	maxBackoff     = 10 * time.Second
	backoffFactor  = 2.0
	backoffJitter  = 0.1
	maxStderrBytes = 4096
)

// Runner executes an external tool and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct {
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  ports.Logger
}

type Option func(*ExecRunner)

// WithTimeout bounds each attempt. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithRetries(n int) Option {
	return func(r *ExecRunner) {
		if n >= 0 {
			r.retries = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.backoff = d
	}
}

func NewExecRunner(logger ports.Logger, opts ...Option) *ExecRunner {
	r := &ExecRunner{
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		backoff: defaultBackoff,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run retries failed attempts with exponential backoff. Missing executables
// and cancellation of ctx are returned immediately.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	backoff := r.retryBackoff()

	var out []byte
	attempt := 0
	err := retry.OnError(backoff, func(err error) bool {
		return ctx.Err() == nil && !stderrors.Is(err, exec.ErrNotFound)
	}, func() error {
		attempt++
		if attempt > 1 {
			r.logger.Warnf(ctx, "Retrying %s (attempt %d of %d)", name, attempt, backoff.Steps)
		}
		var runErr error
		out, runErr = r.runOnce(ctx, name, args)
		return runErr
	})
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return nil, errors.WrapUserFacing(err, errors.CodeCommandError,
			fmt.Sprintf("%s executable not found", name),
			fmt.Sprintf("Install %s or point helm-guard at it in the configuration.", name)).
			WithDetails("command=%s args=%q", name, args)
	}
	return nil, err
}

// retryBackoff allows one first attempt plus the configured retries.
func (r *ExecRunner) retryBackoff() wait.Backoff {
	return wait.Backoff{
		Duration: r.backoff,
		Factor:   backoffFactor,
		Jitter:   backoffJitter,
		Steps:    r.retries + 1,
		Cap:      maxBackoff,
	}
}

func (r *ExecRunner) runOnce(ctx context.Context, name string, args []string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(attemptCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debugf(ctx, "Running %s %s", name, strings.Join(args, " "))
	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return nil, err
	}

	msg := fmt.Sprintf("%s failed", name)
	if stderrors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		msg = fmt.Sprintf("%s timed out after %s", name, r.timeout)
	}
	return nil, errors.Wrap(err, errors.CodeCommandError, msg).
		WithDetails("command=%s args=%q stderr=%s", name, args, trimStderr(stderr.String()))
}

func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrBytes {
		s = s[:maxStderrBytes] + "..."
	}
	return s
}
