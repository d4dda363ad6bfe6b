package json

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const (
	ReporterTypeJSON = "json"
	fileMode         = 0o644
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Reporter writes the report document to a file.
type Reporter struct {
	config Config
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.Path == "" {
		return nil, errors.New(errors.CodeConfigValidation, "json reporter requires an output path")
	}
	return &Reporter{config: cfg, logger: logger}, nil
}

func (r *Reporter) Type() string {
	return ReporterTypeJSON
}

func (r *Reporter) Report(ctx context.Context, report *domain.Report) error {
	if err := ctx.Err(); err != nil {
		r.logger.Warnf(ctx, "JSON report generation cancelled.")
		return err
	}

	data, err := Marshal(report)
	if err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON report")
		return err
	}

	if dir := filepath.Dir(r.config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapUserFacing(err, errors.CodeReportWriteError,
				fmt.Sprintf("cannot create report directory %s", dir),
				"Choose a writable --output path.")
		}
	}
	if err := os.WriteFile(r.config.Path, data, fileMode); err != nil {
		return errors.WrapUserFacing(err, errors.CodeReportWriteError,
			fmt.Sprintf("cannot write report to %s", r.config.Path),
			"Choose a writable --output path.")
	}

	r.logger.Infof(ctx, "JSON report written to %s", r.config.Path)
	return nil
}

// Marshal encodes the report with two-space indentation and a trailing
// newline. Indentation is applied to the whole document so values produced
// by custom marshalers are indented too.
func Marshal(report *domain.Report) ([]byte, error) {
	data, err := api.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeReportWriteError, "failed to encode JSON report")
	}
	var buf bytes.Buffer
	if err := stdjson.Indent(&buf, data, "", "  "); err != nil {
		return nil, errors.Wrap(err, errors.CodeReportWriteError, "failed to indent JSON report")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
