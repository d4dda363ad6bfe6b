package helm

import (
	"context"
	"fmt"

	"github.com/olusolaa/helm-guard/internal/adapters/command"
	"github.com/olusolaa/helm-guard/internal/adapters/manifest"
	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const (
	ProviderType  = "helm"
	DefaultBinary = "helm"
)

// Provider renders a chart with `helm template`.
type Provider struct {
	binary string
	runner command.Runner
	logger ports.Logger
}

func NewProvider(binary string, runner command.Runner, logger ports.Logger) *Provider {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Provider{binary: binary, runner: runner, logger: logger}
}

func (p *Provider) Type() string {
	return ProviderType
}

func (p *Provider) Render(ctx context.Context, req ports.RenderRequest) ([]domain.Resource, error) {
	if req.Chart == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "no Helm chart given", "Pass --chart with a chart path or reference.")
	}

	args := TemplateArgs(req)
	p.logger.Debugf(ctx, "Rendering chart %s into namespace %s", req.Chart, req.Namespace)

	out, err := p.runner.Run(ctx, p.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.WrapUserFacing(err, errors.CodeRenderError,
			fmt.Sprintf("helm template failed for chart %s", req.Chart),
			"Check that the chart path, values files and --set expressions are valid.")
	}

	resources, err := manifest.Decode(out, fmt.Sprintf("helm output for chart %s", req.Chart))
	if err != nil {
		return nil, err
	}
	p.logger.Debugf(ctx, "Chart %s rendered %d resources", req.Chart, len(resources))
	return resources, nil
}

// TemplateArgs builds `template [release] <chart> --namespace <ns> [-f v]... [--set s]...`.
func TemplateArgs(req ports.RenderRequest) []string {
	args := []string{"template"}
	if req.Release != "" {
		args = append(args, req.Release)
	}
	args = append(args, req.Chart, "--namespace", req.Namespace)
	for _, f := range req.ValuesFiles {
		args = append(args, "-f", f)
	}
	for _, s := range req.SetValues {
		args = append(args, "--set", s)
	}
	return args
}
