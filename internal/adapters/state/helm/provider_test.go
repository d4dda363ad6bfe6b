package helm

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/helm-guard/internal/core/ports"
	portsmocks "github.com/olusolaa/helm-guard/internal/core/ports/mocks"
	"github.com/olusolaa/helm-guard/internal/errors"
)

type fakeRunner struct {
	mock.Mock
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ret := f.Called(ctx, name, args)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}

func TestTemplateArgs(t *testing.T) {
	tests := []struct {
		name string
		req  ports.RenderRequest
		want []string
	}{
		{
			name: "chart only",
			req:  ports.RenderRequest{Chart: "./chart", Namespace: "shop"},
			want: []string{"template", "./chart", "--namespace", "shop"},
		},
		{
			name: "release values and sets",
			req: ports.RenderRequest{
				Chart:       "./chart",
				Release:     "shop",
				Namespace:   "shop",
				ValuesFiles: []string{"base.yaml", "prod.yaml"},
				SetValues:   []string{"image.tag=1.2.3", "replicas=3"},
			},
			want: []string{"template", "shop", "./chart", "--namespace", "shop",
				"-f", "base.yaml", "-f", "prod.yaml", "--set", "image.tag=1.2.3", "--set", "replicas=3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TemplateArgs(tt.req))
		})
	}
}

func TestRender(t *testing.T) {
	runner := &fakeRunner{}
	ctx := context.Background()
	runner.On("Run", ctx, "/usr/local/bin/helm", []string{"template", "./chart", "--namespace", "shop"}).
		Return([]byte("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: settings\n"), nil).Once()

	p := NewProvider("/usr/local/bin/helm", runner, portsmocks.NewLogger(t))
	resources, err := p.Render(ctx, ports.RenderRequest{Chart: "./chart", Namespace: "shop"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "settings", resources[0].Name())
	assert.Equal(t, ProviderType, p.Type())
	runner.AssertExpectations(t)
}

func TestRenderFailure(t *testing.T) {
	runner := &fakeRunner{}
	runner.On("Run", mock.Anything, DefaultBinary, mock.Anything).
		Return(nil, errors.New(errors.CodeCommandError, "helm failed").WithDetails("stderr=Error: path not found")).Once()

	p := NewProvider("", runner, portsmocks.NewLogger(t))
	_, err := p.Render(context.Background(), ports.RenderRequest{Chart: "./missing", Namespace: "shop"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeRenderError))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Contains(t, appErr.InternalDetails, "helm failed")
	_, _, userFacing := errors.GetUserFacingMessage(err)
	assert.True(t, userFacing)
}

func TestRenderRequiresChart(t *testing.T) {
	p := NewProvider("", &fakeRunner{}, portsmocks.NewLogger(t))
	_, err := p.Render(context.Background(), ports.RenderRequest{Namespace: "shop"})
	assert.True(t, errors.Is(err, errors.CodeConfigValidation))
}
