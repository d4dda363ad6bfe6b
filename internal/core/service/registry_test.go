package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portsmocks "github.com/olusolaa/helm-guard/internal/core/ports/mocks"
	"github.com/olusolaa/helm-guard/internal/errors"
)

func TestComponentRegistryProviders(t *testing.T) {
	registry := NewComponentRegistry()

	helm := portsmocks.NewDesiredStateProvider(t)
	helm.On("Type").Return("helm")
	require.NoError(t, registry.RegisterDesiredProvider(helm))
	assert.True(t, errors.Is(registry.RegisterDesiredProvider(helm), errors.CodeInternal))

	got, err := registry.GetDesiredProvider("helm")
	require.NoError(t, err)
	assert.Same(t, helm, got)

	oc := portsmocks.NewLiveStateProvider(t)
	oc.On("Type").Return("oc")
	require.NoError(t, registry.RegisterLiveProvider(oc))

	_, err = registry.GetLiveProvider("kube")
	require.Error(t, err)
	_, suggestion, ok := errors.GetUserFacingMessage(err)
	assert.True(t, ok)
	assert.Contains(t, suggestion, "--live-provider")

	assert.Error(t, registry.RegisterDesiredProvider(nil))
	assert.Error(t, registry.RegisterLiveProvider(nil))
}

func TestComponentRegistryReportersOrdered(t *testing.T) {
	registry := NewComponentRegistry()

	for _, typ := range []string{"text", "json", "s3"} {
		r := portsmocks.NewReporter(t)
		r.On("Type").Return(typ)
		require.NoError(t, registry.RegisterReporter(r))
	}

	var types []string
	for _, r := range registry.Reporters() {
		types = append(types, r.Type())
	}
	assert.Equal(t, []string{"json", "s3", "text"}, types)

	empty := portsmocks.NewReporter(t)
	empty.On("Type").Return("")
	assert.Error(t, registry.RegisterReporter(empty))
}
