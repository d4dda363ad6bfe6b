package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	portsmocks "github.com/olusolaa/helm-guard/internal/core/ports/mocks"
	"github.com/olusolaa/helm-guard/internal/errors"
)

func res(kind, ns, name string) domain.Resource {
	meta := map[string]any{"name": name}
	if ns != "" {
		meta["namespace"] = ns
	}
	return domain.Resource{"apiVersion": "v1", "kind": kind, "metadata": meta}
}

func TestMatcher_Match(t *testing.T) {
	ctx := context.Background()
	m := NewMatcher(portsmocks.NewLogger(t))

	t.Run("pairs and leftovers ordered by identity", func(t *testing.T) {
		desired := []domain.Resource{
			res("Service", "shop", "web"),
			res("Deployment", "shop", "web"),
			res("ConfigMap", "shop", "settings"),
		}
		live := []domain.Resource{
			res("Secret", "shop", "token"),
			res("Deployment", "shop", "web"),
			res("Service", "shop", "web"),
		}

		result, err := m.Match(ctx, desired, live)
		require.NoError(t, err)

		require.Len(t, result.Matched, 2)
		assert.Equal(t, "Deployment/shop/web", result.Matched[0].Identifier.Key())
		assert.Equal(t, "Service/shop/web", result.Matched[1].Identifier.Key())

		require.Len(t, result.UnmatchedDesired, 1)
		assert.Equal(t, "settings", result.UnmatchedDesired[0].Name())
		require.Len(t, result.UnmatchedLive, 1)
		assert.Equal(t, "token", result.UnmatchedLive[0].Name())
	})

	t.Run("resolved cluster scoped kind ignores namespace", func(t *testing.T) {
		scoped := NewMatcher(portsmocks.NewLogger(t), WithScopes(domain.NewKindScopes("Tenant")))
		result, err := scoped.Match(ctx,
			[]domain.Resource{res("Tenant", "shop", "acme")},
			[]domain.Resource{res("Tenant", "", "acme")},
		)
		require.NoError(t, err)
		require.Len(t, result.Matched, 1)
		assert.Equal(t, "Tenant::cluster/acme", result.Matched[0].Identifier.Key())
	})

	t.Run("cluster scoped match ignores namespace", func(t *testing.T) {
		result, err := m.Match(ctx,
			[]domain.Resource{res("ClusterRole", "shop", "reader")},
			[]domain.Resource{res("ClusterRole", "", "reader")},
		)
		require.NoError(t, err)
		assert.Len(t, result.Matched, 1)
	})

	t.Run("duplicate identity fails", func(t *testing.T) {
		_, err := m.Match(ctx,
			[]domain.Resource{res("Deployment", "shop", "web"), res("Deployment", "shop", "web")},
			nil,
		)
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.CodeDuplicateIdentity, appErr.Code)
		assert.True(t, appErr.IsUserFacing)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.Match(cancelled, []domain.Resource{res("Deployment", "shop", "web")}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
