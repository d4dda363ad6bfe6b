package identity

import (
	"context"
	"sort"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const MatcherTypeIdentity = "identity"

// Matcher pairs resources by (kind, namespace, name).
type Matcher struct {
	scopes domain.ScopeResolver
	logger ports.Logger
}

type Option func(*Matcher)

// WithScopes sets the resolver deciding which kinds drop their namespace
// from the identity.
func WithScopes(scopes domain.ScopeResolver) Option {
	return func(m *Matcher) {
		if scopes != nil {
			m.scopes = scopes
		}
	}
}

func NewMatcher(logger ports.Logger, opts ...Option) *Matcher {
	m := &Matcher{scopes: domain.NewKindScopes(), logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Matcher) Match(
	ctx context.Context,
	desired []domain.Resource,
	live []domain.Resource,
) (ports.MatchingResult, error) {

	m.logger.Debugf(ctx, "Starting identity matching (%d desired, %d live)", len(desired), len(live))

	desiredIndex, err := m.index(ctx, desired, "desired")
	if err != nil {
		return ports.MatchingResult{}, err
	}
	liveIndex, err := m.index(ctx, live, "live")
	if err != nil {
		return ports.MatchingResult{}, err
	}

	result := ports.MatchingResult{
		Matched:          make([]ports.MatchedPair, 0),
		UnmatchedDesired: make([]domain.Resource, 0),
		UnmatchedLive:    make([]domain.Resource, 0),
	}

	for _, id := range sortedKeys(desiredIndex) {
		if ctx.Err() != nil {
			return ports.MatchingResult{}, ctx.Err()
		}
		desRes := desiredIndex[id]
		liveRes, found := liveIndex[id]
		if !found {
			result.UnmatchedDesired = append(result.UnmatchedDesired, desRes)
			continue
		}
		result.Matched = append(result.Matched, ports.MatchedPair{
			Identifier: id,
			Desired:    desRes,
			Live:       liveRes,
		})
	}

	for _, id := range sortedKeys(liveIndex) {
		if _, found := desiredIndex[id]; !found {
			result.UnmatchedLive = append(result.UnmatchedLive, liveIndex[id])
		}
	}

	m.logger.Debugf(ctx, "Identity matching finished: %d matched, %d missing live, %d missing in chart",
		len(result.Matched), len(result.UnmatchedDesired), len(result.UnmatchedLive))
	return result, nil
}

func (m *Matcher) index(ctx context.Context, resources []domain.Resource, side string) (map[domain.ResourceIdentifier]domain.Resource, error) {
	out := make(map[domain.ResourceIdentifier]domain.Resource, len(resources))
	for _, res := range resources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		id := res.IdentifierIn(m.scopes)
		if _, exists := out[id]; exists {
			return nil, errors.NewUserFacing(
				errors.CodeDuplicateIdentity,
				"Duplicate "+side+" resource "+id.Key(),
				"Each kind/namespace/name must appear once; check the chart templates for repeated objects.",
			).WithDetails("side=%s identity=%s", side, id.Key())
		}
		out[id] = res
	}
	return out, nil
}

func sortedKeys(m map[domain.ResourceIdentifier]domain.Resource) []domain.ResourceIdentifier {
	keys := make([]domain.ResourceIdentifier, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })
	return keys
}
