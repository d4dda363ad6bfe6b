package ports

import (
	"context"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

type MatchedPair struct {
	Identifier domain.ResourceIdentifier
	Desired    domain.Resource
	Live       domain.Resource
}

// MatchingResult lists pairs and leftovers, each ordered by identifier.
type MatchingResult struct {
	Matched          []MatchedPair
	UnmatchedDesired []domain.Resource // rendered but not in the cluster
	UnmatchedLive    []domain.Resource // in the cluster but not rendered
}

//go:generate mockery --name=Matcher --output=./mocks --outpkg=mocks --case underscore
type Matcher interface {
	Match(ctx context.Context, desired []domain.Resource, live []domain.Resource) (MatchingResult, error)
}
