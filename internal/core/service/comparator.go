package service

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/diff"
	"github.com/olusolaa/helm-guard/internal/normalization"
)

const defaultConcurrency = 8

type ComparatorOptions struct {
	Namespace    string
	Strict       bool
	IncludeKinds []string
	Concurrency  int
}

// Comparator matches desired and live resources and diffs every pair.
type Comparator struct {
	opts       ComparatorOptions
	normalizer *normalization.Normalizer
	gate       *normalization.Gate
	engine     *diff.Engine
	matcher    ports.Matcher
	scopes     domain.ScopeResolver
	logger     ports.Logger
}

type ComparatorOption func(*Comparator)

// WithScopes sets the kind scope resolver. It must be the resolver the
// matcher uses so identities agree.
func WithScopes(scopes domain.ScopeResolver) ComparatorOption {
	return func(c *Comparator) {
		if scopes != nil {
			c.scopes = scopes
		}
	}
}

func WithNormalizer(n *normalization.Normalizer) ComparatorOption {
	return func(c *Comparator) {
		c.normalizer = n
	}
}

func NewComparator(opts ComparatorOptions, matcher ports.Matcher, logger ports.Logger, options ...ComparatorOption) *Comparator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	c := &Comparator{
		opts:       opts,
		normalizer: normalization.NewNormalizer(),
		gate:       normalization.NewGate(),
		matcher:    matcher,
		scopes:     domain.NewKindScopes(),
		logger:     logger,
	}
	for _, opt := range options {
		opt(c)
	}
	c.engine = diff.NewEngine(c.gate, opts.Strict)
	return c
}

func (c *Comparator) Selection(desired []domain.Resource) domain.ReportSelection {
	desiredKinds := make([]string, 0, len(desired))
	for _, res := range desired {
		desiredKinds = append(desiredKinds, string(res.Kind()))
	}
	desiredKinds = uniqueSorted(desiredKinds)
	additional := uniqueSorted(c.opts.IncludeKinds)
	return domain.ReportSelection{
		DesiredKinds:    desiredKinds,
		AdditionalKinds: additional,
		ComparedKinds:   uniqueSorted(append(append([]string{}, desiredKinds...), additional...)),
	}
}

func (c *Comparator) Compare(ctx context.Context, desired, live []domain.Resource) (domain.ComparisonOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.ComparisonOutcome{}, err
	}
	selection := c.Selection(desired)
	compared := make(map[string]struct{}, len(selection.ComparedKinds))
	for _, kind := range selection.ComparedKinds {
		compared[kind] = struct{}{}
	}

	desiredSet := c.prepareDesired(desired)
	liveSet := c.prepareLive(ctx, live, compared)

	c.logger.Debugf(ctx, "Comparing %d desired against %d live resources over kinds %v",
		len(desiredSet), len(liveSet), selection.ComparedKinds)

	matched, err := c.matcher.Match(ctx, desiredSet, liveSet)
	if err != nil {
		return domain.ComparisonOutcome{}, err
	}

	results := make([]domain.ResourceResult, 0, len(matched.Matched)+len(matched.UnmatchedDesired)+len(matched.UnmatchedLive))
	for _, res := range matched.UnmatchedDesired {
		results = append(results, newResult(res.IdentifierIn(c.scopes), domain.StatusMissingLive, nil))
	}
	for _, res := range matched.UnmatchedLive {
		results = append(results, newResult(res.IdentifierIn(c.scopes), domain.StatusMissingHelm, nil))
	}

	pairResults, suppressed, err := c.diffPairs(ctx, matched.Matched)
	if err != nil {
		return domain.ComparisonOutcome{}, err
	}
	results = append(results, pairResults...)

	tracker := normalization.NewTracker(c.gate.Catalog())
	for _, ids := range suppressed {
		for _, id := range ids {
			tracker.Record(id)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Resource.Compare(results[j].Resource) < 0
	})

	return domain.ComparisonOutcome{
		Results:       results,
		Selection:     selection,
		Normalization: tracker.Summary(),
	}, nil
}

// diffPairs diffs pairs in a bounded errgroup. Each worker owns one slot of
// the output slices.
func (c *Comparator) diffPairs(ctx context.Context, pairs []ports.MatchedPair) ([]domain.ResourceResult, [][]string, error) {
	results := make([]domain.ResourceResult, len(pairs))
	suppressed := make([][]string, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome := c.engine.Diff(pair.Identifier.Kind, pair.Desired, pair.Live)
			status := domain.StatusMatch
			if len(outcome.Differences) > 0 {
				status = domain.StatusDrift
				c.logger.WithFields(map[string]any{
					"resource": pair.Identifier.Key(),
				}).Debugf(gctx, "Drift detected in %d fields", len(outcome.Differences))
			}
			results[i] = newResult(pair.Identifier, status, outcome.Differences)
			suppressed[i] = outcome.Suppressed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, suppressed, nil
}

func (c *Comparator) prepareDesired(resources []domain.Resource) []domain.Resource {
	out := make([]domain.Resource, 0, len(resources))
	for _, res := range resources {
		normalized := c.normalizer.Normalize(res)
		if c.scopes.ScopeOf(normalized.Kind()) == domain.ScopeNamespaced && normalized.Namespace() == "" {
			normalized.SetNamespace(c.opts.Namespace)
		}
		out = append(out, normalized)
	}
	return out
}

func (c *Comparator) prepareLive(ctx context.Context, resources []domain.Resource, compared map[string]struct{}) []domain.Resource {
	out := make([]domain.Resource, 0, len(resources))
	for _, res := range resources {
		kind := strings.TrimSpace(string(res.Kind()))
		if _, ok := compared[kind]; !ok {
			continue
		}
		if c.scopes.ScopeOf(domain.ResourceKind(kind)) == domain.ScopeNamespaced && res.Namespace() != c.opts.Namespace {
			c.logger.Debugf(ctx, "Skipping live %s outside namespace %s", res.IdentifierIn(c.scopes).Key(), c.opts.Namespace)
			continue
		}
		out = append(out, c.normalizer.Normalize(res))
	}
	return out
}

func newResult(id domain.ResourceIdentifier, status domain.ResourceStatus, diffs []domain.DiffItem) domain.ResourceResult {
	if diffs == nil {
		diffs = []domain.DiffItem{}
	}
	return domain.ResourceResult{
		Resource:    id,
		Scope:       id.Scope(),
		Status:      status,
		Differences: diffs,
	}
}

func uniqueSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := set[v]; dup {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
