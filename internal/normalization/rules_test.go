package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogIDsAreUniqueAndDescribed(t *testing.T) {
	catalog := NewGate().Catalog()
	seen := map[string]bool{}
	for _, rule := range catalog {
		assert.NotEmpty(t, rule.ID)
		assert.NotEmpty(t, rule.Description, rule.ID)
		assert.False(t, seen[rule.ID], "duplicate rule id %s", rule.ID)
		seen[rule.ID] = true
	}
	assert.Equal(t, PredicateImagePullPolicy, catalog[0].ID)
	assert.Equal(t, PredicateServiceTargetPort, catalog[1].ID)
}

func TestDefaultRulesOrder(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, "metadata.creationTimestamp", rules[0].ID)
	assert.Equal(t, "route.wildcardPolicy", rules[len(rules)-1].ID)
}
