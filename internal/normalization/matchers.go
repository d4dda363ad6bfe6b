package normalization

import (
	"math"

	"github.com/google/go-cmp/cmp"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/pkg/reflectutil"
)

// ValueMatcher accepts or rejects an observed live value.
type ValueMatcher func(value any) bool

const restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

func MatchNull(value any) bool {
	return value == nil
}

// MatchNullOrTimestamp accepts nil or any non-empty string.
func MatchNullOrTimestamp(value any) bool {
	return value == nil || MatchNonEmptyString(value)
}

func MatchEmptyObject(value any) bool {
	m, ok := value.(map[string]any)
	return ok && len(m) == 0
}

func MatchNullOrEmpty(value any) bool {
	return value == nil || MatchEmptyObject(value)
}

// MatchExact compares with strict typing: numbers only match numbers
// (of any Go numeric type), strings only strings, bools only bools.
func MatchExact(expected any) ValueMatcher {
	if reflectutil.IsNumber(expected) {
		return func(value any) bool {
			return reflectutil.IsNumber(value) && reflectutil.NumbersEqual(expected, value)
		}
	}
	return func(value any) bool {
		switch e := expected.(type) {
		case string:
			v, ok := value.(string)
			return ok && v == e
		case bool:
			v, ok := value.(bool)
			return ok && v == e
		}
		return false
	}
}

func MatchOneOf(expected ...any) ValueMatcher {
	matchers := make([]ValueMatcher, len(expected))
	for i, e := range expected {
		matchers[i] = MatchExact(e)
	}
	return func(value any) bool {
		for _, m := range matchers {
			if m(value) {
				return true
			}
		}
		return false
	}
}

// MatchExactObject requires value to have exactly the expected shape.
func MatchExactObject(expected map[string]any) ValueMatcher {
	return func(value any) bool {
		m, ok := value.(map[string]any)
		return ok && cmp.Equal(m, expected)
	}
}

func MatchNonEmptyString(value any) bool {
	s, ok := value.(string)
	return ok && s != ""
}

func MatchArrayOfStrings(value any) bool {
	items, ok := value.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

func MatchNumber(value any) bool {
	f, ok := reflectutil.ToFloat64(value)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MatchObjectWithNullCreationTimestamp accepts {creationTimestamp: null}.
func MatchObjectWithNullCreationTimestamp(value any) bool {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	ts, present := m[domain.KeyCreationTimestamp]
	return present && ts == nil
}

// MatchObjectWithRestartedAt accepts an annotation map holding only the
// rollout restart stamp.
func MatchObjectWithRestartedAt(value any) bool {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	_, isString := m[restartedAtAnnotation].(string)
	return isString
}

// MatchDefaultRollingUpdateStrategy accepts the Deployment strategy the API
// server fills in: RollingUpdate with 25% surge and unavailability.
func MatchDefaultRollingUpdateStrategy(value any) bool {
	return MatchExactObject(map[string]any{
		"type": "RollingUpdate",
		"rollingUpdate": map[string]any{
			"maxSurge":       "25%",
			"maxUnavailable": "25%",
		},
	})(value)
}
