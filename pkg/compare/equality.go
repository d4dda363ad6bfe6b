// Package compare implements value equality for decoded resource trees,
// tolerating the number/string interchange common in Kubernetes APIs.
package compare

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/olusolaa/helm-guard/pkg/reflectutil"
)

type undefined struct{}

func (undefined) String() string { return "<undefined>" }

// Undefined marks a field that is absent from a tree. It is distinct from an
// explicit null, which decodes to nil.
var Undefined any = undefined{}

func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// IsAbsent reports whether v is Undefined or nil.
func IsAbsent(v any) bool {
	return v == nil || IsUndefined(v)
}

var numericString = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// SemanticallyEqual compares two decoded values. Numbers equal numeric strings
// of the same value, nil never equals Undefined, and objects and arrays are
// compared element by element.
func SemanticallyEqual(left, right any) bool {
	if IsUndefined(left) || IsUndefined(right) {
		return IsUndefined(left) && IsUndefined(right)
	}
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	switch l := left.(type) {
	case map[string]any:
		r, ok := right.(map[string]any)
		if !ok || len(l) != len(r) {
			return false
		}
		for key, lv := range l {
			rv, exists := r[key]
			if !exists || !SemanticallyEqual(lv, rv) {
				return false
			}
		}
		return true
	case []any:
		r, ok := right.([]any)
		if !ok || len(l) != len(r) {
			return false
		}
		for i := range l {
			if !SemanticallyEqual(l[i], r[i]) {
				return false
			}
		}
		return true
	case string:
		if r, ok := right.(string); ok {
			return l == r
		}
		return numericStringEquals(l, right)
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	}

	if reflectutil.IsNumber(left) {
		if s, ok := right.(string); ok {
			return numericStringEquals(s, left)
		}
		return reflectutil.NumbersEqual(left, right)
	}
	return false
}

func numericStringEquals(s string, number any) bool {
	if !reflectutil.IsNumber(number) {
		return false
	}
	trimmed := strings.TrimSpace(s)
	if !numericString.MatchString(trimmed) {
		return false
	}
	if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return reflectutil.NumbersEqual(parsed, number)
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return false
	}
	return reflectutil.NumbersEqual(parsed, number)
}
