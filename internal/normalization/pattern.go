package normalization

import (
	"strings"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

const wildcard = "*"

// PathPattern is a sequence of field names where "*" matches any array index.
// Field names are matched whole, so keys containing dots such as
// app.kubernetes.io/managed-by are a single segment.
type PathPattern []string

// ParsePattern splits a dotted pattern. Use Pattern for keys containing dots.
func ParsePattern(dotted string) PathPattern {
	return PathPattern(strings.Split(dotted, "."))
}

func Pattern(segments ...string) PathPattern {
	return PathPattern(segments)
}

// Then appends segments to a copy of the pattern.
func (p PathPattern) Then(segments ...string) PathPattern {
	out := make(PathPattern, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

func (p PathPattern) Matches(path domain.DiffPath) bool {
	if len(p) != len(path) {
		return false
	}
	for i, seg := range path {
		if p[i] == wildcard {
			if !seg.IsIndex {
				return false
			}
			continue
		}
		if seg.IsIndex || seg.Field != p[i] {
			return false
		}
	}
	return true
}

func (p PathPattern) String() string {
	return strings.Join(p, ".")
}
