// Package diff computes path-addressed differences between two normalized
// resource trees.
package diff

import (
	"reflect"
	"sort"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/pkg/compare"
)

// Candidate is a raw difference before gating. Either side may be
// compare.Undefined.
type Candidate struct {
	Path    domain.DiffPath
	Desired any
	Live    any
}

// Walk collects candidates between desired and live. Keys present on only one
// side yield a single candidate with the other side Undefined, array surplus
// yields one candidate per extra index, and differing leaves yield an edit.
func Walk(desired, live any) []Candidate {
	var out []Candidate
	walk(nil, desired, live, &out)
	return out
}

func walk(path domain.DiffPath, desired, live any, out *[]Candidate) {
	switch d := desired.(type) {
	case map[string]any:
		if l, ok := live.(map[string]any); ok {
			walkMaps(path, d, l, out)
			return
		}
	case []any:
		if l, ok := live.([]any); ok {
			walkSlices(path, d, l, out)
			return
		}
	}
	if !strictEqual(desired, live) {
		*out = append(*out, Candidate{Path: path, Desired: desired, Live: live})
	}
}

func walkMaps(path domain.DiffPath, desired, live map[string]any, out *[]Candidate) {
	for _, key := range unionKeys(desired, live) {
		child := path.Child(domain.FieldSegment(key))
		d, inDesired := desired[key]
		l, inLive := live[key]
		switch {
		case inDesired && inLive:
			walk(child, d, l, out)
		case inDesired:
			*out = append(*out, Candidate{Path: child, Desired: d, Live: compare.Undefined})
		default:
			*out = append(*out, Candidate{Path: child, Desired: compare.Undefined, Live: l})
		}
	}
}

func walkSlices(path domain.DiffPath, desired, live []any, out *[]Candidate) {
	common := min(len(desired), len(live))
	for i := 0; i < common; i++ {
		walk(path.Child(domain.IndexSegment(i)), desired[i], live[i], out)
	}
	for i := common; i < len(desired); i++ {
		*out = append(*out, Candidate{Path: path.Child(domain.IndexSegment(i)), Desired: desired[i], Live: compare.Undefined})
	}
	for i := common; i < len(live); i++ {
		*out = append(*out, Candidate{Path: path.Child(domain.IndexSegment(i)), Desired: compare.Undefined, Live: live[i]})
	}
}

func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// strictEqual is type-sensitive: int64(1) and float64(1) differ here and are
// reconciled later by the gate's semantic equality.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
