package domain

import (
	"strconv"
	"strings"
)

// PathSegment is either a named object field or an array index.
type PathSegment struct {
	Field   string
	Index   int
	IsIndex bool
}

func FieldSegment(name string) PathSegment {
	return PathSegment{Field: name}
}

func IndexSegment(index int) PathSegment {
	return PathSegment{Index: index, IsIndex: true}
}

func (s PathSegment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Field
}

// DiffPath addresses a location inside a resource tree.
type DiffPath []PathSegment

// Child returns a new path with seg appended. The receiver is never aliased.
func (p DiffPath) Child(seg PathSegment) DiffPath {
	out := make(DiffPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

func (p DiffPath) Parent() DiffPath {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// String renders the path dot-joined, e.g. spec.template.spec.containers.0.image.
func (p DiffPath) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Display renders indexes in brackets, e.g. spec.containers[0].image.
func (p DiffPath) Display() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg.Field)
	}
	return b.String()
}

// Compare orders paths segment by segment: indexes numerically, fields
// lexicographically, an index before a field, a prefix before its extensions.
func (p DiffPath) Compare(other DiffPath) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		a, b := p[i], other[i]
		switch {
		case a.IsIndex && b.IsIndex:
			if a.Index != b.Index {
				if a.Index < b.Index {
					return -1
				}
				return 1
			}
		case a.IsIndex:
			return -1
		case b.IsIndex:
			return 1
		default:
			if c := strings.Compare(a.Field, b.Field); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	}
	return 0
}

func (p DiffPath) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(p.String())
}
