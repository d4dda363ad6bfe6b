// Package convert copies decoded JSON/YAML trees made of map[string]any,
// []any and scalar leaves.
package convert

// DeepCopy clones maps and slices recursively. Scalars are shared, so any Go
// numeric type is accepted, including the plain int values of hand-built
// trees.
func DeepCopy(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = DeepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}
