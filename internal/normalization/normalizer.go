// Package normalization strips system-managed noise from resources and
// decides which differences are explained by platform defaults.
package normalization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

var defaultIgnoredMetadataFields = []string{
	domain.KeyUID,
	domain.KeyResourceVersion,
	domain.KeyGeneration,
	domain.KeyManagedFields,
	domain.KeySelfLink,
}

var defaultIgnoredAnnotations = []string{
	"deployment.kubernetes.io/revision",
	"kubectl.kubernetes.io/last-applied-configuration",
	"meta.helm.sh/release-name",
	"meta.helm.sh/release-namespace",
}

const defaultIgnoredAnnotationPrefix = "openshift.io"

// Normalizer removes server-managed fields and canonicalizes arrays of named
// objects. Its output is always a fresh copy.
type Normalizer struct {
	metadataFields     []string
	annotations        map[string]struct{}
	annotationPrefixes []string
}

type NormalizerOption func(*Normalizer)

// WithIgnoredAnnotations strips additional annotation keys.
func WithIgnoredAnnotations(keys ...string) NormalizerOption {
	return func(n *Normalizer) {
		for _, k := range keys {
			n.annotations[k] = struct{}{}
		}
	}
}

func WithIgnoredAnnotationPrefixes(prefixes ...string) NormalizerOption {
	return func(n *Normalizer) {
		n.annotationPrefixes = append(n.annotationPrefixes, prefixes...)
	}
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		metadataFields:     defaultIgnoredMetadataFields,
		annotations:        make(map[string]struct{}, len(defaultIgnoredAnnotations)),
		annotationPrefixes: []string{defaultIgnoredAnnotationPrefix},
	}
	for _, k := range defaultIgnoredAnnotations {
		n.annotations[k] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) Normalize(resource domain.Resource) domain.Resource {
	clone := resource.DeepCopy()
	if clone == nil {
		return nil
	}

	delete(clone, domain.KeyStatus)

	if metadata, ok := clone.Metadata(); ok {
		for _, field := range n.metadataFields {
			delete(metadata, field)
		}
		if annotations, ok := metadata[domain.KeyAnnotations].(map[string]any); ok {
			for key := range annotations {
				if n.ignoredAnnotation(key) {
					delete(annotations, key)
				}
			}
		}
	}

	sortNamedArrays(map[string]any(clone))
	return clone
}

func (n *Normalizer) ignoredAnnotation(key string) bool {
	if _, ok := n.annotations[key]; ok {
		return true
	}
	for _, prefix := range n.annotationPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// sortNamedArrays stable-sorts, in place, every array whose elements are all
// objects with a name key.
func sortNamedArrays(v any) {
	switch typed := v.(type) {
	case map[string]any:
		for _, item := range typed {
			sortNamedArrays(item)
		}
	case []any:
		if allNamed(typed) {
			sort.SliceStable(typed, func(i, j int) bool {
				return nameOf(typed[i]) < nameOf(typed[j])
			})
		}
		for _, item := range typed {
			sortNamedArrays(item)
		}
	}
}

func allNamed(items []any) bool {
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := m[domain.KeyName]; !ok {
			return false
		}
	}
	return true
}

func nameOf(item any) string {
	return fmt.Sprint(item.(map[string]any)[domain.KeyName])
}
