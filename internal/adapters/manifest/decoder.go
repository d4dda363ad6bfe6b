package manifest

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utiljson "k8s.io/apimachinery/pkg/util/json"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/errors"
)

const decodeBufferSize = 4096

// Decode reads a multi-document YAML or JSON stream. Empty documents are
// skipped, List documents are flattened into their items and documents that
// are not Kubernetes objects are dropped. source names the stream in errors.
func Decode(data []byte, source string) ([]domain.Resource, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), decodeBufferSize)

	var resources []domain.Resource
	for doc := 1; ; doc++ {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if stderrors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrap(err, errors.CodeManifestParseError,
				fmt.Sprintf("failed to parse %s", source)).
				WithDetails("document=%d", doc)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}

		var obj map[string]any
		if err := utiljson.Unmarshal(raw, &obj); err != nil {
			// Scalars and sequences at the top level are not resources.
			continue
		}
		resources = appendDocument(resources, obj)
	}
	if resources == nil {
		resources = []domain.Resource{}
	}
	return resources, nil
}

func appendDocument(out []domain.Resource, obj map[string]any) []domain.Resource {
	kind, _, _ := unstructured.NestedString(obj, domain.KeyKind)
	if strings.HasSuffix(kind, "List") {
		if items, found, err := unstructured.NestedFieldNoCopy(obj, domain.KeyItems); found && err == nil {
			if list, ok := items.([]any); ok {
				for _, item := range list {
					if m, ok := item.(map[string]any); ok {
						out = appendDocument(out, m)
					}
				}
				return out
			}
		}
	}
	if isResource(obj) {
		out = append(out, domain.Resource(obj))
	}
	return out
}

func isResource(obj map[string]any) bool {
	for _, field := range []string{domain.KeyAPIVersion, domain.KeyKind} {
		if v, found, err := unstructured.NestedString(obj, field); !found || err != nil || strings.TrimSpace(v) == "" {
			return false
		}
	}
	for _, key := range []string{domain.KeyName, "generateName"} {
		if v, found, err := unstructured.NestedString(obj, domain.KeyMetadata, key); found && err == nil && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
