package app

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/olusolaa/helm-guard/internal/config"
)

// Flag keys that do not map onto a single configuration key.
const (
	KeyIncludeKinds = "include_kinds"
	KeyContext      = "context"
)

// applyCLIOverrides folds flags spanning several configuration keys into cfg.
func applyCLIOverrides(cfg *config.Config, v *viper.Viper) {
	if kinds := parseKindsOverride(v.GetString(KeyIncludeKinds)); len(kinds) > 0 {
		cfg.Target.IncludeKinds = mergeKinds(cfg.Target.IncludeKinds, kinds)
	}
	if kubeCtx := strings.TrimSpace(v.GetString(KeyContext)); kubeCtx != "" {
		cfg.Live.OC.Context = kubeCtx
		cfg.Live.Kube.Context = kubeCtx
	}
}

// parseKindsOverride splits "Service,Route" (commas or whitespace) into kinds.
func parseKindsOverride(override string) []string {
	if override == "" {
		return nil
	}
	fields := strings.FieldsFunc(override, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	kinds := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			kinds = append(kinds, f)
		}
	}
	if len(kinds) == 0 {
		return nil
	}
	return kinds
}

func mergeKinds(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	merged := make([]string, 0, len(existing)+len(extra))
	for _, k := range append(append([]string{}, existing...), extra...) {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, k)
	}
	return merged
}
