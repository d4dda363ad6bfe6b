package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/pkg/compare"
)

func deploymentWithImage(image string) domain.Resource {
	return domain.Resource{
		"kind":     "Deployment",
		"metadata": map[string]any{"name": "web"},
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []any{
						map[string]any{"name": "a", "image": image, "imagePullPolicy": "Always"},
					},
				},
			},
		},
	}
}

func TestGate_Evaluate(t *testing.T) {
	gate := NewGate()

	testCases := []struct {
		name        string
		ctx         DiffContext
		wantInclude bool
		wantRule    string
	}{
		{
			name: "empty path excluded",
			ctx:  DiffContext{Kind: domain.KindDeployment, Desired: 1, Live: 2},
		},
		{
			name: "semantically equal excluded",
			ctx:  DiffContext{Kind: domain.KindService, Path: path("spec", "ports", 0, "port"), Desired: "80", Live: 80},
		},
		{
			name:        "explicit desired value always included",
			ctx:         DiffContext{Kind: domain.KindDeployment, Path: path("spec", "template", "spec", "dnsPolicy"), Desired: "ClusterFirst", Live: "Default"},
			wantInclude: true,
		},
		{
			name:     "omitted dnsPolicy suppressed",
			ctx:      DiffContext{Kind: domain.KindDeployment, Path: path("spec", "template", "spec", "dnsPolicy"), Desired: compare.Undefined, Live: "ClusterFirst"},
			wantRule: "podTemplate.dnsPolicy",
		},
		{
			name:        "omitted dnsPolicy with non default included",
			ctx:         DiffContext{Kind: domain.KindDeployment, Path: path("spec", "template", "spec", "dnsPolicy"), Desired: compare.Undefined, Live: "Default"},
			wantInclude: true,
		},
		{
			name:     "null desired counts as omitted",
			ctx:      DiffContext{Kind: domain.KindService, Path: path("spec", "type"), Desired: nil, Live: "ClusterIP"},
			wantRule: "service.type",
		},
		{
			name:        "kind restriction honoured",
			ctx:         DiffContext{Kind: domain.KindDeployment, Path: path("spec", "type"), Desired: compare.Undefined, Live: "ClusterIP"},
			wantInclude: true,
		},
		{
			name:     "wildcard rule on container port protocol",
			ctx:      DiffContext{Kind: domain.KindStatefulSet, Path: path("spec", "template", "spec", "containers", 1, "ports", 0, "protocol"), Desired: compare.Undefined, Live: "TCP"},
			wantRule: "podTemplate.containers.ports.protocol",
		},
		{
			name:     "restartPolicy for controllers",
			ctx:      DiffContext{Kind: domain.KindDaemonSet, Path: path("spec", "template", "spec", "restartPolicy"), Desired: compare.Undefined, Live: "Always"},
			wantRule: "podTemplate.restartPolicy",
		},
		{
			name:        "restartPolicy not defaulted for jobs",
			ctx:         DiffContext{Kind: domain.KindJob, Path: path("spec", "template", "spec", "restartPolicy"), Desired: compare.Undefined, Live: "Always"},
			wantInclude: true,
		},
		{
			name:     "empty object desired counts as omitted",
			ctx:      DiffContext{Kind: domain.KindDeployment, Path: path("spec", "template", "spec", "securityContext"), Desired: map[string]any{}, Live: nil},
			wantRule: "podTemplate.securityContext",
		},
		{
			name:     "managed-by label with dotted key",
			ctx:      DiffContext{Kind: "ConfigMap", Path: path("metadata", "labels", "app.kubernetes.io/managed-by"), Desired: compare.Undefined, Live: "Helm"},
			wantRule: "metadata.labels.managedBy",
		},
		{
			name:     "cron job history",
			ctx:      DiffContext{Kind: domain.KindCronJob, Path: path("spec", "successfulJobsHistoryLimit"), Desired: compare.Undefined, Live: float64(3)},
			wantRule: "cronJob.successfulJobsHistoryLimit",
		},
		{
			name:     "deployment strategy",
			ctx:      DiffContext{Kind: domain.KindDeployment, Path: path("spec", "strategy"), Desired: compare.Undefined, Live: map[string]any{"type": "RollingUpdate", "rollingUpdate": map[string]any{"maxSurge": "25%", "maxUnavailable": "25%"}}},
			wantRule: "deployment.strategy",
		},
		{
			name:     "statefulset revision history",
			ctx:      DiffContext{Kind: domain.KindStatefulSet, Path: path("spec", "revisionHistoryLimit"), Desired: compare.Undefined, Live: int64(10)},
			wantRule: "statefulSet.revisionHistoryLimit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := gate.Evaluate(tc.ctx)
			assert.Equal(t, tc.wantInclude, decision.Include)
			assert.Equal(t, tc.wantRule, decision.RuleID)
			assert.Equal(t, tc.wantInclude, gate.ShouldIncludeDiff(tc.ctx))
		})
	}
}

func TestGate_ImagePullPolicy(t *testing.T) {
	gate := NewGate()
	pullPolicyPath := path("spec", "template", "spec", "containers", 0, "imagePullPolicy")

	testCases := []struct {
		image       string
		wantInclude bool
	}{
		{"repo/x", false},
		{"repo/x:latest", false},
		{"registry:5000/repo/x", false},
		{"repo/x:1.0", true},
		{"registry:5000/repo/x:1.0", true},
		{"repo/x@sha256:abc", true},
		{"repo/x:latest@sha256:abc", true},
	}
	for _, tc := range testCases {
		t.Run(tc.image, func(t *testing.T) {
			decision := gate.Evaluate(DiffContext{
				Kind:         domain.KindDeployment,
				LiveResource: deploymentWithImage(tc.image),
				Path:         pullPolicyPath,
				Desired:      compare.Undefined,
				Live:         "Always",
			})
			assert.Equal(t, tc.wantInclude, decision.Include)
			if !tc.wantInclude {
				assert.Equal(t, PredicateImagePullPolicy, decision.RuleID)
			}
		})
	}

	t.Run("case insensitive policy", func(t *testing.T) {
		assert.False(t, gate.ShouldIncludeDiff(DiffContext{
			Kind: domain.KindDeployment, LiveResource: deploymentWithImage("repo/x"),
			Path: pullPolicyPath, Desired: compare.Undefined, Live: "always",
		}))
	})

	t.Run("IfNotPresent is drift", func(t *testing.T) {
		assert.True(t, gate.ShouldIncludeDiff(DiffContext{
			Kind: domain.KindDeployment, LiveResource: deploymentWithImage("repo/x"),
			Path: pullPolicyPath, Desired: compare.Undefined, Live: "IfNotPresent",
		}))
	})

	t.Run("pod form only for pods", func(t *testing.T) {
		pod := domain.Resource{
			"kind": "Pod",
			"spec": map[string]any{"containers": []any{map[string]any{"name": "a", "image": "x"}}},
		}
		ctx := DiffContext{
			Kind: domain.KindPod, LiveResource: pod,
			Path: path("spec", "containers", 0, "imagePullPolicy"), Desired: compare.Undefined, Live: "Always",
		}
		assert.False(t, gate.ShouldIncludeDiff(ctx))

		ctx.Kind = domain.KindDeployment
		assert.True(t, gate.ShouldIncludeDiff(ctx))
	})
}

func TestGate_ServiceTargetPort(t *testing.T) {
	gate := NewGate()
	svc := domain.Resource{
		"kind": "Service",
		"spec": map[string]any{
			"ports": []any{
				map[string]any{"name": "http", "port": int64(80), "targetPort": int64(80)},
				map[string]any{"name": "metrics", "port": int64(9090), "targetPort": int64(8080)},
			},
		},
	}

	assert.False(t, gate.ShouldIncludeDiff(DiffContext{
		Kind: domain.KindService, LiveResource: svc,
		Path: path("spec", "ports", 0, "targetPort"), Desired: compare.Undefined, Live: int64(80),
	}))
	assert.True(t, gate.ShouldIncludeDiff(DiffContext{
		Kind: domain.KindService, LiveResource: svc,
		Path: path("spec", "ports", 1, "targetPort"), Desired: compare.Undefined, Live: int64(8080),
	}))
	assert.True(t, gate.ShouldIncludeDiff(DiffContext{
		Kind: domain.KindDeployment, LiveResource: svc,
		Path: path("spec", "ports", 0, "targetPort"), Desired: compare.Undefined, Live: int64(80),
	}))
}

func TestGate_CustomRules(t *testing.T) {
	gate := NewGate(
		WithPredicates(nil),
		WithRules([]Rule{{ID: "custom", Path: ParsePattern("spec.paused"), Matches: MatchExact(false)}}),
	)
	decision := gate.Evaluate(DiffContext{Kind: "Widget", Path: path("spec", "paused"), Desired: compare.Undefined, Live: false})
	assert.Equal(t, "custom", decision.RuleID)
	assert.Equal(t, []domain.NormalizationRule{{ID: "custom"}}, gate.Catalog())
}
