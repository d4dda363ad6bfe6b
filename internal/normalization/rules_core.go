package normalization

func coreRules() []Rule {
	return []Rule{
		{
			ID:          "spec.nodeSelector",
			Description: "nodeSelector defaults to null.",
			Path:        ParsePattern("spec.nodeSelector"),
			Matches:     MatchNull,
		},
		{
			ID:          "deployment.strategy",
			Description: "Deployments roll out with RollingUpdate 25%/25% by default.",
			Path:        ParsePattern("spec.strategy"),
			Kinds:       deploymentKinds,
			Matches:     MatchDefaultRollingUpdateStrategy,
		},
		{
			ID:          "deployment.progressDeadlineSeconds",
			Description: "Deployment progressDeadlineSeconds defaults to 600.",
			Path:        ParsePattern("spec.progressDeadlineSeconds"),
			Kinds:       deploymentKinds,
			Matches:     MatchExact(600),
		},
		{
			ID:          "deployment.revisionHistoryLimit",
			Description: "Deployment keeps 10 old ReplicaSets by default.",
			Path:        ParsePattern("spec.revisionHistoryLimit"),
			Kinds:       deploymentKinds,
			Matches:     MatchExact(10),
		},
		{
			ID:          "statefulSet.revisionHistoryLimit",
			Description: "StatefulSet keeps 10 revisions by default.",
			Path:        ParsePattern("spec.revisionHistoryLimit"),
			Kinds:       statefulSetKinds,
			Matches:     MatchExact(10),
		},
		{
			ID:          "statefulSet.persistentVolumeClaimRetentionPolicy",
			Description: "StatefulSet PVCs are retained on delete and scale down by default.",
			Path:        ParsePattern("spec.persistentVolumeClaimRetentionPolicy"),
			Kinds:       statefulSetKinds,
			Matches:     MatchExactObject(map[string]any{"whenDeleted": "Retain", "whenScaled": "Retain"}),
		},
		{
			ID:          "service.clusterIP",
			Description: "The cluster allocates a Service clusterIP.",
			Path:        ParsePattern("spec.clusterIP"),
			Kinds:       serviceKinds,
			Matches:     MatchNonEmptyString,
		},
		{
			ID:          "service.clusterIPs",
			Description: "The cluster allocates Service clusterIPs.",
			Path:        ParsePattern("spec.clusterIPs"),
			Kinds:       serviceKinds,
			Matches:     MatchArrayOfStrings,
		},
		{
			ID:          "service.internalTrafficPolicy",
			Description: "Service internalTrafficPolicy is defaulted by the cluster.",
			Path:        ParsePattern("spec.internalTrafficPolicy"),
			Kinds:       serviceKinds,
			Matches:     MatchOneOf("Cluster", "Local"),
		},
		{
			ID:          "service.ipFamilyPolicy",
			Description: "Service ipFamilyPolicy is defaulted by the cluster.",
			Path:        ParsePattern("spec.ipFamilyPolicy"),
			Kinds:       serviceKinds,
			Matches:     MatchOneOf("SingleStack", "PreferDualStack", "RequireDualStack"),
		},
		{
			ID:          "service.sessionAffinity",
			Description: "Service sessionAffinity defaults to None.",
			Path:        ParsePattern("spec.sessionAffinity"),
			Kinds:       serviceKinds,
			Matches:     MatchExact("None"),
		},
		{
			ID:          "service.type",
			Description: "Service type defaults to ClusterIP.",
			Path:        ParsePattern("spec.type"),
			Kinds:       serviceKinds,
			Matches:     MatchExact("ClusterIP"),
		},
		{
			ID:          "service.ipFamilies",
			Description: "The cluster assigns Service ipFamilies.",
			Path:        ParsePattern("spec.ipFamilies"),
			Kinds:       serviceKinds,
			Matches:     MatchArrayOfStrings,
		},
		{
			ID:          "service.ports.protocol",
			Description: "Service ports default to TCP.",
			Path:        ParsePattern("spec.ports.*.protocol"),
			Kinds:       serviceKinds,
			Matches:     MatchExact("TCP"),
		},
		{
			ID:          "service.ports.nodePort",
			Description: "The cluster allocates nodePorts for NodePort and LoadBalancer Services.",
			Path:        ParsePattern("spec.ports.*.nodePort"),
			Kinds:       serviceKinds,
			Matches:     MatchNumber,
		},
		{
			ID:          "route.host",
			Description: "The router generates a Route host when none is set.",
			Path:        ParsePattern("spec.host"),
			Kinds:       routeKinds,
			Matches:     MatchNonEmptyString,
		},
		{
			ID:          "route.to.weight",
			Description: "Route backend weight defaults to 100.",
			Path:        ParsePattern("spec.to.weight"),
			Kinds:       routeKinds,
			Matches:     MatchExact(100),
		},
		{
			ID:          "route.wildcardPolicy",
			Description: "Route wildcardPolicy defaults to None.",
			Path:        ParsePattern("spec.wildcardPolicy"),
			Kinds:       routeKinds,
			Matches:     MatchExact("None"),
		},
	}
}
