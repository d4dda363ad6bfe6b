package normalization

func buildConfigRules() []Rule {
	return []Rule{
		{
			ID:          "buildConfig.failedBuildsHistoryLimit",
			Description: "BuildConfig keeps 5 failed builds by default.",
			Path:        ParsePattern("spec.failedBuildsHistoryLimit"),
			Kinds:       buildConfigKinds,
			Matches:     MatchExact(5),
		},
		{
			ID:          "buildConfig.successfulBuildsHistoryLimit",
			Description: "BuildConfig keeps 5 successful builds by default.",
			Path:        ParsePattern("spec.successfulBuildsHistoryLimit"),
			Kinds:       buildConfigKinds,
			Matches:     MatchExact(5),
		},
		{
			ID:          "buildConfig.runPolicy",
			Description: "BuildConfig runPolicy defaults to Serial.",
			Path:        ParsePattern("spec.runPolicy"),
			Kinds:       buildConfigKinds,
			Matches:     MatchExact("Serial"),
		},
		{
			ID:          "buildConfig.postCommit",
			Description: "BuildConfig postCommit defaults to an empty hook.",
			Path:        ParsePattern("spec.postCommit"),
			Kinds:       buildConfigKinds,
			Matches:     MatchEmptyObject,
		},
	}
}
