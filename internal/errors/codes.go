package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodeConfigNotFound   Code = "CONFIG_NOT_FOUND"
	CodeNotImplemented   Code = "NOT_IMPLEMENTED"
	CodeTimeout          Code = "TIMEOUT_ERROR"

	// Comparison
	CodeDuplicateIdentity Code = "DUPLICATE_RESOURCE_IDENTITY"
	CodeComparisonError   Code = "COMPARISON_ERROR"

	// Collaborators
	CodeRenderError        Code = "RENDER_ERROR"
	CodeLiveQueryError     Code = "LIVE_QUERY_ERROR"
	CodePlatformAuthError  Code = "PLATFORM_AUTH_ERROR"
	CodeManifestParseError Code = "MANIFEST_PARSE_ERROR"
	CodeCommandError       Code = "COMMAND_ERROR"

	// Reporting
	CodeReportWriteError  Code = "REPORT_WRITE_ERROR"
	CodeReportUploadError Code = "REPORT_UPLOAD_ERROR"
)

func (c Code) String() string {
	return string(c)
}
