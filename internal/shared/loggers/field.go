package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldStore      = "store"
	FieldPath       = "path"
	FieldStrategy   = "strategy"
	FieldSelector   = "selector"
	FieldRecords    = "records"
	FieldAttempt    = "attempt"
	FieldReportedAt = "reported_at"
	FieldReportID   = "report_id"
)
