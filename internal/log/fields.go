package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldVariant      = "variant"
	FieldSource       = "source"
	FieldRowCount     = "row_count"
	FieldSummaryCount = "summary_count"
	FieldPaymentTotal = "payment_total"
	FieldRevision     = "revision"
	FieldHistoryID    = "history_id"
	FieldRowID        = "row_id"
	FieldSheetsRef    = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentReport  = "report"
	ComponentDataset = "dataset"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpGenerate = "generate"
	OpUpload   = "upload"
	OpOverride = "override"
	OpRecord   = "record"
	OpAppend   = "append"
	OpRead     = "read"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
