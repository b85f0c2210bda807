package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldKey        = "key"
	FieldRecordID   = "record_id"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldLimit      = "limit_cents"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentBudget  = "budget"
	ComponentAdvisor = "advisor"
	ComponentNotify  = "notify"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpEvaluate = "evaluate"
)
