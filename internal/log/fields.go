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
	FieldUsername   = "username"
	FieldTable      = "table"
	FieldRecordID   = "record_id"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldRowCount   = "row_count"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentStorage     = "storage"
	ComponentLedger      = "ledger"
	ComponentCredentials = "credentials"
	ComponentImporter    = "importer"
	ComponentTrace       = "trace"
)

// Operations defines standard operation names
const (
	OpCreate       = "create"
	OpList         = "list"
	OpDelete       = "delete"
	OpImport       = "import"
	OpRegister     = "register"
	OpAuthenticate = "authenticate"
	OpMonthlyView  = "monthly_view"
	OpStartup      = "startup"
	OpShutdown     = "shutdown"
)
