package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldUpdateID    = "update_id"
	FieldTraceID     = "trace_id"
	FieldContributor = "contributor_id"
	FieldDisplayName = "display_name"
	FieldCommand     = "command"
	FieldFlow        = "flow"
	FieldState       = "state"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldScope       = "scope"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldSegments    = "segments"
	FieldExpenseID   = "expense_id"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentBot       = "bot"
	ComponentDialog    = "dialog"
	ComponentSession   = "session"
	ComponentRegistry  = "registry"
	ComponentStorage   = "storage"
	ComponentReport    = "report"
	ComponentEvents    = "events"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpSeed     = "seed"
	OpPublish  = "publish"
	OpChunk    = "chunk"
	OpEvict    = "evict"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
