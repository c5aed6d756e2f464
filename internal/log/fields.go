package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldGoalID      = "goal_id"
	FieldDepositID   = "deposit_id"
	FieldAmount      = "amount"
	FieldDailyAmount = "daily_amount"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentNotify    = "notify"
	ComponentBootstrap = "bootstrap"
	ComponentCache     = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDeposit  = "deposit"
	OpDelete   = "delete"
	OpList     = "list"
	OpResolve  = "resolve"
	OpSchedule = "schedule"
	OpCancel   = "cancel"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
