package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldUserID    = "user_id"
	FieldEntryID   = "entry_id"
	FieldKind      = "kind"
	FieldPath      = "path"
	FieldEnv       = "env"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWatch   = "watch"
)

// Operations defines standard operation names
const (
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
