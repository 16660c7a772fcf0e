package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldAccountPath   = "account_path"
	FieldTransactionID = "transaction_id"
	FieldGroupID       = "group_id"
	FieldGroupName     = "group_name"
	FieldAmount        = "amount"
	FieldDate          = "date"
	FieldInterval      = "interval"
	FieldOperation     = "operation"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentAccount    = "account"
	ComponentStorage    = "storage"
	ComponentRecurrence = "recurrence"
	ComponentTransfer   = "transfer"
	ComponentCSV        = "csv"
	ComponentSweep      = "sweep"
)

// Operations defines standard operation names
const (
	OpOpen        = "open"
	OpCreate      = "create"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpList        = "list"
	OpBackup      = "backup"
	OpRestore     = "restore"
	OpExport      = "export"
	OpImport      = "import"
	OpMaterialize = "materialize"
	OpSweep       = "sweep"
)
