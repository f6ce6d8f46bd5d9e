package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldMonth         = "month"
	FieldTransactionID = "transaction_id"
	FieldScheduleID    = "schedule_id"
	FieldGoalID        = "goal_id"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldFrequency     = "frequency"
	FieldCollection    = "collection"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
)
