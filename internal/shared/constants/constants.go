package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers           = "users"
	TablePricingPlans    = "pricing_plans"
	TableCvs             = "cvs"
	TableCvTemplates     = "cv_templates"
	TableCoverLetters    = "cover_letters"
	TableJobApplications = "job_applications"
	TableChatSessions    = "chat_sessions"
	TableChatMessages    = "chat_messages"

	// Default values
	DefaultCurrency = "XAF"

	// Chat message roles
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
)
