package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Gin context keys
	ContextKeyUserID        = "user_id"
	ContextKeySessionID     = "session_id"
	ContextKeyRequestID     = "request_id"
	ContextKeyAuditRecorded = "audit_recorded"

	TableUsers           = "users"
	TableRoles           = "roles"
	TablePermissions     = "permissions"
	TableRolePermissions = "role_permissions"
	TableUserRoles       = "user_roles"
	TableUserPermissions = "user_permissions"
	TableAuditLogs       = "audit_logs"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgInsufficientPerms   = "Insufficient permissions"
	ErrMsgInsufficientLevel   = "Insufficient role level"
	ErrMsgAuthRequired        = "Authentication required"
)

// Resources and actions referenced by the guard layer itself.
const (
	ResourceUsers  = "users"
	ResourceSystem = "system"

	ActionView        = "view"
	ActionUpdate      = "update"
	ActionPermissions = "permissions"
	ActionSettings    = "settings"
	ActionAudit       = "audit"
)
