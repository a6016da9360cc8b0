package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID     = "user_id"
	ContextKeyOrgContext = "org_context"
	ContextKeyRequestID  = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// DefaultTeamName is the name given to the team created alongside every
// new organization.
const DefaultTeamName = "General"
