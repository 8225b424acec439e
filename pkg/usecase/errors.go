package usecase

import "errors"

// Sentinel errors for the use case layer. Cross-tenant references
// deliberately surface as not-found so callers cannot probe for
// entities in other tenants.
var (
	// Not found errors
	ErrActionNotFound = errors.New("action not found")
	ErrClientNotFound = errors.New("client not found")
	ErrUserNotFound   = errors.New("user not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrNotApproved  = errors.New("action is not approved")

	// Identity errors
	ErrUnauthorized = errors.New("caller identity missing or invalid")
)

// Context keys for error values
const (
	ActionIDKey = "action_id"
	ClientIDKey = "client_id"
	UserIDKey   = "user_id"
	TenantIDKey = "tenant_id"
)
