package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user's ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the authenticated *models.User.
	ContextKeyUser = "user"
	// ContextKeyTokenID is the gin context key holding the bearer token's JWT ID.
	ContextKeyTokenID = "token_id"
	// ContextKeyClaims is the gin context key holding the parsed *auth.Claims.
	ContextKeyClaims = "auth_claims"
	// ContextKeyRequestID is the gin context key holding the request correlation ID.
	ContextKeyRequestID = "request_id"
	// ContextKeyTask is the gin context key holding a task loaded by RequireTaskAccess.
	ContextKeyTask = "task"

	// AuthorizationHeader and BearerPrefix describe how clients present tokens.
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MinPasswordLength   = 8
	MaxPasswordLength   = 72 // bcrypt input limit in bytes
	MaxAIGeneratedTasks = 10
)
