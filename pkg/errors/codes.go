package errors

// Error codes shared by every layer. HTTP and gRPC status mapping lives in convert.go.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// ErrExpired marks a resource whose validity window has passed.
	ErrExpired = "EXPIRED"
	// ErrAmountMismatch marks a monetary claim that differs from the expected amount.
	ErrAmountMismatch = "AMOUNT_MISMATCH"
	// ErrExternalDependency marks a failing or unreachable collaborator.
	ErrExternalDependency = "EXTERNAL_DEPENDENCY"
)
