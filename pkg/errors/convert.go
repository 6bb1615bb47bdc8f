package errors

import "net/http"

// CodePair maps an error code to its transport status codes.
type CodePair struct {
	HTTPStatus int
	GRPCCode   int
}

var codeMapping = map[string]CodePair{
	ErrInternal:           {http.StatusInternalServerError, 13}, // INTERNAL
	ErrNotFound:           {http.StatusNotFound, 5},             // NOT_FOUND
	ErrInvalidArgument:    {http.StatusBadRequest, 3},           // INVALID_ARGUMENT
	ErrUnauthenticated:    {http.StatusUnauthorized, 16},        // UNAUTHENTICATED
	ErrUnauthorized:       {http.StatusForbidden, 7},            // PERMISSION_DENIED
	ErrConflict:           {http.StatusConflict, 6},             // ALREADY_EXISTS
	ErrTimeout:            {http.StatusGatewayTimeout, 4},       // DEADLINE_EXCEEDED
	ErrNotImplemented:     {http.StatusNotImplemented, 12},      // UNIMPLEMENTED
	ErrExpired:            {http.StatusGone, 9},                 // FAILED_PRECONDITION
	ErrAmountMismatch:     {http.StatusUnprocessableEntity, 3},  // INVALID_ARGUMENT
	ErrExternalDependency: {http.StatusBadGateway, 14},          // UNAVAILABLE
}

// GetCodeMapping returns the HTTP status and gRPC code for an error code.
// Unknown codes map to Internal Server Error.
func GetCodeMapping(code string) (int, int) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return http.StatusInternalServerError, 13
}

// CodeOf extracts the code of the first coded error in the chain.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var coded Error
	if As(err, &coded) {
		return coded.Code()
	}
	return ErrInternal
}
