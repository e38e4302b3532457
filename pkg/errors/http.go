package errors

import "net/http"

// HTTPStatus maps a stable error code to the HTTP status the API reports.
// Precondition failures map to 400 rather than 409 so clients can tell
// "already processed" apart from an authorization failure (403).
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument, CodeFailedPrecondition:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
