// Package middleware provides HTTP middleware components for the edge
// gateway.
package middleware

// unknownRule is the fallback label value used when the matched rule
// name is not available in the request context.
const unknownRule = "unknown"

// HTTP header constants.
const (
	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// HeaderRetryAfter is the Retry-After header name.
	HeaderRetryAfter = "Retry-After"

	// HeaderXRequestID is the X-Request-ID header name.
	HeaderXRequestID = "X-Request-ID"
)

// Content type values.
const (
	// ContentTypeJSON is the JSON content type.
	ContentTypeJSON = "application/json"
)

// Canned JSON error bodies.
const (
	// ErrInternalServer is the response body for recovered panics.
	ErrInternalServer = `{"error":"internal server error"}`

	// ErrTooManyRequests is the response body for rate limited requests.
	ErrTooManyRequests = `{"error":"too many requests"}`

	// ErrServiceUnavailable is the response body for an open circuit.
	ErrServiceUnavailable = `{"error":"service unavailable"}`
)
