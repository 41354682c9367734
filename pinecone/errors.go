package pinecone

import (
	"errors"
	"fmt"
)

// ErrIndexDeleted is returned by every IndexClient method invoked after a
// successful DeleteIndex. The remote index no longer exists, so the handle
// refuses further use.
var ErrIndexDeleted = errors.New("pinecone index has been deleted; this IndexClient can no longer be used")

// TransportError indicates the HTTP exchange itself could not complete
// (DNS, connection, TLS). The request may or may not have reached the
// service; it is never retried internally.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError indicates the service responded with a status code other than
// the one the operation documents. Type carries the response's media type
// and Message the response body (or status line when the body is empty),
// so callers can branch on StatusCode and decide their own policy, e.g.
// treating 400 on Configure as a validation outcome rather than a failure.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected response (status %d, type %q): %s", e.StatusCode, e.Type, e.Message)
}

// DecodeError indicates the response carried the expected status code but
// its body did not parse into the documented shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
