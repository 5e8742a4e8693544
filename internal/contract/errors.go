package contract

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures for user-facing messages. Callers see a
// short "KIND: message" string, never a raw payload.
type ErrorKind string

// Failure categories, from the remote API down to the deep-pass boundary.
const (
	RateLimited            ErrorKind = "RATE_LIMIT"
	AuthRequiredOrNotFound ErrorKind = "AUTH_REQUIRED"
	RemoteAPIError         ErrorKind = "REMOTE_API"
	TransportError         ErrorKind = "TRANSPORT"
	SampledFileFetchError  ErrorKind = "FILE_FETCH"
	DeepPassFailure        ErrorKind = "DEEP_PASS"
)

// SourceError is a categorized failure from a collaborator call.
type SourceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewSourceError wraps an underlying error with a category and message.
func NewSourceError(kind ErrorKind, message string, err error) *SourceError {
	return &SourceError{Kind: kind, Message: message, Err: err}
}

// Error renders the user-facing "KIND: message" form.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// KindOf extracts the category from an error chain, defaulting to
// TransportError for uncategorized failures.
func KindOf(err error) ErrorKind {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Kind
	}
	return TransportError
}
