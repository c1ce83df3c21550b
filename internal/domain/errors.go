package domain

import "errors"

// ForwardError represents a transport-level failure while relaying a payload
// to the remote endpoint. Remote HTTP error statuses are not ForwardErrors:
// a reachable remote is a successful forward whatever it answers.
type ForwardError struct {
	Op  string // operation that failed (e.g. "build request", "post")
	Err error  // underlying error
}

func (e *ForwardError) Error() string {
	return "forward " + e.Op + ": " + e.Err.Error()
}

func (e *ForwardError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout.
func (e *ForwardError) Timeout() bool {
	var t interface{ Timeout() bool }
	if errors.As(e.Err, &t) {
		return t.Timeout()
	}
	return false
}

// NewForwardError wraps a transport failure.
func NewForwardError(op string, err error) *ForwardError {
	return &ForwardError{Op: op, Err: err}
}

// ConfigError represents a startup configuration error.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidPayload is returned when the inbound body is missing or not valid JSON.
	ErrInvalidPayload = errors.New("invalid JSON payload")

	// ErrJournalClosed is returned when writing to a journal that has been closed.
	ErrJournalClosed = errors.New("journal closed")
)
