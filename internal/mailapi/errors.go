package mailapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMailbox is returned when a mailbox listing is refused.
	ErrInvalidMailbox = errors.New("invalid mailbox: expected one of inbox, sent or archive")
	// ErrNotFound is returned when a single message cannot be fetched or updated.
	ErrNotFound = errors.New("email not found")
)

// StatusError reports a non-2xx response. It unwraps to the sentinel of the
// failing operation; create failures carry none.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string // server supplied error text, may be empty
	kind       error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: server responded %d", e.Op, e.StatusCode)
	if e.kind != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.kind)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return msg
}

func (e *StatusError) Unwrap() error { return e.kind }

// RejectedError reports a create request the server answered with an
// "error" entry in its JSON body. The request itself went through.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

// IsRejected reports whether err is a semantic rejection from the server.
func IsRejected(err error) bool {
	var rej *RejectedError
	return errors.As(err, &rej)
}

// IsStatusFailure reports whether err is a non-2xx response.
func IsStatusFailure(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
