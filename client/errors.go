// notesbot/client/errors.go
package client

import (
	"errors"
	"fmt"
)

// Outcome names how a single request against the store ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeOther
	OutcomeTransport
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeOther:
		return "other"
	case OutcomeTransport:
		return "transport"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

var (
	ErrNotFound  = errors.New("note not found")
	ErrTransport = errors.New("store unreachable")
)

// Error is returned by every Client operation that did not succeed.
// Status is the HTTP status observed, zero for transport failures.
type Error struct {
	Op      string
	Outcome Outcome
	Status  int
	Err     error
}

func (e *Error) Error() string {
	switch e.Outcome {
	case OutcomeTransport:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case OutcomeNotFound:
		return fmt.Sprintf("%s: note not found (status=%d)", e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status=%d", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Outcome == OutcomeNotFound
	case ErrTransport:
		return e.Outcome == OutcomeTransport
	}
	return false
}

// OutcomeOf classifies an error returned by the Client. A nil error is a
// success; errors that did not come from the Client count as OutcomeOther.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Outcome
	}
	return OutcomeOther
}
