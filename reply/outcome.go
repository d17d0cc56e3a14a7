// notesbot/reply/outcome.go
package reply

import (
	"github.com/vinizap/lumi/notesbot/command"
	"github.com/vinizap/lumi/notesbot/domain"
)

// Payload is what a successful command produced. The implementations are
// Info, Confirmation, NoteView and Summaries.
type Payload interface {
	payload()
}

// Info is static text answered without touching the store.
type Info string

// Confirmation acknowledges a completed write.
type Confirmation struct{}

type NoteView struct {
	Note domain.Note
}

// Summaries is the note listing in store order. It may be empty.
type Summaries []domain.NoteSummary

func (Info) payload()         {}
func (Confirmation) payload() {}
func (NoteView) payload()     {}
func (Summaries) payload()    {}

type Reason int

const (
	ReasonNone Reason = iota
	ReasonUsage
	ReasonNotFound
	ReasonGeneric
	ReasonTransport
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonUsage:
		return "usage"
	case ReasonNotFound:
		return "not_found"
	case ReasonGeneric:
		return "generic"
	case ReasonTransport:
		return "transport"
	}
	return "unknown"
}

// Outcome is the resolved result of one command: either a Payload, or a
// failure Reason. Err keeps the underlying cause for logging only.
type Outcome struct {
	Verb    command.Verb
	Payload Payload
	Reason  Reason
	Usage   string
	Err     error
}

func Ok(verb command.Verb, p Payload) Outcome {
	return Outcome{Verb: verb, Payload: p}
}

func Failed(verb command.Verb, reason Reason, err error) Outcome {
	return Outcome{Verb: verb, Reason: reason, Err: err}
}

func UsageFailure(verb command.Verb, message string, err error) Outcome {
	return Outcome{Verb: verb, Reason: ReasonUsage, Usage: message, Err: err}
}

func (o Outcome) OK() bool { return o.Reason == ReasonNone }
