// notesbot/command/command.go

// Package command turns a chat command line into a typed Command.
//
// Each verb has a fixed grammar. Two-field verbs split their argument string
// once, at the first run of whitespace, so the second field keeps any further
// words verbatim.
package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/vinizap/lumi/notesbot/domain"
)

type Verb string

const (
	VerbStart  Verb = "start"
	VerbHelp   Verb = "help"
	VerbCreate Verb = "create"
	VerbList   Verb = "list"
	VerbView   Verb = "view"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Verbs lists every known verb in the order they are presented to users.
var Verbs = []Verb{VerbStart, VerbHelp, VerbCreate, VerbList, VerbView, VerbUpdate, VerbDelete}

func (v Verb) Valid() bool {
	for _, known := range Verbs {
		if v == known {
			return true
		}
	}
	return false
}

// Command is one parsed chat command. The concrete types below are the only
// implementations.
type Command interface {
	Verb() Verb
}

type Start struct{}

type Help struct{}

type List struct{}

type Create struct {
	Title   string
	Content string
}

type View struct {
	ID domain.NoteID
}

type Update struct {
	ID      domain.NoteID
	Content string
}

type Delete struct {
	ID domain.NoteID
}

func (Start) Verb() Verb  { return VerbStart }
func (Help) Verb() Verb   { return VerbHelp }
func (List) Verb() Verb   { return VerbList }
func (Create) Verb() Verb { return VerbCreate }
func (View) Verb() Verb   { return VerbView }
func (Update) Verb() Verb { return VerbUpdate }
func (Delete) Verb() Verb { return VerbDelete }

var ErrUnknownVerb = errors.New("unknown command")

type UsageKind int

const (
	MissingArguments UsageKind = iota + 1
	InvalidFormat
)

func (k UsageKind) String() string {
	switch k {
	case MissingArguments:
		return "missing_arguments"
	case InvalidFormat:
		return "invalid_format"
	default:
		return fmt.Sprintf("usage_kind(%d)", int(k))
	}
}

// UsageError reports a command whose arguments do not fit its grammar.
// Message is the hint shown to the user as is.
type UsageError struct {
	Verb    Verb
	Kind    UsageKind
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("/%s: %s", e.Verb, e.Kind)
}

var usage = map[Verb]map[UsageKind]string{
	VerbCreate: {
		MissingArguments: "Please provide title and content. Example: /create <title> <content>",
		InvalidFormat:    "Invalid format. Example: /create <title> <content>",
	},
	VerbView: {
		MissingArguments: "Please provide note ID. Example: /view <note_id>",
	},
	VerbUpdate: {
		MissingArguments: "Please provide note ID and new content. Example: /update <note_id> <new_content>",
		InvalidFormat:    "Invalid format. Example: /update <note_id> <new_content>",
	},
	VerbDelete: {
		MissingArguments: "Please provide note ID. Example: /delete <note_id>",
	},
}

// Usage returns the hint for a verb misused in the given way.
func Usage(verb Verb, kind UsageKind) string {
	return usage[verb][kind]
}

func usageError(verb Verb, kind UsageKind) *UsageError {
	return &UsageError{Verb: verb, Kind: kind, Message: Usage(verb, kind)}
}

// Parse builds the Command for verb from its raw argument string. Argument
// errors are returned as *UsageError; an unrecognised verb yields
// ErrUnknownVerb.
func Parse(verb Verb, args string) (Command, error) {
	switch verb {
	case VerbStart:
		return Start{}, nil
	case VerbHelp:
		return Help{}, nil
	case VerbList:
		return List{}, nil
	case VerbCreate:
		title, content, err := splitPair(verb, args)
		if err != nil {
			return nil, err
		}
		return Create{Title: title, Content: content}, nil
	case VerbView:
		id, err := single(verb, args)
		if err != nil {
			return nil, err
		}
		return View{ID: id}, nil
	case VerbUpdate:
		id, content, err := splitPair(verb, args)
		if err != nil {
			return nil, err
		}
		return Update{ID: domain.NoteID(id), Content: content}, nil
	case VerbDelete:
		id, err := single(verb, args)
		if err != nil {
			return nil, err
		}
		return Delete{ID: id}, nil
	}
	return nil, fmt.Errorf("%w: /%s", ErrUnknownVerb, verb)
}

func single(verb Verb, args string) (domain.NoteID, error) {
	id := strings.TrimSpace(args)
	if id == "" {
		return "", usageError(verb, MissingArguments)
	}
	return domain.NoteID(id), nil
}

// splitPair splits args at the first whitespace run. Everything after that
// run belongs to the second field untouched.
func splitPair(verb Verb, args string) (string, string, error) {
	args = strings.TrimLeftFunc(args, unicode.IsSpace)
	if strings.TrimSpace(args) == "" {
		return "", "", usageError(verb, MissingArguments)
	}

	cut := strings.IndexFunc(args, unicode.IsSpace)
	if cut < 0 {
		return "", "", usageError(verb, InvalidFormat)
	}
	first := args[:cut]
	rest := strings.TrimLeftFunc(args[cut:], unicode.IsSpace)
	if rest == "" {
		return "", "", usageError(verb, InvalidFormat)
	}
	return first, rest, nil
}

// ParseLine splits a full message such as "/update@notes_bot 7 new text"
// into its verb and argument string. ok is false when line is not a command.
func ParseLine(line string) (verb Verb, args string, ok bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}

	head, rest := line[1:], ""
	if cut := strings.IndexFunc(head, unicode.IsSpace); cut >= 0 {
		head, rest = head[:cut], strings.TrimLeftFunc(head[cut:], unicode.IsSpace)
	}
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	if head == "" {
		return "", "", false
	}
	return Verb(strings.ToLower(head)), rest, true
}
