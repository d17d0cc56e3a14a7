// notesbot/dispatch/dispatcher.go

// Package dispatch resolves parsed commands against the notes store.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/client"
	"github.com/vinizap/lumi/notesbot/command"
	"github.com/vinizap/lumi/notesbot/domain"
	"github.com/vinizap/lumi/notesbot/reply"
)

// Notes is the subset of the store client the dispatcher needs.
type Notes interface {
	Create(ctx context.Context, title, content string) (domain.NoteID, error)
	ListAll(ctx context.Context) ([]domain.NoteSummary, error)
	Get(ctx context.Context, id domain.NoteID) (*domain.Note, error)
	Update(ctx context.Context, id domain.NoteID, content string) error
	Delete(ctx context.Context, id domain.NoteID) error
}

type handlerFunc func(ctx context.Context, cmd command.Command) reply.Outcome

// Dispatcher maps each verb to exactly one handler. The table is filled in
// New and never changes afterwards, so a Dispatcher is safe for concurrent use.
type Dispatcher struct {
	notes    Notes
	log      zerolog.Logger
	handlers map[command.Verb]handlerFunc
}

func New(notes Notes, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{notes: notes, log: log}
	d.handlers = map[command.Verb]handlerFunc{
		command.VerbStart:  d.start,
		command.VerbHelp:   d.help,
		command.VerbCreate: d.create,
		command.VerbList:   d.list,
		command.VerbView:   d.view,
		command.VerbUpdate: d.update,
		command.VerbDelete: d.delete,
	}
	return d
}

// Dispatch parses args for verb, runs the matching store call and returns
// the outcome. Usage errors resolve without any store call. The only error
// returned is command.ErrUnknownVerb.
func (d *Dispatcher) Dispatch(ctx context.Context, verb command.Verb, args string) (reply.Outcome, error) {
	h, ok := d.handlers[verb]
	if !ok {
		return reply.Outcome{}, command.ErrUnknownVerb
	}

	cmd, err := command.Parse(verb, args)
	if err != nil {
		var ue *command.UsageError
		if errors.As(err, &ue) {
			return reply.UsageFailure(verb, ue.Message, ue), nil
		}
		return reply.Outcome{}, err
	}
	return h(ctx, cmd), nil
}

// Reply dispatches and renders in one step.
func (d *Dispatcher) Reply(ctx context.Context, verb command.Verb, args string) (string, reply.Outcome, error) {
	out, err := d.Dispatch(ctx, verb, args)
	if err != nil {
		return "", out, err
	}
	return reply.Render(out), out, nil
}

func (d *Dispatcher) start(context.Context, command.Command) reply.Outcome {
	return reply.Ok(command.VerbStart, reply.Info(reply.WelcomeText))
}

func (d *Dispatcher) help(context.Context, command.Command) reply.Outcome {
	return reply.Ok(command.VerbHelp, reply.Info(reply.HelpText))
}

func (d *Dispatcher) create(ctx context.Context, cmd command.Command) reply.Outcome {
	c := cmd.(command.Create)
	id, err := d.notes.Create(ctx, c.Title, c.Content)
	if err != nil {
		return failure(command.VerbCreate, err, false)
	}
	d.log.Debug().Str("note_id", id.String()).Msg("note created")
	return reply.Ok(command.VerbCreate, reply.Confirmation{})
}

func (d *Dispatcher) list(ctx context.Context, _ command.Command) reply.Outcome {
	notes, err := d.notes.ListAll(ctx)
	if err != nil {
		return failure(command.VerbList, err, false)
	}
	return reply.Ok(command.VerbList, reply.Summaries(notes))
}

func (d *Dispatcher) view(ctx context.Context, cmd command.Command) reply.Outcome {
	v := cmd.(command.View)
	note, err := d.notes.Get(ctx, v.ID)
	if err != nil {
		return failure(command.VerbView, err, true)
	}
	if note == nil {
		return reply.Failed(command.VerbView, reply.ReasonGeneric, errors.New("store returned no note"))
	}
	return reply.Ok(command.VerbView, reply.NoteView{Note: *note})
}

func (d *Dispatcher) update(ctx context.Context, cmd command.Command) reply.Outcome {
	u := cmd.(command.Update)
	if err := d.notes.Update(ctx, u.ID, u.Content); err != nil {
		return failure(command.VerbUpdate, err, true)
	}
	return reply.Ok(command.VerbUpdate, reply.Confirmation{})
}

func (d *Dispatcher) delete(ctx context.Context, cmd command.Command) reply.Outcome {
	del := cmd.(command.Delete)
	if err := d.notes.Delete(ctx, del.ID); err != nil {
		return failure(command.VerbDelete, err, true)
	}
	return reply.Ok(command.VerbDelete, reply.Confirmation{})
}

// failure maps a client error onto a failure reason. Only item operations
// can report a missing note; for the others a 404 is just another bad status.
func failure(verb command.Verb, err error, itemOp bool) reply.Outcome {
	switch client.OutcomeOf(err) {
	case client.OutcomeTransport:
		return reply.Failed(verb, reply.ReasonTransport, err)
	case client.OutcomeNotFound:
		if itemOp {
			return reply.Failed(verb, reply.ReasonNotFound, err)
		}
	}
	return reply.Failed(verb, reply.ReasonGeneric, err)
}
