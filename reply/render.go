// notesbot/reply/render.go

// Package reply holds command outcomes and renders them as chat text.
package reply

import (
	"fmt"
	"strings"

	"github.com/vinizap/lumi/notesbot/command"
)

const (
	NotFoundText = "Note not found."
	NoNotesText  = "No notes found."

	WelcomeText = "Hi, I'm a bot for note management. " +
		"For a list of available commands, type /help."

	HelpText = `List of available commands:
/create <title> <content> - create a new note.
/list - display a list of all notes.
/view <note_id> - view a specific note by its identifier.
/update <note_id> <new_content> - update the contents of the note.
/delete <note_id> - delete the note.`
)

var confirmations = map[command.Verb]string{
	command.VerbCreate: "Note created successfully!",
	command.VerbUpdate: "Note updated successfully!",
	command.VerbDelete: "Note deleted successfully!",
}

var failures = map[command.Verb]string{
	command.VerbCreate: "Failed to create note.",
	command.VerbList:   "Failed to retrieve notes.",
	command.VerbView:   "Failed to retrieve note.",
	command.VerbUpdate: "Failed to update note.",
	command.VerbDelete: "Failed to delete note.",
}

// Render turns an outcome into the text sent back to the user.
func Render(o Outcome) string {
	switch o.Reason {
	case ReasonNone:
		return renderPayload(o.Verb, o.Payload)
	case ReasonUsage:
		return o.Usage
	case ReasonNotFound:
		return NotFoundText
	}
	// Generic and transport failures share the same text for now.
	return failureText(o.Verb)
}

func renderPayload(verb command.Verb, p Payload) string {
	switch p := p.(type) {
	case Info:
		return string(p)
	case Confirmation:
		if text, ok := confirmations[verb]; ok {
			return text
		}
		return "Done."
	case NoteView:
		return fmt.Sprintf("Note ID: %s\nTitle: %s\nContent: %s", p.Note.ID, p.Note.Title, p.Note.Content)
	case Summaries:
		return renderSummaries(p)
	}
	return failureText(verb)
}

func renderSummaries(notes Summaries) string {
	if len(notes) == 0 {
		return NoNotesText
	}
	var b strings.Builder
	b.WriteString("Notes:")
	for _, n := range notes {
		fmt.Fprintf(&b, "\n%s. %s", n.ID, n.Title)
	}
	return b.String()
}

func failureText(verb command.Verb) string {
	if text, ok := failures[verb]; ok {
		return text
	}
	return "Something went wrong."
}
