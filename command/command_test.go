package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		verb Verb
		args string
		want Command
	}{
		{"start ignores args", VerbStart, "whatever", Start{}},
		{"help", VerbHelp, "", Help{}},
		{"list ignores args", VerbList, " foo bar", List{}},
		{"create splits once", VerbCreate, "A B C D E", Create{Title: "A", Content: "B C D E"}},
		{"create keeps inner spacing", VerbCreate, "  shop  milk,   eggs", Create{Title: "shop", Content: "milk,   eggs"}},
		{"create across newline", VerbCreate, "title\nline one\nline two", Create{Title: "title", Content: "line one\nline two"}},
		{"view trims", VerbView, "  42  ", View{ID: "42"}},
		{"view keeps inner space", VerbView, " 4 2 ", View{ID: "4 2"}},
		{"update", VerbUpdate, "7 hello world", Update{ID: "7", Content: "hello world"}},
		{"delete trims", VerbDelete, "  42  ", Delete{ID: "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.verb, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.verb, got.Verb())
		})
	}
}

func TestParseUsageErrors(t *testing.T) {
	tests := []struct {
		verb    Verb
		args    string
		kind    UsageKind
		message string
	}{
		{VerbCreate, "", MissingArguments, "Please provide title and content. Example: /create <title> <content>"},
		{VerbCreate, "   ", MissingArguments, "Please provide title and content. Example: /create <title> <content>"},
		{VerbCreate, "onlytitle", InvalidFormat, "Invalid format. Example: /create <title> <content>"},
		{VerbCreate, " onlytitle  ", InvalidFormat, "Invalid format. Example: /create <title> <content>"},
		{VerbView, "", MissingArguments, "Please provide note ID. Example: /view <note_id>"},
		{VerbView, " \t", MissingArguments, "Please provide note ID. Example: /view <note_id>"},
		{VerbUpdate, "", MissingArguments, "Please provide note ID and new content. Example: /update <note_id> <new_content>"},
		{VerbUpdate, "7", InvalidFormat, "Invalid format. Example: /update <note_id> <new_content>"},
		{VerbDelete, "", MissingArguments, "Please provide note ID. Example: /delete <note_id>"},
	}

	for _, tt := range tests {
		t.Run(string(tt.verb)+"/"+tt.kind.String(), func(t *testing.T) {
			cmd, err := Parse(tt.verb, tt.args)
			assert.Nil(t, cmd)

			var ue *UsageError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.verb, ue.Verb)
			assert.Equal(t, tt.kind, ue.Kind)
			assert.Equal(t, tt.message, ue.Message)
		})
	}
}

func TestParseUnknownVerb(t *testing.T) {
	_, err := Parse("frobnicate", "x")
	assert.ErrorIs(t, err, ErrUnknownVerb)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		verb Verb
		args string
		ok   bool
	}{
		{"/start", VerbStart, "", true},
		{"/create A B C", VerbCreate, "A B C", true},
		{"/update@notes_bot 7 hello world", VerbUpdate, "7 hello world", true},
		{"  /VIEW   42", VerbView, "42", true},
		{"hello", "", "", false},
		{"/", "", "", false},
		{"/@bot", "", "", false},
	}

	for _, tt := range tests {
		verb, args, ok := ParseLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.verb, verb, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

func TestVerbValid(t *testing.T) {
	for _, v := range Verbs {
		assert.True(t, v.Valid())
	}
	assert.False(t, Verb("nope").Valid())
}
