// notesbot/domain/note.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NoteID identifies a note in the store. The store assigns numeric ids, but
// the bot only ever handles them as text typed by a user, so the id is kept
// as a string and travels as a JSON number whenever it looks like one.
type NoteID string

func (id NoteID) String() string { return string(id) }

// Int64 parses the id as the positive integer key used by the store.
func (id NoteID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func NoteIDFromInt(n int64) NoteID {
	return NoteID(strconv.FormatInt(n, 10))
}

func (id NoteID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok && string(id) == strconv.FormatInt(n, 10) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *NoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NoteID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("note id must be a number or a string: %w", err)
	}
	*id = NoteID(n.String())
	return nil
}

type Note struct {
	ID        NoteID    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NoteSummary is the part of a listed note the bot shows to users.
type NoteSummary struct {
	ID    NoteID `json:"id"`
	Title string `json:"title"`
}

func (n *Note) Summary() NoteSummary {
	return NoteSummary{ID: n.ID, Title: n.Title}
}
