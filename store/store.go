// notesbot/store/store.go

// Package store keeps the notes served by the bundled REST store.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/vinizap/lumi/notesbot/domain"
)

var (
	ErrNotFound = errors.New("note not found")
	ErrInvalid  = errors.New("invalid note")
)

// Patch carries the fields of an update. Nil fields are left unchanged.
type Patch struct {
	Title   *string
	Content *string
}

// Repository is implemented by every backend. List returns notes ordered by
// id. Ids that are not positive integers are never found.
type Repository interface {
	Create(ctx context.Context, title, content string) (*domain.Note, error)
	List(ctx context.Context) ([]*domain.Note, error)
	Get(ctx context.Context, id domain.NoteID) (*domain.Note, error)
	Update(ctx context.Context, id domain.NoteID, patch Patch) (*domain.Note, error)
	Delete(ctx context.Context, id domain.NoteID) error
	Close() error
}

const MaxTitleLength = 255

func validate(title string, content string) error {
	if title == "" {
		return fmt.Errorf("%w: title is blank", ErrInvalid)
	}
	if len([]rune(title)) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalid, MaxTitleLength)
	}
	if content == "" {
		return fmt.Errorf("%w: content is blank", ErrInvalid)
	}
	return nil
}

func (p Patch) apply(n *domain.Note) error {
	title, content := n.Title, n.Content
	if p.Title != nil {
		title = *p.Title
	}
	if p.Content != nil {
		content = *p.Content
	}
	if err := validate(title, content); err != nil {
		return err
	}
	n.Title, n.Content = title, content
	return nil
}

func key(id domain.NoteID) (int64, error) {
	n, ok := id.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return n, nil
}
