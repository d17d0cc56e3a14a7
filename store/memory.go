// notesbot/store/memory.go
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vinizap/lumi/notesbot/domain"
)

type Memory struct {
	mu     sync.RWMutex
	notes  map[int64]*domain.Note
	nextID int64
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		notes:  make(map[int64]*domain.Note),
		nextID: 1,
		now:    time.Now,
	}
}

func (m *Memory) Create(_ context.Context, title, content string) (*domain.Note, error) {
	if err := validate(title, content); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	note := &domain.Note{
		ID:        domain.NoteIDFromInt(m.nextID),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.notes[m.nextID] = note
	m.nextID++

	copied := *note
	return &copied, nil
}

func (m *Memory) List(context.Context) ([]*domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]int64, 0, len(m.notes))
	for k := range m.notes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	notes := make([]*domain.Note, 0, len(keys))
	for _, k := range keys {
		copied := *m.notes[k]
		notes = append(notes, &copied)
	}
	return notes, nil
}

func (m *Memory) Get(_ context.Context, id domain.NoteID) (*domain.Note, error) {
	k, err := key(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	note, ok := m.notes[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copied := *note
	return &copied, nil
}

func (m *Memory) Update(_ context.Context, id domain.NoteID, patch Patch) (*domain.Note, error) {
	k, err := key(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := *note
	if err := patch.apply(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = m.now().UTC()
	m.notes[k] = &updated

	copied := updated
	return &copied, nil
}

func (m *Memory) Delete(_ context.Context, id domain.NoteID) error {
	k, err := key(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[k]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.notes, k)
	return nil
}

func (m *Memory) Close() error { return nil }
