// notesbot/store/files.go
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vinizap/lumi/notesbot/domain"
)

const nextFile = ".next"

// Files keeps one markdown file per note under a root directory. The
// frontmatter holds id, title and timestamps; the body is the content.
type Files struct {
	root string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFiles(root string) (*Files, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create notes dir: %w", err)
	}
	return &Files{root: root, now: time.Now}, nil
}

func (f *Files) path(k int64) string {
	return filepath.Join(f.root, strconv.FormatInt(k, 10)+".md")
}

func readNote(path string) (*domain.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rest, ok := bytes.CutPrefix(data, []byte("---\n"))
	if !ok {
		return nil, fmt.Errorf("invalid frontmatter format in %s", path)
	}
	front, body, ok := bytes.Cut(rest, []byte("\n---\n"))
	if !ok {
		return nil, fmt.Errorf("invalid frontmatter format in %s", path)
	}

	note := &domain.Note{}
	if err := yaml.Unmarshal(front, note); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	note.Content = strings.TrimPrefix(string(body), "\n")
	return note, nil
}

// writeNote replaces the file through a rename so readers never see a
// partially written note.
func writeNote(path string, note *domain.Note) error {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(note); err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n\n")
	buf.WriteString(note.Content)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// keys returns the ids of every note file in ascending order.
func (f *Files) keys() ([]int64, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, err
	}

	var keys []int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		k, err := strconv.ParseInt(strings.TrimSuffix(name, ".md"), 10, 64)
		if err != nil || k <= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// nextID returns the id for a new note. The high-water mark kept in
// nextFile stops ids of deleted notes from being handed out again.
func (f *Files) nextID() (int64, error) {
	next := int64(1)
	data, err := os.ReadFile(filepath.Join(f.root, nextFile))
	switch {
	case err == nil:
		n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt %s: %w", nextFile, err)
		}
		next = max(next, n)
	case !errors.Is(err, fs.ErrNotExist):
		return 0, err
	}

	keys, err := f.keys()
	if err != nil {
		return 0, err
	}
	if len(keys) > 0 {
		next = max(next, keys[len(keys)-1]+1)
	}
	return next, nil
}

func (f *Files) saveNextID(next int64) error {
	path := filepath.Join(f.root, nextFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatInt(next, 10)+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *Files) Create(_ context.Context, title, content string) (*domain.Note, error) {
	if err := validate(title, content); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := f.nextID()
	if err != nil {
		return nil, err
	}

	now := f.now().UTC()
	note := &domain.Note{
		ID:        domain.NoteIDFromInt(next),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := writeNote(f.path(next), note); err != nil {
		return nil, err
	}
	if err := f.saveNextID(next + 1); err != nil {
		return nil, err
	}
	return note, nil
}

func (f *Files) List(context.Context) ([]*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys, err := f.keys()
	if err != nil {
		return nil, err
	}

	notes := make([]*domain.Note, 0, len(keys))
	for _, k := range keys {
		note, err := readNote(f.path(k))
		if err != nil {
			continue // skip unreadable notes
		}
		note.ID = domain.NoteIDFromInt(k)
		notes = append(notes, note)
	}
	return notes, nil
}

func (f *Files) get(id domain.NoteID) (int64, *domain.Note, error) {
	k, err := key(id)
	if err != nil {
		return 0, nil, err
	}
	note, err := readNote(f.path(k))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return 0, nil, err
	}
	note.ID = domain.NoteIDFromInt(k)
	return k, note, nil
}

func (f *Files) Get(_ context.Context, id domain.NoteID) (*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, note, err := f.get(id)
	return note, err
}

func (f *Files) Update(_ context.Context, id domain.NoteID, patch Patch) (*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k, note, err := f.get(id)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(note); err != nil {
		return nil, err
	}
	note.UpdatedAt = f.now().UTC()
	if err := writeNote(f.path(k), note); err != nil {
		return nil, err
	}
	return note, nil
}

func (f *Files) Delete(_ context.Context, id domain.NoteID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	k, err := key(id)
	if err != nil {
		return err
	}
	err = os.Remove(f.path(k))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

func (f *Files) Close() error { return nil }
