package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinizap/lumi/notesbot/domain"
)

func ptr(s string) *string { return &s }

// testRepository runs the behaviour every backend must share.
func testRepository(t *testing.T, repo Repository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		created, err := repo.Create(ctx, "groceries", "milk and eggs")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "groceries", got.Title)
		assert.Equal(t, "milk and eggs", got.Content)
	})

	t.Run("multi-line content survives", func(t *testing.T) {
		content := "line one\n---\nline three\n"
		created, err := repo.Create(ctx, "multi --- line", content)
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "multi --- line", got.Title)
		assert.Equal(t, content, got.Content)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		notes, err := repo.List(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(notes), 2)
		for i := 1; i < len(notes); i++ {
			prev, _ := notes[i-1].ID.Int64()
			cur, _ := notes[i].ID.Int64()
			assert.Less(t, prev, cur)
		}
	})

	t.Run("update patches content only", func(t *testing.T) {
		created, err := repo.Create(ctx, "todo", "old")
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, Patch{Content: ptr("new content")})
		require.NoError(t, err)
		assert.Equal(t, "todo", updated.Title)
		assert.Equal(t, "new content", updated.Content)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new content", got.Content)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := repo.Create(ctx, "", "content")
		assert.ErrorIs(t, err, ErrInvalid)
		_, err = repo.Create(ctx, strings.Repeat("x", MaxTitleLength+1), "content")
		assert.ErrorIs(t, err, ErrInvalid)

		created, err := repo.Create(ctx, "keep", "me")
		require.NoError(t, err)
		_, err = repo.Update(ctx, created.ID, Patch{Content: ptr("")})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("delete", func(t *testing.T) {
		created, err := repo.Create(ctx, "bye", "soon gone")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))
		_, err = repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)
	})

	t.Run("ids of deleted notes are not reused", func(t *testing.T) {
		last, err := repo.Create(ctx, "latest", "newest note")
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, last.ID))

		next, err := repo.Create(ctx, "after", "created after a delete")
		require.NoError(t, err)
		assert.NotEqual(t, last.ID, next.ID)
		_, err = repo.Get(ctx, last.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown ids", func(t *testing.T) {
		for _, id := range []domain.NoteID{"999999", "abc", "0", "-1", ""} {
			_, err := repo.Get(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound, id)
			_, err = repo.Update(ctx, id, Patch{Content: ptr("x")})
			assert.ErrorIs(t, err, ErrNotFound, id)
			assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound, id)
		}
	})
}

func TestMemory(t *testing.T) {
	testRepository(t, NewMemory())
}

func TestFiles(t *testing.T) {
	repo, err := NewFiles(filepath.Join(t.TempDir(), "notes"))
	require.NoError(t, err)
	testRepository(t, repo)
}

func TestFilesKeepsHighWaterMarkAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewFiles(dir)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "one", "a")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "two", "b")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, second.ID))

	reopened, err := NewFiles(dir)
	require.NoError(t, err)
	third, err := reopened.Create(ctx, "three", "c")
	require.NoError(t, err)
	assert.Equal(t, domain.NoteID("3"), third.ID)

	notes, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestFilesSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFiles(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.md"), []byte("no frontmatter"), 0o644))

	created, err := repo.Create(context.Background(), "first", "body")
	require.NoError(t, err)
	assert.Equal(t, domain.NoteID("8"), created.ID)

	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "first", notes[0].Title)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("NOTESBOT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NOTESBOT_TEST_POSTGRES_DSN not set")
	}
	require.NoError(t, Migrate(dsn, zerolog.Nop()))
	require.NoError(t, Migrate(dsn, zerolog.Nop()))

	repo, err := NewPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	testRepository(t, repo)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db", migrateURL("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("postgresql://h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	repo, err := Open(ctx, "", "", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, repo)

	repo, err = Open(ctx, BackendFiles, t.TempDir(), "")
	require.NoError(t, err)
	assert.IsType(t, &Files{}, repo)

	_, err = Open(ctx, "mongo", "", "")
	assert.Error(t, err)
}
