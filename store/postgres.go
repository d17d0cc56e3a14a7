// notesbot/store/postgres.go
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending schema migration to the database at dsn.
func Migrate(dsn string, log zerolog.Logger) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("closing migrator")
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info().Uint("version", version).Msg("schema migrated")
	return nil
}

// migrateURL rewrites a postgres:// dsn for the pgx/v5 migrate driver.
func migrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

const noteColumns = "id, title, content, created_at, updated_at"

func scanNote(row pgx.Row) (*domain.Note, error) {
	var (
		id   int64
		note domain.Note
	)
	if err := row.Scan(&id, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	note.ID = domain.NoteIDFromInt(id)
	return &note, nil
}

// mapError turns driver errors into store errors.
func mapError(err error, id domain.NoteID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
			return fmt.Errorf("%w: %s", ErrInvalid, pgErr.Message)
		}
	}
	return err
}

func (p *Postgres) Create(ctx context.Context, title, content string) (*domain.Note, error) {
	row := p.pool.QueryRow(ctx,
		`INSERT INTO notes (title, content) VALUES ($1, $2) RETURNING `+noteColumns,
		title, content)
	note, err := scanNote(row)
	if err != nil {
		return nil, mapError(err, "")
	}
	return note, nil
}

func (p *Postgres) List(ctx context.Context) ([]*domain.Note, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (p *Postgres) Get(ctx context.Context, id domain.NoteID) (*domain.Note, error) {
	k, err := key(id)
	if err != nil {
		return nil, err
	}
	note, err := scanNote(p.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, k))
	if err != nil {
		return nil, mapError(err, id)
	}
	return note, nil
}

func (p *Postgres) Update(ctx context.Context, id domain.NoteID, patch Patch) (*domain.Note, error) {
	k, err := key(id)
	if err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx,
		`UPDATE notes
		    SET title = COALESCE($2, title),
		        content = COALESCE($3, content),
		        updated_at = now()
		  WHERE id = $1
		RETURNING `+noteColumns,
		k, patch.Title, patch.Content)
	note, err := scanNote(row)
	if err != nil {
		return nil, mapError(err, id)
	}
	return note, nil
}

func (p *Postgres) Delete(ctx context.Context, id domain.NoteID) error {
	k, err := key(id)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, k)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
