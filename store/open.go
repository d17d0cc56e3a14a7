// notesbot/store/open.go
package store

import (
	"context"
	"fmt"
)

const (
	BackendMemory   = "memory"
	BackendFiles    = "file"
	BackendPostgres = "postgres"
)

// Open builds the repository named by backend. root is used by the file
// backend, dsn by postgres.
func Open(ctx context.Context, backend, root, dsn string) (Repository, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFiles:
		files, err := NewFiles(root)
		if err != nil {
			return nil, err
		}
		return files, nil
	case BackendPostgres:
		pg, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}
