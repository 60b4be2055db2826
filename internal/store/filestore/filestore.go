// Package filestore keeps each collection in its own JSON file under a data
// directory (products.json, carts.json, ...).
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"dukkan/backend/internal/store"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name store.Collection) string {
	return filepath.Join(s.dir, string(name)+".json")
}

func (s *Store) Read(ctx context.Context, name store.Collection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !store.ValidCollection(name) {
		return nil, store.ErrInvalidInput
	}
	body, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return body, err
}

// Write replaces each file through a temp file and rename, so a reader sees
// either the old or the new document. The context is checked once before the
// first replace; if a later replace fails, the files already replaced get
// their previous contents back.
func (s *Store) Write(ctx context.Context, docs ...store.Document) error {
	for _, doc := range docs {
		if !store.ValidCollection(doc.Name) {
			return store.ErrInvalidInput
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	prior := make([]snapshot, len(docs))
	for i, doc := range docs {
		body, err := os.ReadFile(s.path(doc.Name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return err
		default:
			prior[i] = snapshot{body: body, exists: true}
		}
	}

	for i, doc := range docs {
		if err := s.replace(doc.Name, doc.Body); err != nil {
			s.restore(docs[:i], prior[:i])
			return err
		}
	}
	return nil
}

type snapshot struct {
	body   []byte
	exists bool
}

func (s *Store) restore(docs []store.Document, prior []snapshot) {
	for i := len(docs) - 1; i >= 0; i-- {
		var err error
		if prior[i].exists {
			err = s.replace(docs[i].Name, prior[i].body)
		} else {
			err = os.Remove(s.path(docs[i].Name))
		}
		if err != nil {
			slog.Error("filestore rollback failed", "collection", docs[i].Name, "error", err)
		}
	}
}

// rename is swapped in tests to fail a replace midway.
var rename = os.Rename

func (s *Store) replace(name store.Collection, body []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+string(name)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return rename(tmpName, s.path(name))
}

func (s *Store) Close() error {
	return nil
}
