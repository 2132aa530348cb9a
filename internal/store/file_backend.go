package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Backend persists one opaque JSON document per collection.
type Backend interface {
	// Read returns the stored document, or nil if the collection has never
	// been written.
	Read(ctx context.Context, collection string) ([]byte, error)
	// Write replaces the whole document.
	Write(ctx context.Context, collection string, doc []byte) error
}

// FileBackend keeps each collection in <Dir>/<collection>.json.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{Dir: dir}, nil
}

func (b *FileBackend) path(collection string) string {
	return filepath.Join(b.Dir, collection+".json")
}

func (b *FileBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Write goes through a temp file and a rename so readers never see a
// partially written document.
func (b *FileBackend) Write(ctx context.Context, collection string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.Dir, collection+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, b.path(collection))
}
