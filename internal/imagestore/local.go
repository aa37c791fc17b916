package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// LocalStore writes images as files under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(_ context.Context, data []byte) (string, string, error) {
	m, err := Sniff(data)
	if err != nil {
		return "", "", err
	}
	ref := newRef(m)
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		log.Printf("[imagestore] write %s: %v", ref, err)
		return "", "", err
	}
	return ref, m.String(), nil
}

func (s *LocalStore) Get(_ context.Context, ref string) ([]byte, string, error) {
	if err := validRef(ref); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, contentTypeOf(data), nil
}

// Delete removes ref. Deleting a missing image is not an error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	if err := validRef(ref); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
