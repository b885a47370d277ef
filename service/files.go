package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrFileNotFound is returned when a stored file does not exist
var ErrFileNotFound = errors.New("file not found")

// StoredObject is an open stored file
type StoredObject interface {
	io.ReadSeekCloser
}

// ObjectInfo describes a stored file
type ObjectInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// FileStore persists uploaded binary content by name
type FileStore interface {
	// Ensure prepares the backing directory or bucket.
	Ensure(ctx context.Context) error
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (StoredObject, ObjectInfo, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// LocalFileStore keeps files in a directory on disk
type LocalFileStore struct {
	dir string
}

// NewLocalFileStore stores files under dir. The directory is created by
// Ensure, not here.
func NewLocalFileStore(dir string) *LocalFileStore {
	return &LocalFileStore{dir: dir}
}

func (s *LocalFileStore) Ensure(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *LocalFileStore) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.Ensure(ctx); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalFileStore) Open(_ context.Context, name string) (StoredObject, ObjectInfo, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ObjectInfo{}, ErrFileNotFound
	}
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to open file: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if st.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrFileNotFound
	}
	return f, ObjectInfo{Name: name, Size: st.Size(), ModTime: st.ModTime()}, nil
}

func (s *LocalFileStore) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, nil
	}
	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return !st.IsDir(), nil
}

func (s *LocalFileStore) path(name string) (string, error) {
	if !fs.ValidPath(name) || name == "." {
		return "", ErrFileNotFound
	}
	return filepath.Join(s.dir, filepath.FromSlash(name)), nil
}
