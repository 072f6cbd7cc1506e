package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// FileSlot stores the slot as <dir>/<key>.json. Writes go to a temp file
// that is renamed over the target, under an exclusive lock on <key>.lock.
type FileSlot struct {
	path string
	lock *flock.Flock
}

func NewFileSlot(dir, key string) (*FileSlot, error) {
	if key == "" {
		return nil, errors.New("file slot: empty key")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileSlot{
		path: filepath.Join(dir, key+".json"),
		lock: flock.New(filepath.Join(dir, key+".lock")),
	}, nil
}

// Path returns the data file location.
func (s *FileSlot) Path() string {
	return s.path
}

func (s *FileSlot) Load(ctx context.Context) ([]byte, error) {
	if _, err := s.lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileSlot) Save(ctx context.Context, data []byte) error {
	if _, err := s.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileSlot) Close() error {
	return s.lock.Close()
}
