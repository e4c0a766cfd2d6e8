package session

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo persists the session slot as a single JSON file, the desktop
// equivalent of the browser's local storage slot. Files are written 0600 so
// tokens are not readable by other users on the machine.
type FileRepo struct {
	path string
}

// NewFileRepo creates a FileRepo at the given path. The parent directory is
// created on first write.
func NewFileRepo(path string) (*FileRepo, error) {
	if path == "" {
		return nil, errors.New("[NewFileRepo] path is required")
	}
	return &FileRepo{path: path}, nil
}

func (r *FileRepo) Get(_ context.Context) (string, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NoSessionErr
		}
		return "", errors.Wrap(err, "[FileRepo.Get] read")
	}
	return string(b), nil
}

func (r *FileRepo) Put(_ context.Context, value string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return errors.Wrap(err, "[FileRepo.Put] mkdir")
	}
	if err := os.WriteFile(r.path, []byte(value), 0600); err != nil {
		return errors.Wrap(err, "[FileRepo.Put] write")
	}
	return nil
}

func (r *FileRepo) Delete(_ context.Context) error {
	if err := os.Remove(r.path); err != nil {
		if os.IsNotExist(err) {
			return NoSessionErr
		}
		return errors.Wrap(err, "[FileRepo.Delete] remove")
	}
	return nil
}
