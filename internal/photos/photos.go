// Package photos manages the photo files the application owns. Photos are
// copied into a private directory on attach and removed when the owning
// contact is deleted; files outside the directory are never touched.
package photos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is a directory of photo files owned by the application.
type Store struct {
	dir string
}

// NewStore creates the photo directory if needed and returns a Store over it.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve photo dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create photo dir: %w", err)
	}
	return &Store{dir: abs}, nil
}

// Import copies the file at src into the store under a fresh name and
// returns the new path. The original file is left in place.
func (s *Store) Import(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open photo %s: %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(s.dir, uuid.NewString()+filepath.Ext(src))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to copy photo: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to close photo file: %w", err)
	}
	return dst, nil
}

// Owns reports whether path points inside the store directory. Paths the
// store does not own (e.g. a photo the user referenced in place) must not be
// deleted with the contact.
func (s *Store) Owns(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.dir, abs)
	if err != nil {
		return false
	}
	return rel != "." && filepath.IsLocal(rel)
}

// Remove deletes an owned photo file. Removing a path the store does not own
// or a file that is already gone is a no-op.
func (s *Store) Remove(path string) error {
	if !s.Owns(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo %s: %w", path, err)
	}
	return nil
}
