package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is a flat local-disk store for uploaded images. Files are referenced
// by bare filename in database columns and served statically under a fixed
// URL prefix.
type Store struct {
	dir string
}

// NewStore ensures the upload directory exists and returns a Store.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// GenerateFilename builds a collision-resistant filename from the current
// timestamp, a random suffix and the original extension.
func (s *Store) GenerateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// Save writes the reader's content to filename inside the upload directory.
func (s *Store) Save(filename string, src io.Reader) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return fmt.Errorf("create %q: %w", filename, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %q: %w", filename, err)
	}
	return nil
}

// Delete removes a stored file. A missing file is treated as success so that
// delete flows stay idempotent.
func (s *Store) Delete(filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil
	}
	if err := validateFilename(filename); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove %q: %w", filename, err)
	}
	return nil
}

// Exists reports whether filename is present in the store.
func (s *Store) Exists(filename string) bool {
	if validateFilename(filename) != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil
}

// validateFilename rejects anything that could escape the flat namespace.
func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is empty")
	}
	if strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid filename %q", filename)
	}
	return nil
}
