package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore stores files on disk under a root directory and serves them
// under a public URL prefix mounted on the router.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates a LocalStore rooted at dir. urlPrefix is the path
// the router serves dir from, e.g. "/uploads".
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{
		root:      dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Put writes the file and returns its public URL.
func (s *LocalStore) Put(path string, r io.Reader) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return s.URL(path), nil
}

// Remove deletes the stored file.
func (s *LocalStore) Remove(path string) error {
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(path))); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}

// URL returns the public URL for a stored path.
func (s *LocalStore) URL(path string) string {
	if path == "" {
		return ""
	}
	return s.urlPrefix + "/" + path
}
