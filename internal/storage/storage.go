// Package storage holds invoice attachments. Paths follow the convention
// <namespace>/<entityIDOrNew>/<timestamp>_<sanitizedFilename>.
package storage

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Store abstracts the object storage used for invoice attachments.
type Store interface {
	// Put writes the file at path and returns its public URL.
	Put(path string, r io.Reader) (string, error)

	// Remove deletes the file at path.
	Remove(path string) error

	// URL returns the public URL for path, or "" when path is empty.
	URL(path string) string
}

// SanitizeFilename replaces every rune other than letters, digits and '.'
// with an underscore.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

// BuildPath composes the storage path for an upload. entityID is the owning
// record's identifier, or the literal "new" when the record does not exist
// yet.
func BuildPath(namespace, entityID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", namespace, entityID, now.UnixMilli(), SanitizeFilename(filename))
}
