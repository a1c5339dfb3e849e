// Package covers resolves and inspects cover images stored under the data
// directory.
package covers

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver answers questions about cover files relative to a root directory.
// It is safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver rooted at root (the data directory).
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		return nil, fmt.Errorf("cover root cannot be empty")
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the directory covers are resolved against.
func (r *Resolver) Root() string { return r.root }

// Path maps a cover path from the books file to a filesystem path.
// It fails for empty paths and for paths that leave the root.
func (r *Resolver) Path(coverPath string) (string, error) {
	if coverPath == "" {
		return "", fmt.Errorf("cover path cannot be empty")
	}
	if !filepath.IsLocal(coverPath) {
		return "", fmt.Errorf("cover path %q escapes the data directory", coverPath)
	}
	return filepath.Join(r.root, coverPath), nil
}

// Exists reports whether coverPath names a regular file under the root.
func (r *Resolver) Exists(coverPath string) bool {
	full, err := r.Path(coverPath)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
