package upload

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store persists uploaded files on the local filesystem.
//
// The root directory CONTAINS the uploads tree: a stored path like
// "uploads/recipe/abc.jpg" lives at <root>/uploads/recipe/abc.jpg. The HTTP
// server mounts <root>/uploads at /uploads/*, so the stored path doubles as
// the public URL path.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir and ensures the recipe image
// directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(RecipeImageDir)), 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating image directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes r to the file named by rel (a path produced by
// RecipeImagePath) and returns the number of bytes written.
func (s *Store) Save(rel string, r io.Reader) (int64, error) {
	diskPath, err := s.diskPath(rel)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(diskPath)
	if err != nil {
		return 0, fmt.Errorf("upload: creating %s: %w", rel, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(diskPath)
		return 0, fmt.Errorf("upload: writing %s: %w", rel, err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("upload: closing %s: %w", rel, err)
	}

	return n, nil
}

// Remove deletes the file named by rel. A file that's already gone is not
// an error — Remove is used to clean up replaced images, and double cleanup
// must be harmless.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}

	diskPath, err := s.diskPath(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("upload: removing %s: %w", rel, err)
	}
	return nil
}

// diskPath maps a stored path to its filesystem location, rejecting
// anything that escapes the recipe image directory. Stored paths come from
// our own database, but they originated in request handling — cheap to
// re-check, catastrophic to get wrong.
func (s *Store) diskPath(rel string) (string, error) {
	cleaned := path.Clean(rel)
	if !strings.HasPrefix(cleaned, RecipeImageDir+"/") {
		return "", fmt.Errorf("upload: invalid stored path %q", rel)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
