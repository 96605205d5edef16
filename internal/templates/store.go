package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultStagingDir is where manifests are staged between deploy and reset.
const DefaultStagingDir = "/tmp/rook-ceph"

// Store is the staging directory.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir, or DefaultStagingDir when dir is
// empty. The directory is created on first write.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultStagingDir
	}
	return &Store{Dir: dir}
}

// Path returns the staged location of name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Write stages data as name, which must be one of Files.
func (s *Store) Write(name string, data []byte) error {
	if _, err := Lookup(name); err != nil {
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory %s: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil { //nolint:gosec // manifests are not secret
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return nil
}

// Read returns the staged content of name.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read staged %s: %w", name, err)
	}
	return data, nil
}

// Exists reports whether name is staged.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Missing returns the files of Files that are not staged.
func (s *Store) Missing() []File {
	var missing []File
	for _, f := range Files {
		if !s.Exists(f.Name) {
			missing = append(missing, f)
		}
	}
	return missing
}

// WriteBundle stages every manifest of b.
func (s *Store) WriteBundle(b *Bundle) error {
	var errs []error
	for _, m := range b.Manifests {
		if err := s.Write(m.Name, m.Data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadBundle loads the staged manifests in apply order.
func (s *Store) ReadBundle() (*Bundle, error) {
	b := &Bundle{Manifests: make([]Manifest, 0, len(Files))}
	for _, f := range Files {
		data, err := s.Read(f.Name)
		if err != nil {
			return nil, err
		}
		b.Manifests = append(b.Manifests, Manifest{File: f, Data: data})
	}
	return b, nil
}
