package gomkit

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactStore persists the derived typed table as a single CSV file,
// overwritten on each successful extraction and later read by the heatmap
// reshaping path.
//
// Writers replace the file atomically (write to a temp file in the same
// directory, then rename) so a concurrent reader never observes a partial
// artifact. There is no locking: the artifact is a single-writer,
// single-reader handoff.
type ArtifactStore struct {
	path string
}

// NewArtifactStore creates a store for the artifact at path. The parent
// directory is created on first write.
func NewArtifactStore(path string) *ArtifactStore {
	return &ArtifactStore{path: path}
}

// Path returns the artifact location.
func (s *ArtifactStore) Path() string { return s.path }

// Write serializes the table and atomically replaces the artifact.
func (s *ArtifactStore) Write(t *Table) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("artifact: create dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.csv")
	if err != nil {
		return fmt.Errorf("artifact: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := WriteCSV(t, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("artifact: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifact: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifact: replace: %w", err)
	}
	return nil
}

// Read loads the persisted table, re-typing numeric columns. An absent
// artifact is a reportable condition (ErrArtifactNotFound), not a crash.
func (s *ArtifactStore) Read() (*Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrArtifactNotFound{Path: s.path}
		}
		return nil, fmt.Errorf("artifact: read: %w", err)
	}
	t, err := ReadCSV(data)
	if err != nil {
		return nil, err
	}
	return t.Sanitize(), nil
}
