package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// FileLoader reads a dataset from a JSON file on every call.
type FileLoader struct {
	path   string
	schema *Schema
}

// NewFileLoader creates a loader for the JSON array at path. schema may be nil.
func NewFileLoader(path string, schema *Schema) *FileLoader {
	return &FileLoader{path: path, schema: schema}
}

// Load reads and decodes the file.
func (l *FileLoader) Load(_ context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(filepath.Clean(l.path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrDatasetUnavailable, l.path, err)
	}
	records, err := Decode(data, l.schema)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.path, err)
	}
	return records, nil
}

// Collection exposes the loader as a deferred collection.
func (l *FileLoader) Collection() source.Collection[domain.Record] {
	return source.Deferred(l.Load)
}
