package dataset

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain"
)

func TestFileLoader_Load(t *testing.T) {
	path := writeFile(t, "heroes.json", heroesJSON)
	l := NewFileLoader(path, mustSchema(t))

	records, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len = %d, want 3", len(records))
	}
}

func TestFileLoader_Missing(t *testing.T) {
	l := NewFileLoader("/nonexistent/heroes.json", nil)
	_, err := l.Load(context.Background())
	if !errors.Is(err, domain.ErrDatasetUnavailable) {
		t.Errorf("error = %v, want ErrDatasetUnavailable", err)
	}
}

func TestFileLoader_CollectionIsDeferred(t *testing.T) {
	path := writeFile(t, "heroes.json", `[{"id": "a"}]`)
	c := NewFileLoader(path, nil).Collection()

	first, err := c.Resolve(context.Background())
	if err != nil || len(first) != 1 {
		t.Fatalf("first resolve = %v, %v", first, err)
	}

	if err := os.WriteFile(path, []byte(`[{"id": "a"}, {"id": "b"}]`), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, err := c.Resolve(context.Background())
	if err != nil || len(second) != 2 {
		t.Errorf("collection should re-read the file, got %v, %v", second, err)
	}
}
