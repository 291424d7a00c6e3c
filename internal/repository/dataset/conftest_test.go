package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn     func(ctx context.Context, key string) ([]byte, error)
	setFn     func(ctx context.Context, key string, value []byte) error
	jsonGetFn func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonSetFn func(ctx context.Context, key, path string, data []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return []byte("[]"), nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return []byte("[[]]"), nil
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

const heroesJSON = `[
	{"id": "batman", "name": "Bruce Wayne", "alias": "Batman", "rank": 4},
	{"id": "superman", "name": "Clark Kent", "alias": "Superman", "rank": 2.5},
	{"id": "alfred", "name": "Alfred Pennyworth", "alias": null, "tags": [1, "butler"]}
]`

const heroSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func mustSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema([]byte(heroSchema))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}
