package dataset

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain"
)

func TestDecode(t *testing.T) {
	records, err := Decode([]byte(heroesJSON), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if v, ok := records[0]["rank"].(int64); !ok || v != 4 {
		t.Errorf("integral numbers should decode as int64, got %T %v", records[0]["rank"], records[0]["rank"])
	}
	if v, ok := records[1]["rank"].(float64); !ok || v != 2.5 {
		t.Errorf("fractional numbers should decode as float64, got %T %v", records[1]["rank"], records[1]["rank"])
	}
	if records[2]["alias"] != nil {
		t.Errorf("null should decode as nil, got %v", records[2]["alias"])
	}
	tags, ok := records[2]["tags"].([]any)
	if !ok || tags[0] != int64(1) {
		t.Errorf("nested numbers should be normalized, got %#v", records[2]["tags"])
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an array", `{"id": 1}`},
		{"malformed", `[{"id": 1}`},
		{"scalar element", `[1, 2]`},
		{"null element", `[null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), nil)
			if !errors.Is(err, domain.ErrInvalidDataset) {
				t.Errorf("error = %v, want ErrInvalidDataset", err)
			}
		})
	}
}

func TestDecode_Schema(t *testing.T) {
	schema := mustSchema(t)

	if _, err := Decode([]byte(heroesJSON), schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Decode([]byte(`[{"id": "x"}]`), schema)
	if !errors.Is(err, domain.ErrInvalidDataset) {
		t.Errorf("error = %v, want ErrInvalidDataset", err)
	}
}

func TestNewSchema_Invalid(t *testing.T) {
	if _, err := NewSchema([]byte(`{"type": 12}`)); err == nil {
		t.Error("expected error for invalid schema")
	}
}

func TestLoadSchema(t *testing.T) {
	path := writeFile(t, "schema.json", heroSchema)
	if _, err := LoadSchema(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := LoadSchema(path + ".missing"); err == nil {
		t.Error("expected error for missing file")
	}
}
