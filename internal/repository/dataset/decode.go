package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/pkg/field"
)

// Schema validates individual records before they are served.
type Schema struct {
	schema *gojsonschema.Schema
}

// LoadSchema compiles the JSON schema file at path.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return NewSchema(data)
}

// NewSchema compiles a JSON schema document.
func NewSchema(data []byte) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

func (s *Schema) validate(i int, raw []byte) error {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: record %d: %w", domain.ErrInvalidDataset, i, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: record %d: %s", domain.ErrInvalidDataset, i, strings.Join(msgs, "; "))
}

// Decode parses a JSON array of objects. Integral numbers decode as int64
// and others as float64. When schema is non-nil every record must satisfy it.
func Decode(data []byte, schema *Schema) ([]domain.Record, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %w", domain.ErrInvalidDataset, err)
	}

	records := make([]domain.Record, 0, len(raws))
	for i, raw := range raws {
		if schema != nil {
			if err := schema.validate(i, raw); err != nil {
				return nil, err
			}
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var rec domain.Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", domain.ErrInvalidDataset, i, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("%w: record %d: expected an object", domain.ErrInvalidDataset, i)
		}
		records = append(records, field.Numbers(rec).(domain.Record))
	}
	return records, nil
}
