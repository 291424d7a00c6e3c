package field

import "github.com/goccy/go-json"

// Numbers replaces json.Number values found in v, a document decoded with
// UseNumber, by int64 when integral and float64 otherwise. Maps and slices
// are rewritten in place; v is returned for convenience.
func Numbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = Numbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = Numbers(e)
		}
		return t
	default:
		return v
	}
}
