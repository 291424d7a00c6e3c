// Package search provides text search strategies for data sources.
//
// Text matches records that are themselves scalars. Fields scans a record's
// properties. Both implement match.Matcher[T, string] and are
// case-sensitive substring tests unless folding is requested.
package search

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sieve/pkg/field"
	"github.com/kailas-cloud/sieve/pkg/match"
)

var (
	_ match.Matcher[string, string] = Text[string]{}
	_ match.Matcher[any, string]    = (*Fields[any])(nil)
)

// Text matches a scalar record by its string form.
type Text[T any] struct{}

// NewText creates a whole-record text matcher.
func NewText[T any]() Text[T] { return Text[T]{} }

// Match reports whether term occurs in the string form of record.
// Records that are not scalars never match.
func (Text[T]) Match(record T, term string) bool {
	s, ok := Stringify(record)
	return ok && strings.Contains(s, term)
}

// Fields matches records whose scanned properties contain the term.
type Fields[T any] struct {
	names []string
	fold  bool
}

// NewFields creates a field-scoped matcher. With no names every own
// property of the record is scanned.
func NewFields[T any](names ...string) *Fields[T] {
	return &Fields[T]{names: append([]string(nil), names...)}
}

// Names returns the configured allow-list. Empty means all properties.
func (m *Fields[T]) Names() []string {
	return append([]string(nil), m.names...)
}

// IgnoringCase returns a copy of m that compares under Unicode case folding.
func (m *Fields[T]) IgnoringCase() *Fields[T] {
	return &Fields[T]{names: m.Names(), fold: true}
}

// Match reports whether any scanned property contains term.
// Allow-listed properties absent from the record are skipped.
func (m *Fields[T]) Match(record T, term string) bool {
	names := m.names
	if len(names) == 0 {
		names = field.Names(record)
	}
	if m.fold {
		term = strings.ToLower(term)
	}
	for _, name := range names {
		s, ok := Stringify(field.Resolve(record, name))
		if !ok {
			continue
		}
		if m.fold {
			s = strings.ToLower(s)
		}
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// Stringify renders a scalar value as text. Numbers use their shortest
// decimal form, so 5.0 renders as "5". ok is false for nil and for
// compound values such as maps, slices and structs.
func Stringify(v any) (string, bool) {
	v = field.Indirect(v)
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}
