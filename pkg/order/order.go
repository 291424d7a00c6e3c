// Package order defines sort keys and the stable multi-key comparator used
// by data sources.
package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/sieve/pkg/field"
	"github.com/kailas-cloud/sieve/pkg/match"
)

// ErrInvalidSort is returned when a textual sort list cannot be parsed.
var ErrInvalidSort = errors.New("invalid sort")

// Direction of a sort key.
type Direction string

// Directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Key orders records by the value at a subject path.
type Key struct {
	subject   string
	direction Direction
}

// NewKey creates a key. Any direction other than Descending is ascending.
func NewKey(subject string, direction Direction) Key {
	if direction != Descending {
		direction = Ascending
	}
	return Key{subject: subject, direction: direction}
}

// Subject returns the dotted path; empty means the record itself.
func (k Key) Subject() string { return k.subject }

// Direction returns the key's direction.
func (k Key) Direction() Direction {
	if k.direction == "" {
		return Ascending
	}
	return k.direction
}

// String renders the key in the form accepted by Parse.
func (k Key) String() string {
	if k.Direction() == Descending {
		return "-" + k.subject
	}
	return k.subject
}

// Builder accumulates sort keys in priority order.
type Builder struct {
	keys []Key
}

// NewBuilder starts an empty key list.
func NewBuilder() *Builder { return &Builder{} }

// Ascending appends an ascending key.
func (b *Builder) Ascending(subject string) *Builder {
	b.keys = append(b.keys, NewKey(subject, Ascending))
	return b
}

// Descending appends a descending key.
func (b *Builder) Descending(subject string) *Builder {
	b.keys = append(b.keys, NewKey(subject, Descending))
	return b
}

// Sort appends existing keys.
func (b *Builder) Sort(keys ...Key) *Builder {
	b.keys = append(b.keys, keys...)
	return b
}

// Build returns an independent copy of the key list.
func (b *Builder) Build() []Key {
	return slices.Clone(b.keys)
}

// Compare orders a and b by keys in priority order. A missing value sorts
// before a present one in either direction. Values without a common order
// tie. The first non-zero key decides.
func Compare(a, b any, keys []Key) int {
	for _, k := range keys {
		va, vb := field.Resolve(a, k.subject), field.Resolve(b, k.subject)
		nilA, nilB := field.IsNil(va), field.IsNil(vb)

		switch {
		case nilA && nilB:
			continue
		case nilA:
			return -1
		case nilB:
			return 1
		}

		cmp, ok := match.Compare(va, vb)
		if !ok || cmp == 0 {
			continue
		}
		if k.Direction() == Descending {
			return -cmp
		}
		return cmp
	}
	return 0
}

// Stable returns a copy of items sorted by keys. Records that tie on every
// key keep their relative order. With no keys the copy is in input order.
func Stable[T any](items []T, keys []Key) []T {
	out := slices.Clone(items)
	if len(keys) == 0 || len(out) < 2 {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return Compare(a, b, keys)
	})
	return out
}

// Parse reads a comma separated sort list such as "name,-id,+age" or
// "name asc, id desc". A leading '-' or a trailing "desc" selects
// descending order.
func Parse(input string) ([]Key, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	parts := strings.Split(input, ",")
	keys := make([]Key, 0, len(parts))
	for _, part := range parts {
		k, err := parseKey(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func parseKey(part string) (Key, error) {
	direction := Ascending
	switch {
	case strings.HasPrefix(part, "-"):
		direction, part = Descending, part[1:]
	case strings.HasPrefix(part, "+"):
		part = part[1:]
	}

	fields := strings.Fields(part)
	switch len(fields) {
	case 1:
	case 2:
		switch strings.ToLower(fields[1]) {
		case "asc":
			direction = Ascending
		case "desc":
			direction = Descending
		default:
			return Key{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, fields[1])
		}
	default:
		return Key{}, fmt.Errorf("%w: malformed key %q", ErrInvalidSort, part)
	}
	return NewKey(fields[0], direction), nil
}
