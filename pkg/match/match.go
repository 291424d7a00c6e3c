// Package match evaluates filter trees and search terms against records.
//
// A Matcher is a strategy: the data source is configured with one matcher
// for search terms and one for filter trees. When none is configured the
// identity strategy All is used, so an absent strategy never excludes data.
package match

import (
	"strings"

	"github.com/kailas-cloud/sieve/pkg/field"
	"github.com/kailas-cloud/sieve/pkg/filter"
)

// Matcher decides whether a record satisfies some criteria.
type Matcher[T, C any] interface {
	Match(record T, criteria C) bool
}

// Func adapts a function to the Matcher interface.
type Func[T, C any] func(record T, criteria C) bool

// Match calls f.
func (f Func[T, C]) Match(record T, criteria C) bool { return f(record, criteria) }

type all[T, C any] struct{}

func (all[T, C]) Match(T, C) bool { return true }

// All returns the identity strategy: every record matches.
func All[T, C any]() Matcher[T, C] { return all[T, C]{} }

// Fields evaluates filter trees against records, resolving each node's
// subject with the field package.
type Fields[T any] struct{}

// NewFields creates the filter-tree matcher.
func NewFields[T any]() Fields[T] { return Fields[T]{} }

// Match reports whether record satisfies f. A nil filter matches everything.
func (m Fields[T]) Match(record T, f filter.Filter) bool {
	return Evaluate(record, f)
}

// Evaluate reports whether record satisfies f. A nil filter matches everything.
// Pointer nodes are evaluated like their values.
func Evaluate(record any, f filter.Filter) bool {
	switch n := filter.Deref(f).(type) {
	case nil:
		return true
	case filter.Unary:
		return unary(record, n)
	case filter.Binary:
		return binary(record, n)
	case filter.Collection:
		return collection(record, n)
	case filter.Logic:
		return logic(record, n)
	default:
		return false
	}
}

func unary(record any, n filter.Unary) bool {
	isNull := field.IsNil(field.Resolve(record, n.Subject()))
	switch n.Operator() {
	case filter.IsNull:
		return isNull
	case filter.IsNotNull:
		return !isNull
	default:
		return false
	}
}

func binary(record any, n filter.Binary) bool {
	actual := field.Resolve(record, n.Subject())
	expected := n.Value()

	switch n.Operator() {
	case filter.Equal:
		return Equal(actual, expected)
	case filter.NotEqual:
		return !Equal(actual, expected)
	case filter.Like:
		a, okA := Text(actual)
		e, okE := Text(expected)
		return okA && okE && strings.Contains(a, e)
	}

	cmp, ok := Compare(actual, expected)
	if !ok {
		return false
	}
	switch n.Operator() {
	case filter.GreaterThan:
		return cmp > 0
	case filter.GreaterThanEqualTo:
		return cmp >= 0
	case filter.LessThan:
		return cmp < 0
	case filter.LessThanEqualTo:
		return cmp <= 0
	default:
		return false
	}
}

func collection(record any, n filter.Collection) bool {
	actual := field.Resolve(record, n.Subject())
	found := false
	for i := 0; i < n.Len() && !found; i++ {
		found = Equal(actual, n.At(i))
	}
	switch n.Operator() {
	case filter.In:
		return found
	case filter.NotIn:
		return !found
	default:
		return false
	}
}

func logic(record any, n filter.Logic) bool {
	switch n.Operator() {
	case filter.And:
		for i := 0; i < n.Len(); i++ {
			if !Evaluate(record, n.At(i)) {
				return false
			}
		}
		return true
	case filter.Or:
		for i := 0; i < n.Len(); i++ {
			if Evaluate(record, n.At(i)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

type optional[T, C any] struct {
	inner Matcher[T, C]
}

func (m optional[T, C]) Match(record T, criteria *C) bool {
	if criteria == nil {
		return true
	}
	return m.inner.Match(record, *criteria)
}

// Optional adapts m to accept absent criteria. A nil criteria matches
// every record; otherwise the call is forwarded to m.
func Optional[T, C any](m Matcher[T, C]) Matcher[T, *C] {
	return optional[T, C]{inner: m}
}
