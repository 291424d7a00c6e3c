package match

import (
	"reflect"
	"strings"
	"time"

	"github.com/kailas-cloud/sieve/pkg/field"
)

// Equal reports exact value equality between two resolved values.
//
// Nil equals only nil. Numbers compare by value across Go numeric kinds, so
// an int literal equals the float64 a JSON decoder produced. Strings and
// bools compare by value (named types included), times with time.Time.Equal.
// Any other pair is equal only when both dynamic types are identical and
// both values are comparable, so structs holding slices in interface fields
// are unequal rather than panicking. Compound values are never compared
// structurally.
func Equal(a, b any) bool {
	a, b = field.Indirect(a), field.Indirect(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if cmp, ok := Compare(a, b); ok {
		return cmp == 0
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// Compare orders two non-nil values by the natural order of their common
// type: numbers numerically, strings lexicographically, bools false before
// true, times chronologically. ok is false when the values have no common
// order; callers treat that as "does not match".
func Compare(a, b any) (cmp int, ok bool) {
	a, b = field.Indirect(a), field.Indirect(b)
	if a == nil || b == nil {
		return 0, false
	}

	if ta, isTime := a.(time.Time); isTime {
		tb, isTime := b.(time.Time)
		if !isTime {
			return 0, false
		}
		return ta.Compare(tb), true
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isNumber(va) && isNumber(vb):
		return compareNumbers(va, vb), true
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		return strings.Compare(va.String(), vb.String()), true
	case va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool:
		return compareBools(va.Bool(), vb.Bool()), true
	default:
		return 0, false
	}
}

// Text returns v as a string when it is textual (any string kind).
func Text(v any) (string, bool) {
	v = field.Indirect(v)
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func compareNumbers(a, b reflect.Value) int {
	// Stay in integer space when both sides are integers so large ids keep precision.
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return three(ai < bi, ai > bi)
		}
	}
	if au, ok := asUint(a); ok {
		if bu, ok := asUint(b); ok {
			return three(au < bu, au > bu)
		}
	}
	af, bf := asFloat(a), asFloat(b)
	return three(af < bf, af > bf)
}

func asInt(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	default:
		return 0, false
	}
}

func asUint(v reflect.Value) (uint64, bool) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true
	default:
		return 0, false
	}
}

func asFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint())
	default:
		return float64(v.Int())
	}
}

func compareBools(a, b bool) int {
	return three(!a && b, a && !b)
}

func three(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}
