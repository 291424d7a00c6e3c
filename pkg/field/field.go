// Package field resolves dotted property paths against arbitrary records.
//
// A record may be a map with string keys, a struct (or pointer to one), a slice
// or any scalar. Resolution never fails: a missing property or a nil
// intermediate value yields nil, which the match engine and the sort
// comparator treat as "no value".
package field

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Separator delimits property names in a path.
const Separator = "."

// Resolve walks path against record and returns the value found there.
// An empty path returns the record itself (self mode).
func Resolve(record any, path string) any {
	if path == "" {
		return record
	}

	current := record
	for _, segment := range strings.Split(path, Separator) {
		if IsNil(current) {
			return nil
		}
		next, ok := property(reflect.ValueOf(current), segment)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// IsNil reports whether v holds no value: untyped nil or a nil pointer, map,
// slice, interface, func or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Indirect unwraps pointers and interfaces down to the underlying value.
// It returns nil when a nil pointer is encountered.
func Indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// Names lists the own enumerable property names of record: sorted keys for
// string-keyed maps, exported field names (json tag first) for structs.
// Any other record has no properties.
func Names(record any) []string {
	rv := indirectValue(reflect.ValueOf(record))
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		names := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			names = append(names, iter.Key().String())
		}
		sort.Strings(names)
		return names
	case reflect.Struct:
		t := rv.Type()
		names := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, skip := fieldName(f)
			if skip {
				continue
			}
			names = append(names, name)
		}
		return names
	default:
		return nil
	}
}

func property(rv reflect.Value, name string) (any, bool) {
	rv = indirectValue(rv)
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		return structField(rv, name)
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	default:
		return nil, false
	}
}

func structField(rv reflect.Value, name string) (any, bool) {
	t := rv.Type()
	fallback := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tagged, skip := fieldName(f)
		if skip {
			continue
		}
		if tagged == name {
			return rv.Field(i).Interface(), true
		}
		if fallback < 0 && f.Name == name {
			fallback = i
		}
	}
	if fallback >= 0 {
		return rv.Field(fallback).Interface(), true
	}
	return nil, false
}

// fieldName returns the json name of a struct field, or its Go name when untagged.
func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, false
}

func indirectValue(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
