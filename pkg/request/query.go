package request

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/sieve/pkg/field"
	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/order"
)

// Query parameter names.
const (
	ParamPage   = "page"
	ParamSize   = "size"
	ParamSearch = "search"
	ParamFilter = "filter"
	ParamSort   = "sort"
)

// Query is a request as it appears in URL query parameters. Nil fields
// were not supplied.
type Query struct {
	Page   *string
	Size   *string
	Search *string
	Filter *string
	Sort   *string
}

// FromValues extracts a Query from URL values. Only the first value of
// each parameter is used.
func FromValues(values url.Values) Query {
	get := func(key string) *string {
		if !values.Has(key) {
			return nil
		}
		v := values.Get(key)
		return &v
	}
	return Query{
		Page:   get(ParamPage),
		Size:   get(ParamSize),
		Search: get(ParamSearch),
		Filter: get(ParamFilter),
		Sort:   get(ParamSort),
	}
}

// Query applies the page, size and search parameters of q. A page or size
// that is not a number leaves the current value in place. An infinite size
// makes the request unbounded.
func (b *Builder) Query(q Query) *Builder {
	if q.Page != nil {
		if page, ok := number(*q.Page); ok {
			b.Page(page)
		}
	}
	if q.Size != nil {
		if size, ok := number(*q.Size); ok {
			if size == math.MaxInt && infinite(*q.Size) {
				b.Unbounded()
			} else {
				b.Size(size)
			}
		}
	}
	if q.Search != nil {
		b.Search(*q.Search)
	}
	return b
}

// Parse builds a request from q. Page, size and search are applied as by
// Builder.Query. The filter may be textual (see filter.Parse) or a JSON
// document (see filter.Decode); the sort uses order.Parse. Malformed filter
// or sort parameters are reported as errors.
func Parse(q Query) (Request, error) {
	b := NewBuilder().Query(q)

	if q.Filter != nil {
		f, err := ParseFilter(*q.Filter)
		if err != nil {
			return Request{}, err
		}
		b.Filter(f)
	}

	if q.Sort != nil {
		keys, err := order.Parse(*q.Sort)
		if err != nil {
			return Request{}, fmt.Errorf("parse sort: %w", err)
		}
		b.Sort(keys...)
	}

	return b.Build(), nil
}

// ParseFilter reads a filter parameter. Input starting with '{' is decoded
// as a JSON filter document, anything else as a textual filter.
func ParseFilter(input string) (filter.Filter, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "{") {
		f, err := filter.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("parse filter: %w", err)
		}
		return f, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(input)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	f, err := filter.Decode(field.Numbers(raw))
	if err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	return f, nil
}

// number parses a page or size. Fractions are truncated and values beyond
// the int range saturate.
func number(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(f) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	default:
		return int(f), true
	}
}

func infinite(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && math.IsInf(f, 1)
}
