// Package request describes what a consumer asks of a data source: which
// page, how large, and how the data is searched, filtered and sorted.
package request

import (
	"slices"

	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/order"
)

// FirstPage is the page returned when none is requested.
const FirstPage = 1

// Request is an immutable data request. The zero value asks for the whole
// data set on a single page.
type Request struct {
	page      int
	size      int
	bounded   bool
	search    string
	hasSearch bool
	filter    filter.Filter
	sort      []order.Key
}

// Page returns the one-based page number.
func (r Request) Page() int {
	if r.page < FirstPage {
		return FirstPage
	}
	return r.page
}

// Size returns the page size. ok is false when the size is unbounded.
func (r Request) Size() (size int, ok bool) { return r.size, r.bounded }

// Search returns the search term. ok is false when no search was requested.
func (r Request) Search() (term string, ok bool) { return r.search, r.hasSearch }

// Filter returns the filter tree, or nil.
func (r Request) Filter() filter.Filter { return r.filter }

// Sort returns a copy of the sort keys in priority order.
func (r Request) Sort() []order.Key { return slices.Clone(r.sort) }

// Builder assembles a Request.
type Builder struct {
	req Request
}

// NewBuilder starts an empty request: page 1, unbounded size.
func NewBuilder() *Builder { return &Builder{} }

// Page sets the page number. Values below 1 are clamped to 1.
func (b *Builder) Page(page int) *Builder {
	b.req.page = max(page, FirstPage)
	return b
}

// ClearPage resets the page to the default.
func (b *Builder) ClearPage() *Builder {
	b.req.page = 0
	return b
}

// Size sets the page size. Negative values are clamped to 0.
func (b *Builder) Size(size int) *Builder {
	b.req.size = max(size, 0)
	b.req.bounded = true
	return b
}

// Unbounded removes the page size limit.
func (b *Builder) Unbounded() *Builder {
	b.req.size, b.req.bounded = 0, false
	return b
}

// Search sets the search term.
func (b *Builder) Search(term string) *Builder {
	b.req.search, b.req.hasSearch = term, true
	return b
}

// ClearSearch removes the search term.
func (b *Builder) ClearSearch() *Builder {
	b.req.search, b.req.hasSearch = "", false
	return b
}

// Filter sets the filter tree. Nil removes it.
func (b *Builder) Filter(f filter.Filter) *Builder {
	b.req.filter = filter.Clone(f)
	return b
}

// Sort replaces the sort keys.
func (b *Builder) Sort(keys ...order.Key) *Builder {
	b.req.sort = slices.Clone(keys)
	return b
}

// Copy replaces the builder state with r.
func (b *Builder) Copy(r Request) *Builder {
	b.req = clone(r)
	return b
}

// Build returns an independent snapshot of the request.
func (b *Builder) Build() Request {
	return clone(b.req)
}

func clone(r Request) Request {
	r.filter = filter.Clone(r.filter)
	r.sort = slices.Clone(r.sort)
	return r
}
