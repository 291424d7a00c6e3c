// Package source defines the data source contract and an in-memory
// implementation that runs the search, filter, sort and paginate pipeline.
package source

import (
	"context"

	"github.com/kailas-cloud/sieve/pkg/request"
)

// DataSource counts and retrieves records for a request.
type DataSource[T any] interface {
	// Count returns how many records match the request's search and filter.
	// Paging and sorting are ignored.
	Count(ctx context.Context, req request.Request) (int, error)
	// Retrieve returns the requested page of matching records in sort order.
	Retrieve(ctx context.Context, req request.Request) ([]T, error)
}

// Collection is the data owned by a source. It is resolved on every call
// and never cached, so a deferred collection sees fresh data each time.
type Collection[T any] struct {
	resolve func(ctx context.Context) ([]T, error)
}

// Resolved wraps data that is already available.
func Resolved[T any](items []T) Collection[T] {
	return Collection[T]{resolve: func(context.Context) ([]T, error) { return items, nil }}
}

// Deferred wraps data produced by fn on each call.
func Deferred[T any](fn func(ctx context.Context) ([]T, error)) Collection[T] {
	return Collection[T]{resolve: fn}
}

// Failed is a collection that always resolves to err.
func Failed[T any](err error) Collection[T] {
	return Collection[T]{resolve: func(context.Context) ([]T, error) { return nil, err }}
}

// Resolve produces the collection's items. The zero Collection is empty.
func (c Collection[T]) Resolve(ctx context.Context) ([]T, error) {
	if c.resolve == nil {
		return nil, nil
	}
	return c.resolve(ctx)
}
