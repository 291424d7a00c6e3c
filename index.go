// Package sieve queries in-memory collections with search, filter trees,
// multi-key sorting and pagination.
//
//	idx := sieve.NewIndex(heroes, sieve.WithSearchFields[Hero]("name", "alias"))
//	page, err := sieve.Query[Hero](idx).
//		Search("man").
//		Sort(order.NewBuilder().Ascending("name").Build()...).
//		Page(1).Size(20).
//		Do(ctx)
package sieve

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/sieve/pkg/match"
	"github.com/kailas-cloud/sieve/pkg/request"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// Index is an in-memory data source over a fixed slice of records.
type Index[T any] struct {
	src *source.Static[T]
}

var _ source.DataSource[any] = (*Index[any])(nil)

// NewIndex creates an index over items. Filter trees are evaluated against
// record fields; search terms match everything unless a search option is
// given.
func NewIndex[T any](items []T, opts ...Option[T]) *Index[T] {
	return NewDeferredIndex(source.Resolved(items), opts...)
}

// NewDeferredIndex creates an index whose records are resolved on every call.
func NewDeferredIndex[T any](data source.Collection[T], opts ...Option[T]) *Index[T] {
	cfg := &indexConfig[T]{filter: match.NewFields[T]()}
	for _, o := range opts {
		o(cfg)
	}

	options := source.NewOptions[T]().
		Delay(cfg.delay).
		Search(cfg.search).
		Filter(cfg.filter).
		Logger(cfg.logger).
		Build()
	return &Index[T]{src: source.NewStatic(data, options)}
}

// Count returns the number of records matching the request.
func (idx *Index[T]) Count(ctx context.Context, req request.Request) (int, error) {
	n, err := idx.src.Count(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Retrieve returns the requested page of matching records.
func (idx *Index[T]) Retrieve(ctx context.Context, req request.Request) ([]T, error) {
	items, err := idx.src.Retrieve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	return items, nil
}

// Query returns a fluent query builder for this index.
func (idx *Index[T]) Query() *QueryBuilder[T] {
	return Query[T](idx)
}
