package sieve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/order"
	"github.com/kailas-cloud/sieve/pkg/request"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// Page is one page of results together with the total match count.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	// Size is the requested page size, or 0 when unbounded.
	Size int
}

// HasMore reports whether pages after this one hold results.
func (p Page[T]) HasMore() bool {
	if p.Size <= 0 || p.Total <= 0 {
		return false
	}
	return p.Page <= (p.Total-1)/p.Size
}

// QueryBuilder is a fluent builder for queries against a data source.
type QueryBuilder[T any] struct {
	src source.DataSource[T]
	req *request.Builder
}

// Query starts a query against src.
func Query[T any](src source.DataSource[T]) *QueryBuilder[T] {
	return &QueryBuilder[T]{src: src, req: request.NewBuilder()}
}

// From replaces the builder's state with a copy of req.
func (b *QueryBuilder[T]) From(req request.Request) *QueryBuilder[T] {
	b.req.Copy(req)
	return b
}

// Search sets the search term.
func (b *QueryBuilder[T]) Search(term string) *QueryBuilder[T] {
	b.req.Search(term)
	return b
}

// Filter sets the filter tree.
func (b *QueryBuilder[T]) Filter(f filter.Filter) *QueryBuilder[T] {
	b.req.Filter(f)
	return b
}

// Where parses a textual filter such as `age > 30 and name contains "man"`.
func (b *QueryBuilder[T]) Where(expr string) (*QueryBuilder[T], error) {
	f, err := filter.Parse(expr)
	if err != nil {
		return b, fmt.Errorf("where: %w", err)
	}
	b.req.Filter(f)
	return b, nil
}

// Sort sets the sort keys in priority order.
func (b *QueryBuilder[T]) Sort(keys ...order.Key) *QueryBuilder[T] {
	b.req.Sort(keys...)
	return b
}

// Page sets the one-based page number.
func (b *QueryBuilder[T]) Page(page int) *QueryBuilder[T] {
	b.req.Page(page)
	return b
}

// Size sets the page size.
func (b *QueryBuilder[T]) Size(size int) *QueryBuilder[T] {
	b.req.Size(size)
	return b
}

// Request returns the request built so far.
func (b *QueryBuilder[T]) Request() request.Request {
	return b.req.Build()
}

// Count returns the number of matching records.
func (b *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	return b.src.Count(ctx, b.Request())
}

// Items returns the requested page of records.
func (b *QueryBuilder[T]) Items(ctx context.Context) ([]T, error) {
	return b.src.Retrieve(ctx, b.Request())
}

// Do runs count and retrieve concurrently and returns the page.
func (b *QueryBuilder[T]) Do(ctx context.Context) (Page[T], error) {
	req := b.Request()

	var (
		total int
		items []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := b.src.Count(gctx, req)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		page, err := b.src.Retrieve(gctx, req)
		if err != nil {
			return fmt.Errorf("retrieve: %w", err)
		}
		items = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	size, _ := req.Size()
	return Page[T]{Items: items, Total: total, Page: req.Page(), Size: size}, nil
}
