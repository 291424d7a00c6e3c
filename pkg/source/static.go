package source

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/pkg/order"
	"github.com/kailas-cloud/sieve/pkg/request"
)

var _ DataSource[any] = (*Static[any])(nil)

// Static is an in-memory data source. Every call resolves the collection,
// applies the search strategy and then the filter strategy, and for
// Retrieve sorts and paginates the result. Calls share only immutable
// configuration and are safe for concurrent use.
type Static[T any] struct {
	data Collection[T]
	opts Options[T]
}

// NewStatic creates an in-memory source over data.
func NewStatic[T any](data Collection[T], opts Options[T]) *Static[T] {
	return &Static[T]{data: data, opts: opts}
}

// Count returns the number of records matching the request's search and
// filter. If the collection fails to resolve, its error is returned after
// the configured delay.
func (s *Static[T]) Count(ctx context.Context, req request.Request) (int, error) {
	items, err := s.matching(ctx, req)
	if err != nil {
		return 0, s.fail(ctx, "count", err)
	}
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	return len(items), nil
}

// Retrieve returns the requested page of matching records in sort order.
// If the collection fails to resolve, its error is returned after the
// configured delay and no records are produced.
func (s *Static[T]) Retrieve(ctx context.Context, req request.Request) ([]T, error) {
	items, err := s.matching(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, "retrieve", err)
	}

	sorted := order.Stable(items, req.Sort())
	size, bounded := req.Size()
	page := Paginate(sorted, req.Page(), size, bounded)

	s.opts.Logger().Debug("retrieve",
		zap.Int("matched", len(items)),
		zap.Int("page", req.Page()),
		zap.Int("returned", len(page)),
	)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

// matching resolves the collection and applies search then filter. The
// returned slice never aliases the collection.
func (s *Static[T]) matching(ctx context.Context, req request.Request) ([]T, error) {
	data, err := s.data.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	items := data
	if term, ok := req.Search(); ok {
		items = keep(items, func(r T) bool { return s.opts.Search().Match(r, term) })
	}
	if f := req.Filter(); f != nil {
		items = keep(items, func(r T) bool { return s.opts.Filter().Match(r, f) })
	}
	if len(items) == len(data) {
		items = append([]T(nil), items...)
	}

	s.opts.Logger().Debug("matched",
		zap.Int("total", len(data)),
		zap.Int("matched", len(items)),
	)
	return items, nil
}

func (s *Static[T]) fail(ctx context.Context, op string, err error) error {
	s.opts.Logger().Warn("collection unavailable", zap.String("op", op), zap.Error(err))
	if werr := s.wait(ctx); werr != nil {
		return werr
	}
	return err
}

// wait blocks for the configured delay or until ctx is done.
func (s *Static[T]) wait(ctx context.Context) error {
	d := s.opts.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate returns the one-based page of items. Pages past the end are
// empty. An unbounded size places every item on page 1 and leaves later
// pages empty. The result never aliases items.
func Paginate[T any](items []T, page, size int, bounded bool) []T {
	page = max(page, request.FirstPage)
	if !bounded {
		if page > request.FirstPage {
			return []T{}
		}
		return append([]T{}, items...)
	}

	// Compare page indexes before multiplying so huge pages cannot wrap.
	if size <= 0 || len(items) == 0 || page-1 > (len(items)-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := start + min(size, len(items)-start)
	return append([]T{}, items[start:end]...)
}
