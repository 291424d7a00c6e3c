package sieve

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/match"
	"github.com/kailas-cloud/sieve/pkg/search"
)

// Option configures an Index.
type Option[T any] func(*indexConfig[T])

type indexConfig[T any] struct {
	delay  time.Duration
	search match.Matcher[T, string]
	filter match.Matcher[T, filter.Filter]
	logger *zap.Logger
}

// WithTextSearch matches search terms against the string form of each
// record. Use it for collections of scalars.
func WithTextSearch[T any]() Option[T] {
	return func(c *indexConfig[T]) {
		c.search = search.NewText[T]()
	}
}

// WithSearchFields matches search terms against the named properties of
// each record. With no names every property is scanned.
func WithSearchFields[T any](names ...string) Option[T] {
	return func(c *indexConfig[T]) {
		c.search = search.NewFields[T](names...)
	}
}

// WithSearch sets a custom search strategy.
func WithSearch[T any](m match.Matcher[T, string]) Option[T] {
	return func(c *indexConfig[T]) {
		c.search = m
	}
}

// WithFilter sets a custom filter strategy. By default filter trees are
// evaluated against record fields.
func WithFilter[T any](m match.Matcher[T, filter.Filter]) Option[T] {
	return func(c *indexConfig[T]) {
		c.filter = m
	}
}

// WithDelay adds latency to every call.
func WithDelay[T any](d time.Duration) Option[T] {
	return func(c *indexConfig[T]) {
		c.delay = d
	}
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(c *indexConfig[T]) {
		c.logger = l
	}
}
