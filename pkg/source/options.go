package source

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/match"
)

// Options configures a Static source. Build one with OptionsBuilder.
type Options[T any] struct {
	delay  time.Duration
	search match.Matcher[T, string]
	filter match.Matcher[T, filter.Filter]
	logger *zap.Logger
}

// Delay returns the latency added to every call.
func (o Options[T]) Delay() time.Duration { return o.delay }

// Search returns the search strategy. It is never nil.
func (o Options[T]) Search() match.Matcher[T, string] {
	if o.search == nil {
		return match.All[T, string]()
	}
	return o.search
}

// Filter returns the filter strategy. It is never nil.
func (o Options[T]) Filter() match.Matcher[T, filter.Filter] {
	if o.filter == nil {
		return match.All[T, filter.Filter]()
	}
	return o.filter
}

// Logger returns the configured logger. It is never nil.
func (o Options[T]) Logger() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// OptionsBuilder assembles Options. Unset strategies match everything.
type OptionsBuilder[T any] struct {
	opts Options[T]
}

// NewOptions starts options with no delay and identity strategies.
func NewOptions[T any]() *OptionsBuilder[T] { return &OptionsBuilder[T]{} }

// Delay sets the latency added to every call. Negative values mean none.
func (b *OptionsBuilder[T]) Delay(d time.Duration) *OptionsBuilder[T] {
	b.opts.delay = max(d, 0)
	return b
}

// Search sets the search strategy. Nil restores the identity strategy.
func (b *OptionsBuilder[T]) Search(m match.Matcher[T, string]) *OptionsBuilder[T] {
	b.opts.search = m
	return b
}

// Filter sets the filter strategy. Nil restores the identity strategy.
func (b *OptionsBuilder[T]) Filter(m match.Matcher[T, filter.Filter]) *OptionsBuilder[T] {
	b.opts.filter = m
	return b
}

// Logger sets the logger used for pipeline diagnostics.
func (b *OptionsBuilder[T]) Logger(l *zap.Logger) *OptionsBuilder[T] {
	b.opts.logger = l
	return b
}

// Build returns the options.
func (b *OptionsBuilder[T]) Build() Options[T] {
	return b.opts
}
