package query

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/domain"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/metrics"
	"github.com/kailas-cloud/sieve/pkg/request"
	"github.com/kailas-cloud/sieve/pkg/source"
)

const (
	opCount    = "count"
	opRetrieve = "retrieve"
)

// Instrumented wraps a data source with query metrics and logging.
type Instrumented struct {
	inner   source.DataSource[domain.Record]
	dataset string
	logger  *zap.Logger
}

var _ source.DataSource[domain.Record] = (*Instrumented)(nil)

// NewInstrumented wraps inner, labelling observations with the dataset name.
func NewInstrumented(
	inner source.DataSource[domain.Record], dataset string, logger *zap.Logger,
) *Instrumented {
	return &Instrumented{inner: inner, dataset: dataset, logger: logger}
}

// Count delegates to the inner source and records the outcome.
func (i *Instrumented) Count(ctx context.Context, req request.Request) (int, error) {
	start := time.Now()
	n, err := i.inner.Count(ctx, req)
	i.observe(opCount, start, err)
	if err != nil {
		return 0, err //nolint:wrapcheck // decorator is transparent
	}
	return n, nil
}

// Retrieve delegates to the inner source and records the outcome and page size.
func (i *Instrumented) Retrieve(ctx context.Context, req request.Request) ([]domain.Record, error) {
	start := time.Now()
	items, err := i.inner.Retrieve(ctx, req)
	i.observe(opRetrieve, start, err)
	if err != nil {
		return nil, err //nolint:wrapcheck // decorator is transparent
	}
	metrics.QueryResultItems.WithLabelValues(i.dataset).Observe(float64(len(items)))
	return items, nil
}

func (i *Instrumented) observe(op string, start time.Time, err error) {
	duration := time.Since(start)

	status := metrics.StatusOK
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = metrics.StatusCanceled
		i.logger.Debug("Query canceled",
			logpkg.Dataset(i.dataset),
			zap.String("op", op),
			zap.Duration("duration", duration),
		)
	case err != nil:
		status = metrics.StatusError
		i.logger.Error("Query failed",
			logpkg.Dataset(i.dataset),
			zap.String("op", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	default:
		i.logger.Debug("Query completed",
			logpkg.Dataset(i.dataset),
			zap.String("op", op),
			zap.Duration("duration", duration),
		)
	}

	metrics.QueryRequestsTotal.WithLabelValues(i.dataset, op, status).Inc()
	metrics.QueryDuration.WithLabelValues(i.dataset, op).Observe(duration.Seconds())
}
