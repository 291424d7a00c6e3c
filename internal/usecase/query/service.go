package query

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve"
	"github.com/kailas-cloud/sieve/internal/domain"
	domds "github.com/kailas-cloud/sieve/internal/domain/dataset"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/metrics"
	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/request"
	"github.com/kailas-cloud/sieve/pkg/search"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// Page is one page of dataset records with the total match count.
type Page = sieve.Page[domain.Record]

type entry struct {
	dataset domds.Dataset
	loader  Loader
	src     source.DataSource[domain.Record]
}

// Service runs queries against a registry of named datasets.
type Service struct {
	mu       sync.RWMutex
	datasets map[string]entry
	logger   *zap.Logger
}

// New creates an empty query service.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{datasets: make(map[string]entry), logger: logger}
}

// Register adds a dataset backed by loader. Names must be unique.
func (s *Service) Register(ds domds.Dataset, loader Loader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[ds.Name()]; ok {
		return fmt.Errorf("dataset %s: already registered", ds.Name())
	}

	fields := search.NewFields[domain.Record](ds.SearchFields()...)
	if ds.SearchIgnoresCase() {
		fields = fields.IgnoringCase()
	}
	logger := s.logger.With(logpkg.Dataset(ds.Name()))
	idx := sieve.NewDeferredIndex(loader.Collection(),
		sieve.WithSearch[domain.Record](fields),
		sieve.WithDelay[domain.Record](ds.Delay()),
		sieve.WithLogger[domain.Record](logger),
	)

	s.datasets[ds.Name()] = entry{
		dataset: ds,
		loader:  loader,
		src:     NewInstrumented(idx, ds.Name(), s.logger),
	}
	return nil
}

// Datasets returns the registered datasets ordered by name.
func (s *Service) Datasets() []domds.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domds.Dataset, 0, len(s.datasets))
	for _, e := range s.datasets {
		out = append(out, e.dataset)
	}
	slices.SortFunc(out, func(a, b domds.Dataset) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// Get returns the named dataset.
func (s *Service) Get(name string) (domds.Dataset, error) {
	e, err := s.lookup(name)
	if err != nil {
		return domds.Dataset{}, err
	}
	return e.dataset, nil
}

// Count returns the number of records in the dataset matching req.
func (s *Service) Count(ctx context.Context, name string, req request.Request) (int, error) {
	e, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	n, err := e.src.Count(ctx, scoped(e.dataset, req))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

// Retrieve returns the requested page of matching records.
func (s *Service) Retrieve(ctx context.Context, name string, req request.Request) ([]domain.Record, error) {
	e, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	items, err := e.src.Retrieve(ctx, scoped(e.dataset, req))
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", name, err)
	}
	return items, nil
}

// Page counts and retrieves concurrently. Either failure fails the page.
func (s *Service) Page(ctx context.Context, name string, req request.Request) (Page, error) {
	e, err := s.lookup(name)
	if err != nil {
		return Page{}, err
	}
	page, err := sieve.Query(e.src).From(scoped(e.dataset, req)).Do(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("page %s: %w", name, err)
	}
	return page, nil
}

// Probe resolves the dataset's records without querying them and records
// the record count.
func (s *Service) Probe(ctx context.Context, name string) error {
	e, err := s.lookup(name)
	if err != nil {
		return err
	}
	items, err := e.loader.Collection().Resolve(ctx)
	if err != nil {
		return fmt.Errorf("probe %s: %w", name, err)
	}
	metrics.DatasetRecords.WithLabelValues(name).Set(float64(len(items)))
	return nil
}

func (s *Service) lookup(name string) (entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.datasets[name]
	if !ok {
		return entry{}, fmt.Errorf("%s: %w", name, domain.ErrDatasetNotFound)
	}
	return e, nil
}

// scoped narrows req to the dataset's scope filter.
func scoped(ds domds.Dataset, req request.Request) request.Request {
	if ds.Scope() == nil {
		return req
	}
	return request.NewBuilder().
		Copy(req).
		Filter(filter.AllOf(ds.Scope(), req.Filter())).
		Build()
}
