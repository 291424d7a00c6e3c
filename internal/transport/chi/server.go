// Package chi exposes datasets over HTTP with a chi router.
package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/domain"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	queryuc "github.com/kailas-cloud/sieve/internal/usecase/query"
	"github.com/kailas-cloud/sieve/pkg/request"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves dataset queries.
type Server struct {
	query         *queryuc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	query *queryuc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	s := &Server{
		query:  query,
		health: health,
		limits: limits,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		sentinelHandler(domain.ErrDatasetNotFound, http.StatusNotFound, CodeDatasetNotFound),
		sentinelHandler(domain.ErrInvalidDataset, http.StatusUnprocessableEntity, CodeInvalidDataset),
		sentinelHandler(domain.ErrDatasetUnavailable, http.StatusServiceUnavailable, CodeDatasetUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/datasets", func(r chi.Router) {
		r.Get("/", s.ListDatasets)
		r.Route("/{name}", func(r chi.Router) {
			r.Use(datasetLogger)
			r.Get("/", s.GetDataset)
			r.Get("/items", s.ListItems)
			r.Get("/count", s.CountItems)
			r.Post("/query", s.QueryItems)
		})
	})
}

// datasetLogger tags the request logger with the dataset from the path.
func datasetLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logpkg.WithDataset(r.Context(), chi.URLParam(r, "name"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListDatasets handles GET /datasets.
func (s *Server) ListDatasets(w http.ResponseWriter, _ *http.Request) {
	datasets := s.query.Datasets()
	items := make([]DatasetResponse, len(datasets))
	for i, ds := range datasets {
		items[i] = datasetToResponse(ds)
	}
	writeJSON(w, http.StatusOK, DatasetListResponse{Items: items})
}

// GetDataset handles GET /datasets/{name}.
func (s *Server) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.query.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetToResponse(ds))
}

// ListItems handles GET /datasets/{name}/items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	req, err := s.limits.fromQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.page(w, r, req)
}

// QueryItems handles POST /datasets/{name}/query.
func (s *Server) QueryItems(w http.ResponseWriter, r *http.Request) {
	req, err := s.limits.fromBody(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.page(w, r, req)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, req request.Request) {
	page, err := s.query.Page(r.Context(), chi.URLParam(r, "name"), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// CountItems handles GET /datasets/{name}/count.
func (s *Server) CountItems(w http.ResponseWriter, r *http.Request) {
	req, err := s.limits.fromQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	n, err := s.query.Count(r.Context(), chi.URLParam(r, "name"), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var iq *domain.InvalidQueryError
	if errors.As(err, &iq) {
		return iq.Error()
	}
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrDatasetNotFound,
		domain.ErrInvalidDataset,
		domain.ErrDatasetUnavailable,
		context.DeadlineExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidQueryHandler reports the offending parameter with the parse error.
func invalidQueryHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	var iq *domain.InvalidQueryError
	if errors.As(err, &iq) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    CodeInvalidQuery,
			"message": msg,
			"param":   iq.Param,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, CodeInvalidQuery, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	if errors.Is(err, context.Canceled) {
		logger.Debug("client went away", zap.Error(err))
		return
	}
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
