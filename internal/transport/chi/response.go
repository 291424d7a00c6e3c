package chi

import (
	"net/http"

	"github.com/goccy/go-json"

	domds "github.com/kailas-cloud/sieve/internal/domain/dataset"
	queryuc "github.com/kailas-cloud/sieve/internal/usecase/query"
	"github.com/kailas-cloud/sieve/pkg/filter"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInvalidQuery       ErrorCode = "invalid_query"
	CodeDatasetNotFound    ErrorCode = "dataset_not_found"
	CodeDatasetUnavailable ErrorCode = "dataset_unavailable"
	CodeInvalidDataset     ErrorCode = "invalid_dataset"
	CodeTimeout            ErrorCode = "timeout"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DatasetResponse describes a dataset.
type DatasetResponse struct {
	Name         string       `json:"name"`
	Kind         string       `json:"kind"`
	SearchFields []string     `json:"search_fields,omitempty"`
	IgnoreCase   bool         `json:"search_ignore_case,omitempty"`
	Scope        *filter.Spec `json:"scope,omitempty"`
	DelayMs      int64        `json:"delay_ms,omitempty"`
}

// DatasetListResponse lists datasets.
type DatasetListResponse struct {
	Items []DatasetResponse `json:"items"`
}

// PageResponse is one page of dataset items.
type PageResponse struct {
	Items   []map[string]any `json:"items"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
	HasMore bool             `json:"has_more"`
}

// CountResponse carries a match count.
type CountResponse struct {
	Count int `json:"count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func datasetToResponse(ds domds.Dataset) DatasetResponse {
	resp := DatasetResponse{
		Name:         ds.Name(),
		Kind:         string(ds.Kind()),
		SearchFields: ds.SearchFields(),
		IgnoreCase:   ds.SearchIgnoresCase(),
		DelayMs:      ds.Delay().Milliseconds(),
	}
	if scope := ds.Scope(); scope != nil {
		spec := filter.ToSpec(scope)
		resp.Scope = &spec
	}
	return resp
}

func pageToResponse(p queryuc.Page) PageResponse {
	items := make([]map[string]any, len(p.Items))
	for i, r := range p.Items {
		items[i] = r
	}
	return PageResponse{
		Items:   items,
		Total:   p.Total,
		Page:    p.Page,
		Size:    p.Size,
		HasMore: p.HasMore(),
	}
}
