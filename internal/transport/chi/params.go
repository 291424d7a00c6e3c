package chi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/order"
	"github.com/kailas-cloud/sieve/pkg/request"
)

// Limits bounds page sizes requested over HTTP.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// QueryBody is the body of POST /datasets/{name}/query. Filter is either a
// filter document or a textual expression string.
type QueryBody struct {
	Page   *int            `json:"page"`
	Size   *int            `json:"size"`
	Search *string         `json:"search"`
	Filter json.RawMessage `json:"filter"`
	Sort   string          `json:"sort"`
}

// fromQuery builds a request from URL query parameters. Unparseable page
// and size values are ignored; malformed filter or sort values are errors.
func (l Limits) fromQuery(r *http.Request) (request.Request, error) {
	q := request.FromValues(r.URL.Query())
	b := request.NewBuilder().Size(l.DefaultPageSize).Query(q)

	if q.Filter != nil {
		f, err := request.ParseFilter(*q.Filter)
		if err != nil {
			return request.Request{}, domain.NewInvalidQuery(request.ParamFilter, err)
		}
		b.Filter(f)
	}
	if q.Sort != nil {
		if err := sortBy(b, *q.Sort); err != nil {
			return request.Request{}, err
		}
	}
	return l.clamp(b), nil
}

// fromBody builds a request from a JSON query body.
func (l Limits) fromBody(r *http.Request) (request.Request, error) {
	var body QueryBody
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return request.Request{}, fmt.Errorf("%w: invalid request body: %w", domain.ErrInvalidQuery, err)
		}
	}

	b := request.NewBuilder().Size(l.DefaultPageSize)
	if body.Page != nil {
		b.Page(*body.Page)
	}
	if body.Size != nil {
		b.Size(*body.Size)
	}
	if body.Search != nil {
		b.Search(*body.Search)
	}
	f, err := bodyFilter(body.Filter)
	if err != nil {
		return request.Request{}, domain.NewInvalidQuery(request.ParamFilter, err)
	}
	b.Filter(f)
	if body.Sort != "" {
		if err := sortBy(b, body.Sort); err != nil {
			return request.Request{}, err
		}
	}
	return l.clamp(b), nil
}

// clamp caps the page size at MaxPageSize. Unbounded requests are capped too.
func (l Limits) clamp(b *request.Builder) request.Request {
	if size, ok := b.Build().Size(); l.MaxPageSize > 0 && (!ok || size > l.MaxPageSize) {
		b.Size(l.MaxPageSize)
	}
	return b.Build()
}

func sortBy(b *request.Builder, input string) error {
	keys, err := order.Parse(input)
	if err != nil {
		return domain.NewInvalidQuery(request.ParamSort, err)
	}
	b.Sort(keys...)
	return nil
}

func bodyFilter(raw json.RawMessage) (filter.Filter, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var expr string
		if err := json.Unmarshal(raw, &expr); err != nil {
			return nil, fmt.Errorf("decode filter: %w", err)
		}
		return request.ParseFilter(expr)
	}
	return request.ParseFilter(string(raw))
}
