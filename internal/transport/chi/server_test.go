package chi

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/domain"
	domds "github.com/kailas-cloud/sieve/internal/domain/dataset"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	queryuc "github.com/kailas-cloud/sieve/internal/usecase/query"
	"github.com/kailas-cloud/sieve/pkg/filter"
	"github.com/kailas-cloud/sieve/pkg/source"
)

// --- Fixtures ---

type staticLoader struct {
	coll source.Collection[domain.Record]
}

func (l staticLoader) Collection() source.Collection[domain.Record] { return l.coll }

func heroes() []domain.Record {
	return []domain.Record{
		{"id": int64(1), "name": "Bruce Wayne", "alias": "Batman"},
		{"id": int64(2), "name": "Clark Kent", "alias": "Superman"},
		{"id": int64(3), "name": "Diana Prince", "alias": "Wonder Woman"},
		{"id": int64(4), "name": "Alfred Pennyworth", "alias": nil},
		{"id": int64(5), "name": "Hal Jordan", "alias": "Green Lantern"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := queryuc.New(zap.NewNop())
	register := func(ds domds.Dataset, err error, coll source.Collection[domain.Record]) {
		t.Helper()
		if err != nil {
			t.Fatalf("dataset: %v", err)
		}
		if err := svc.Register(ds, staticLoader{coll: coll}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	ds, err := domds.New("heroes", domds.KindFile, "heroes.json", domds.WithSearchFields("name", "alias"))
	register(ds, err, source.Resolved(heroes()))

	ds, err = domds.New("active", domds.KindFile, "heroes.json",
		domds.WithScope(filter.NewUnary().Subject("alias").IsNotNull().Build()))
	register(ds, err, source.Resolved(heroes()))

	ds, err = domds.New("broken", domds.KindRedis, "datasets:broken")
	register(ds, err, source.Failed[domain.Record](
		errors.Join(domain.ErrDatasetUnavailable, errors.New("connection refused"))))

	server := NewServer(svc, healthuc.New(nil, svc), Limits{DefaultPageSize: 2, MaxPageSize: 3}, zap.NewNop())
	r := chi.NewRouter()
	server.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, params url.Values, out any) int {
	t.Helper()
	target := ts.URL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	resp, err := http.Get(target) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return decode(t, resp, out)
}

func post(t *testing.T, ts *httptest.Server, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body)) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return decode(t, resp, out)
}

func decode(t *testing.T, resp *http.Response, out any) int {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
	}
	return resp.StatusCode
}

func itemIDs(p PageResponse) []int {
	out := []int{}
	for _, item := range p.Items {
		out = append(out, int(item["id"].(float64)))
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Tests ---

func TestListDatasets(t *testing.T) {
	ts := newTestServer(t)

	var resp DatasetListResponse
	if code := get(t, ts, "/datasets", nil, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var names []string
	for _, ds := range resp.Items {
		names = append(names, ds.Name)
	}
	if strings.Join(names, ",") != "active,broken,heroes" {
		t.Errorf("names = %v", names)
	}
	if resp.Items[0].Scope == nil || resp.Items[0].Scope.Op != string(filter.IsNotNull) {
		t.Errorf("active scope = %+v", resp.Items[0].Scope)
	}
}

func TestGetDataset(t *testing.T) {
	ts := newTestServer(t)

	var ds DatasetResponse
	if code := get(t, ts, "/datasets/heroes", nil, &ds); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if ds.Kind != "file" || len(ds.SearchFields) != 2 {
		t.Errorf("dataset = %+v", ds)
	}

	var errResp ErrorResponse
	if code := get(t, ts, "/datasets/villains", nil, &errResp); code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	if errResp.Code != CodeDatasetNotFound {
		t.Errorf("code = %s", errResp.Code)
	}
}

func TestListItems(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name      string
		params    url.Values
		wantIDs   []int
		wantTotal int
		wantPage  int
		wantSize  int
		wantMore  bool
	}{
		{
			name:      "default page size",
			params:    url.Values{},
			wantIDs:   []int{1, 2},
			wantTotal: 5, wantPage: 1, wantSize: 2, wantMore: true,
		},
		{
			name:      "search and sort",
			params:    url.Values{"search": {"man"}, "sort": {"-id"}, "size": {"3"}},
			wantIDs:   []int{3, 2, 1},
			wantTotal: 3, wantPage: 1, wantSize: 3,
		},
		{
			name:      "size clamped to max",
			params:    url.Values{"size": {"500"}},
			wantIDs:   []int{1, 2, 3},
			wantTotal: 5, wantPage: 1, wantSize: 3, wantMore: true,
		},
		{
			name:      "infinite size capped at max",
			params:    url.Values{"size": {"Infinity"}},
			wantIDs:   []int{1, 2, 3},
			wantTotal: 5, wantPage: 1, wantSize: 3, wantMore: true,
		},
		{
			name:      "unparseable page ignored",
			params:    url.Values{"page": {"abc"}},
			wantIDs:   []int{1, 2},
			wantTotal: 5, wantPage: 1, wantSize: 2, wantMore: true,
		},
		{
			name:      "last page",
			params:    url.Values{"page": {"3"}},
			wantIDs:   []int{5},
			wantTotal: 5, wantPage: 3, wantSize: 2,
		},
		{
			name:      "page far past the end",
			params:    url.Values{"page": {"6148914691236517207"}, "size": {"3"}},
			wantIDs:   []int{},
			wantTotal: 5, wantPage: 6148914691236517207, wantSize: 3,
		},
		{
			name:      "textual filter",
			params:    url.Values{"filter": {"id > 2"}, "sort": {"name desc"}},
			wantIDs:   []int{5, 3},
			wantTotal: 3, wantPage: 1, wantSize: 2, wantMore: true,
		},
		{
			name:      "json filter",
			params:    url.Values{"filter": {`{"op":"in","subject":"id","values":[2,4]}`}},
			wantIDs:   []int{2, 4},
			wantTotal: 2, wantPage: 1, wantSize: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page PageResponse
			if code := get(t, ts, "/datasets/heroes/items", tt.params, &page); code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if got := itemIDs(page); !equalInts(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			if page.Total != tt.wantTotal || page.Page != tt.wantPage || page.Size != tt.wantSize {
				t.Errorf("total/page/size = %d/%d/%d", page.Total, page.Page, page.Size)
			}
			if page.HasMore != tt.wantMore {
				t.Errorf("has_more = %v, want %v", page.HasMore, tt.wantMore)
			}
		})
	}
}

func TestListItems_InvalidQuery(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		params url.Values
		param  string
	}{
		{"unsupported filter", url.Values{"filter": {"a + 1"}}, "filter"},
		{"malformed json filter", url.Values{"filter": {`{"op":`}}, "filter"},
		{"unknown operator", url.Values{"filter": {`{"op":"between"}`}}, "filter"},
		{"bad sort direction", url.Values{"sort": {"name sideways"}}, "sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			if code := get(t, ts, "/datasets/heroes/items", tt.params, &body); code != http.StatusBadRequest {
				t.Fatalf("status = %d", code)
			}
			if body["code"] != string(CodeInvalidQuery) {
				t.Errorf("code = %v", body["code"])
			}
			if body["param"] != tt.param {
				t.Errorf("param = %v, want %s", body["param"], tt.param)
			}
		})
	}
}

func TestListItems_Scoped(t *testing.T) {
	ts := newTestServer(t)

	var page PageResponse
	if code := get(t, ts, "/datasets/active/items", url.Values{"size": {"3"}, "sort": {"-id"}}, &page); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if page.Total != 4 {
		t.Errorf("total = %d, want 4", page.Total)
	}
	if got := itemIDs(page); !equalInts(got, []int{5, 3, 2}) {
		t.Errorf("ids = %v", got)
	}
}

func TestListItems_Unavailable(t *testing.T) {
	ts := newTestServer(t)

	var errResp ErrorResponse
	if code := get(t, ts, "/datasets/broken/items", nil, &errResp); code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", code)
	}
	if errResp.Code != CodeDatasetUnavailable {
		t.Errorf("code = %s", errResp.Code)
	}
	if strings.Contains(errResp.Message, "connection refused") {
		t.Error("internal error details must not leak")
	}
}

func TestCountItems(t *testing.T) {
	ts := newTestServer(t)

	var resp CountResponse
	params := url.Values{"search": {"an"}, "page": {"9"}}
	if code := get(t, ts, "/datasets/heroes/count", params, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	// "an" appears in heroes 1, 2, 3 and 5; page is irrelevant to counts.
	if resp.Count != 4 {
		t.Errorf("count = %d, want 4", resp.Count)
	}
}

func TestQueryItems(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantIDs []int
	}{
		{"empty body", "", []int{1, 2}},
		{"json filter", `{"filter":{"op":"lessThan","subject":"id","value":3},"sort":"-id"}`, []int{2, 1}},
		{"textual filter", `{"filter":"name contains \"a\"","size":3,"page":2}`, []int{5}},
		{"search", `{"search":"Lantern"}`, []int{5}},
		{"page far past the end", `{"page":9223372036854775807,"size":3}`, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page PageResponse
			if code := post(t, ts, "/datasets/heroes/query", tt.body, &page); code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if got := itemIDs(page); !equalInts(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestQueryItems_BadBody(t *testing.T) {
	ts := newTestServer(t)

	var errResp ErrorResponse
	if code := post(t, ts, "/datasets/heroes/query", `{"page":`, &errResp); code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if errResp.Code != CodeInvalidQuery {
		t.Errorf("code = %s", errResp.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	var resp HealthResponse
	if code := get(t, ts, "/health", nil, &resp); code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", code)
	}
	if resp.Status != string(healthuc.Degraded) {
		t.Errorf("status = %s", resp.Status)
	}
	if resp.Checks["dataset:heroes"] != "ok" || resp.Checks["dataset:broken"] != "error" {
		t.Errorf("checks = %v", resp.Checks)
	}
}
