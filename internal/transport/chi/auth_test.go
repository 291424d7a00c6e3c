package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys pass through", nil, "/datasets", "", http.StatusOK},
		{"empty string keys pass through", []string{"", ""}, "/datasets", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/datasets", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/datasets", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"invalid token", []string{"secret"}, "/datasets/heroes/items", "Bearer wrong-key", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "/datasets/heroes/items", "Bearer secret", http.StatusOK},
		{"second key", []string{"key1", "key2"}, "/datasets", "Bearer key2", http.StatusOK},
		{"lowercase scheme", []string{"secret"}, "/datasets", "bearer secret", http.StatusOK},
		{"scheme without token", []string{"secret"}, "/datasets", "Bearer", http.StatusUnauthorized},
		{"key prefix rejected", []string{"secret"}, "/datasets", "Bearer secre", http.StatusUnauthorized},
		{"health exempt", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics exempt", []string{"secret"}, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tt.keys)(okHandler())

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_ErrorBody(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	req := httptest.NewRequest("GET", "/datasets", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != CodeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, CodeUnauthorized)
	}
	if errResp.Message != "missing authorization header" {
		t.Errorf("message: got %q", errResp.Message)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got != `Bearer realm="sieve"` {
		t.Errorf("WWW-Authenticate = %q", got)
	}
}
