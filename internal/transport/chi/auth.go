package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/sieve/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// against apiKeys. If apiKeys has no non-empty key, authentication is
// disabled. Rejections carry a WWW-Authenticate challenge.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, reason := bearerToken(r.Header.Get("Authorization"))
			if reason == "" && !knownKey(keys, token) {
				reason = "invalid api key"
			}
			if reason != "" {
				logpkg.FromContext(r.Context()).Debug("request rejected", zap.String("reason", reason))
				w.Header().Set("WWW-Authenticate", `Bearer realm="sieve"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization header. The scheme
// name is case-insensitive. A non-empty reason explains a rejection.
func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	return strings.TrimSpace(token), ""
}

// knownKey compares token with every key in constant time.
func knownKey(keys [][]byte, token string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	return found == 1
}
