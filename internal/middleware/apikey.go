// AngelaMos | 2026
// apikey.go

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/biolink-labs/biolink-api/internal/core"
)

// APIKeyHeader is shared with the payments service, which calls back into
// the system surface with the same header it expects from us.
const APIKeyHeader = "py-api-key"

// APIKey guards service-to-service routes. An empty configured key disables
// the surface entirely.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				core.JSONError(
					w,
					core.ForbiddenError("system surface disabled"),
				)
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				core.JSONError(
					w,
					core.UnauthorizedError(GetMessages(r.Context()).NotAuthorized),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
