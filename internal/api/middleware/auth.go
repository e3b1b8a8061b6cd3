package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/nagrik-labs/nagrikai/internal/api"
	"github.com/nagrik-labs/nagrikai/internal/domain"
)

// AdminAuth guards the knowledge ingestion endpoints with a static bearer
// token. An empty configured token disables the admin surface entirely
// rather than leaving it open.
func AdminAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				api.Error(w, http.StatusServiceUnavailable, "admin API is not configured")
				return
			}

			presented := bearerToken(r)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				api.HandleError(w, domain.ErrInvalidAdminToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
