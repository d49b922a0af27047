package router

import (
	"net/http"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// requireAuthMiddleware rejects requests that no validator authenticated. It guards the
// mutating routes when writes are configured to need an identity.
func requireAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.UserIDFromContext(r.Context()) == "" {
			logger := domain.LoggerFromContext(r.Context())
			logger.InfoContext(r.Context(), "rejected unauthenticated write")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"authentication required"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
