package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"photo-share-api/internal/application"

	"github.com/rs/zerolog"
)

// ContextBuilder resolves the ExecContext of a request from its credential
type ContextBuilder interface {
	Build(ctx context.Context, authorization string) (*application.ExecContext, error)
}

// ExecContextMiddleware resolves the bearer credential once per request and
// attaches the resulting ExecContext before any resolver runs
func ExecContextMiddleware(builder ContextBuilder, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ec, err := builder.Build(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to build execution context")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"errors": []map[string]interface{}{{
						"message":    "store unavailable",
						"extensions": map[string]string{"code": "STORE_UNAVAILABLE"},
					}},
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(application.WithExecContext(r.Context(), ec)))
		})
	}
}
