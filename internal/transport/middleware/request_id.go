package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/health-registry/pkg/ctxutil"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-Id"
	// CorrelationIDHeader is accepted as the request id when RequestIDHeader is absent.
	CorrelationIDHeader = "X-Correlation-Id"
)

// RequestID stores the incoming request id in the context, generating one
// when the client sent none, and echoes it back.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = r.Header.Get(CorrelationIDHeader)
			}
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
		})
	}
}
