package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, honoring one supplied by an
// upstream proxy, and echoes it back in the response headers.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestIDFrom(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.NewString()
}
