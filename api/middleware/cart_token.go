package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

const ctxCartToken contextKey = "cart_token"

// CartToken resolves the shopper's cart token from the request header,
// minting a fresh one when the header is absent or garbled. The token
// in use is always echoed back so the client can persist it.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if _, err := uuid.Parse(token); err != nil {
				token = uuid.NewString()
			}

			w.Header().Set(cartTokenHeader, token)

			ctx := context.WithValue(r.Context(), ctxCartToken, token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartToken).(string); ok {
		return v
	}
	return ""
}
