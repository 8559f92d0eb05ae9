package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	wrapper "github.com/lindsaykwardell/http-wrapper"
)

const requestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under wrapper.RequestIDKey
// and echoes it in the "X-Request-Id" response header.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(requestIDHeader, id)
			ctx := context.WithValue(r.Context(), wrapper.RequestIDKey, id)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
