package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/lindsaykwardell/http-wrapper/logger"
)

// LogRequest logs the request's method, requested URL, and originating IP address
// once the response is written, along with its status, size and duration,
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
// - token
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(h, w, r)

			uri := r.URL.Path
			q := r.URL.Query()
			wrapper.Mask(q, "password")
			wrapper.Mask(q, "token")
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			data := map[string]any{
				"method":   r.Method,
				"uri":      uri,
				"status":   m.Code,
				"size":     m.Written,
				"duration": m.Duration.String(),
				"ip":       IPAddress(r),
			}
			if id, ok := r.Context().Value(wrapper.RequestIDKey).(string); ok {
				data["requestId"] = id
			}

			ls.Info(r.Method+" "+uri, &logger.LogContext{Data: data})
		})
	}
}
