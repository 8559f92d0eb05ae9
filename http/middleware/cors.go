package middleware

import (
	"github.com/gorilla/handlers"
	"github.com/lindsaykwardell/http-wrapper/http/router"
)

// CORS sets "Access-Control-Allow" style headers on a response
// for requests from the origins.
//
// If no origin is provided, NoopAdapter returns and this middleware does nothing.
func CORS(origins ...string) Adapter {
	var allowed []string
	for _, o := range origins {
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	if len(allowed) == 0 {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Content-Type",
			"X-CSRF-Token",
			requestIDHeader,
		}),
		handlers.AllowedOrigins(allowed),
		handlers.AllowedMethods(router.Methods),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
}
