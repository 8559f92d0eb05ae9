/*
The middleware package defines what a middleware is in http-wrapper and a set of transport-level middlewares.

These wrap the dispatcher as a whole, never a single route.
The available middlewares are:
- CORS
- ForceHTTPS
- InjectIPAddress
- LogRequest
- RateLimit
- ReportPanic
- RequestID

The app package assembles them in this order:

	adpts := []middleware.Adapter{
		middleware.ReportPanic(log),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.ForceHTTPS(env),
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.CORS(corsOrigin),
	}
	handler := middleware.Chain(srv, adpts...)

*/
package middleware
