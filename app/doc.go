/*
Package app assembles an http-wrapper process.

An App reads its Config from the environment, optionally after loading .env files,
and wires together:

  - a logger.Logger
  - a Prometheus registry served at METRICS_PATH
  - a socket.Hub mounted at WS_PATH
  - a static.Resolver when STATIC_DIR is set
  - the server.Server dispatching to every mounted router.Router
  - the middleware chain wrapping the server

Routes are added with Use before the App starts serving:

	a, err := app.New()
	if err != nil {
		log.Fatal(err)
	}

	api := router.New("/api")
	api.Get("/users/{id}", router.HandlerFunc(getUser))
	a.Use(api)

	if err := a.Guide(); err != nil {
		log.Fatal(err)
	}
*/
package app
