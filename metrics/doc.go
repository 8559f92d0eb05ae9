/*
Package metrics holds the Prometheus collectors recording HTTP dispatch and WebSocket traffic.

Construct one [*Metrics] per registry and hand it to the server and the hub.
A nil *Metrics is valid and records nothing.

	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	srv := server.New(server.WithMetrics(m))
	hub := socket.NewHub(socket.WithMetrics(m))
*/
package metrics
