package server

import (
	"github.com/lindsaykwardell/http-wrapper/http/req"
	"github.com/lindsaykwardell/http-wrapper/http/static"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/lindsaykwardell/http-wrapper/metrics"
	"go.opentelemetry.io/otel/trace"
)

// An Opt configures a Server.
type Opt func(*Server)

// WithLogger sets the logger.Logger the Server logs with.
func WithLogger(l logger.Logger) Opt {
	return func(s *Server) {
		s.l = l
	}
}

// WithNegotiator sets the *req.Negotiator parsing request bodies.
func WithNegotiator(n *req.Negotiator) Opt {
	return func(s *Server) {
		s.negotiator = n
	}
}

// WithParser sets the *req.Parser handlers bind request data with.
func WithParser(p *req.Parser) Opt {
	return func(s *Server) {
		s.parser = p
	}
}

// WithStatic sets the *static.Resolver requests fall back to when no route matches.
func WithStatic(r *static.Resolver) Opt {
	return func(s *Server) {
		s.static = r
	}
}

// WithMetrics sets the *metrics.Metrics recording each dispatch.
func WithMetrics(m *metrics.Metrics) Opt {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTracer sets the trace.Tracer starting a span for each request.
func WithTracer(t trace.Tracer) Opt {
	return func(s *Server) {
		s.tracer = t
	}
}
