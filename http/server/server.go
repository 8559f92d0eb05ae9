package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/lindsaykwardell/http-wrapper/http/req"
	"github.com/lindsaykwardell/http-wrapper/http/resp"
	"github.com/lindsaykwardell/http-wrapper/http/router"
	"github.com/lindsaykwardell/http-wrapper/http/static"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/lindsaykwardell/http-wrapper/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/lindsaykwardell/http-wrapper/http/server"

// A Server dispatches requests across its mounts.
type Server struct {
	l          logger.Logger
	negotiator *req.Negotiator
	parser     *req.Parser
	static     *static.Resolver
	metrics    *metrics.Metrics
	tracer     trace.Tracer

	mounts []*router.Router
	once   sync.Once
	frozen bool
}

// New constructs a *Server.
//
// By default, a Server logs with [logger.New], parses bodies with the built-in parsers of [req.NewNegotiator],
// binds with [req.NewParser],
// has no static fallback, records no metrics and traces with the global OpenTelemetry provider.
func New(opts ...Opt) *Server {
	s := new(Server)
	for _, opt := range opts {
		opt(s)
	}

	if s.l == nil {
		s.l = logger.New()
	}
	if s.negotiator == nil {
		s.negotiator = req.NewNegotiator(s.l)
	}
	if s.parser == nil {
		s.parser = req.NewParser()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}

	return s
}

// Use adds mounts in order.
// A mount with the same root as one already added replaces it in place.
//
// Use panics once the Server started serving.
func (s *Server) Use(mounts ...*router.Router) {
	if s.frozen {
		panic("http-wrapper/http/server: Use called after serving started")
	}

outer:
	for _, m := range mounts {
		for i, existing := range s.mounts {
			if existing.Root() == m.Root() {
				s.mounts[i] = m
				continue outer
			}
		}
		s.mounts = append(s.mounts, m)
	}
}

// Mounts returns the mounts in dispatch order.
func (s *Server) Mounts() []*router.Router { return s.mounts }

// Dispatch runs the request through the mounts, the static fallback and the not found response,
// returning what to write back.
//
// A nil *resp.Response means the matched handler owned w.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) *resp.Response {
	res, _ := s.dispatch(w, r)
	return res
}

// ServeHTTP dispatches r and writes the response.
// The first call freezes every mount.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := s.tracer.Start(r.Context(), r.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		),
	)
	defer span.End()

	status := http.StatusOK
	var wroteHeader bool
	ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				if !wroteHeader {
					status, wroteHeader = code, true
				}
				next(code)
			}
		},
		Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
			return func() (net.Conn, *bufio.ReadWriter, error) {
				if !wroteHeader {
					status, wroteHeader = http.StatusSwitchingProtocols, true
				}
				return next()
			}
		},
	})

	res, via := s.dispatch(ww, r.WithContext(ctx))
	if res != nil {
		status = res.Status
		if status == 0 {
			status = http.StatusOK
		}
		if err := res.Write(w); err != nil {
			s.l.Warn("failed writing response", &logger.LogContext{Error: err, Request: r})
		}
	}

	span.SetAttributes(
		attribute.String("http-wrapper.via", via),
		attribute.Int("http.status_code", status),
	)
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}

	s.metrics.ObserveRequest(r.Method, via, status, time.Since(start))
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) (*resp.Response, string) {
	s.once.Do(s.freeze)

	path := router.Normalize(r.URL.Path)
	escaped := router.Normalize(r.URL.EscapedPath())
	segments := requestSegments(escaped)
	query := req.ParseQuery(r.URL.RawQuery)

	for _, m := range s.mounts {
		for _, route := range m.Lookup(r.Method) {
			params, ok := match(route, escaped, segments)
			if !ok {
				continue
			}

			span := trace.SpanFromContext(r.Context())
			span.SetName(fmt.Sprintf("%s %s", r.Method, route.Path))
			span.SetAttributes(attribute.String("http.route", route.Path))
			return s.invoke(w, r, route, query, params), metrics.ViaRoute
		}
	}

	if s.static != nil && s.static.Matches(path) {
		return s.static.Resolve(path), metrics.ViaStatic
	}

	return resp.NotFound(), metrics.ViaNotFound
}

func (s *Server) invoke(w http.ResponseWriter, r *http.Request, route router.Route, query, params map[string]string) *resp.Response {
	c := &router.Context{
		Writer:  w,
		Request: r,
		Query:   query,
		Param:   params,
		Body:    req.EmptyBody(),
		Route:   route,
		Parser:  s.parser,
	}

	if !router.IsRaw(route.Handler) {
		c.Body = s.readBody(r)
	}

	return route.Handler.Handle(c)
}

func (s *Server) readBody(r *http.Request) req.Body {
	if r.Body == nil {
		return s.negotiator.Parse(r.Header.Get(resp.ContentTypeHeader), nil)
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		s.l.Warn("failed reading request body", &logger.LogContext{Error: err, Request: r})
		return req.EmptyBody()
	}

	return s.negotiator.Parse(r.Header.Get(resp.ContentTypeHeader), b)
}

func (s *Server) freeze() {
	s.frozen = true
	for _, m := range s.mounts {
		m.Freeze()
		for _, method := range router.Methods {
			for _, route := range m.Lookup(method) {
				s.l.Debug("registered route", &logger.LogContext{Data: map[string]any{"route": route.String()}})
			}
		}
	}
}

// match tries the full escaped path first, then the decoded segments.
// Params are only built for routes with a parameter token.
func match(route router.Route, escaped string, segments []string) (map[string]string, bool) {
	if route.Path == escaped {
		if !route.HasParam() {
			return map[string]string{}, true
		}

		params, _ := router.Match(segments, route.Segments)
		return nonNil(params), true
	}

	params, ok := router.Match(segments, route.Segments)
	if !ok {
		return nil, false
	}

	return nonNil(params), true
}

// requestSegments splits the escaped path and decodes each segment,
// so an encoded "/" stays inside its segment.
func requestSegments(escaped string) []string {
	segs := router.Segments(escaped)
	for i, seg := range segs {
		if u, err := url.PathUnescape(seg); err == nil {
			segs[i] = u
		}
	}

	return segs
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}
