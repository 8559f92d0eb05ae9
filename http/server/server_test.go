package server_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/lindsaykwardell/http-wrapper/http/req"
	"github.com/lindsaykwardell/http-wrapper/http/resp"
	"github.com/lindsaykwardell/http-wrapper/http/router"
	"github.com/lindsaykwardell/http-wrapper/http/server"
	"github.com/lindsaykwardell/http-wrapper/http/static"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/lindsaykwardell/http-wrapper/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestServer(t *testing.T, opts ...server.Opt) *server.Server {
	t.Helper()

	l := logger.New(logger.WithLogger(log.New(io.Discard, "", 0)), logger.WithLevel(logger.LogLevelDebug))
	opts = append([]server.Opt{
		server.WithLogger(l),
		server.WithTracer(noop.NewTracerProvider().Tracer("test")),
	}, opts...)

	return server.New(opts...)
}

func echo(name string) router.Handler {
	return router.HandlerFunc(func(c *router.Context) *resp.Response {
		return resp.JSON(http.StatusOK, map[string]any{
			"handler": name,
			"param":   c.Param,
			"query":   c.Query,
			"body":    c.Body.Map(),
			"kind":    c.Body.Kind().String(),
		})
	})
}

func serve(s http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, body)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	return w
}

func TestServerDispatch(t *testing.T) {
	// Arrange
	root := router.New("/")
	root.Get("/", echo("home"))
	root.Get("/users/{id}", echo("user"))
	root.Get("/users/me", echo("me"))
	root.Post("/users", echo("create"))
	root.Get("/files/{name}", echo("file"))

	api := router.New("/api")
	api.Get("/things/{thing}/parts/{part}", echo("parts"))

	s := newTestServer(t)
	s.Use(root, api)

	for _, tc := range []struct {
		name        string
		method      string
		target      string
		body        string
		contentType string
		expected    string
	}{
		{
			"Root", http.MethodGet, "/", "", "",
			`{"body":{},"handler":"home","kind":"raw","param":{},"query":{}}`,
		},
		{
			"Param", http.MethodGet, "/users/42", "", "",
			`{"body":{},"handler":"user","kind":"raw","param":{"id":"42"},"query":{}}`,
		},
		{
			"Trailing-Slash", http.MethodGet, "/users/42/", "", "",
			`{"body":{},"handler":"user","kind":"raw","param":{"id":"42"},"query":{}}`,
		},
		{
			"Repeated-Slashes", http.MethodGet, "//users///42", "", "",
			`{"body":{},"handler":"user","kind":"raw","param":{"id":"42"},"query":{}}`,
		},
		{
			"Registration-Order-Wins", http.MethodGet, "/users/me", "", "",
			`{"body":{},"handler":"user","kind":"raw","param":{"id":"me"},"query":{}}`,
		},
		{
			"Query", http.MethodGet, "/users/42?a=1&a=2&flag", "", "",
			`{"body":{},"handler":"user","kind":"raw","param":{"id":"42"},"query":{"a":"2","flag":""}}`,
		},
		{
			"Encoded-Segment", http.MethodGet, "/files/a%2Fb", "", "",
			`{"body":{},"handler":"file","kind":"raw","param":{"name":"a/b"},"query":{}}`,
		},
		{
			"Mount", http.MethodGet, "/api/things/1/parts/2", "", "",
			`{"body":{},"handler":"parts","kind":"raw","param":{"part":"2","thing":"1"},"query":{}}`,
		},
		{
			"JSON-Body", http.MethodPost, "/users", `{"a":1}`, req.ContentTypeJSON,
			`{"body":{"a":1},"handler":"create","kind":"document","param":{},"query":{}}`,
		},
		{
			"Form-Body", http.MethodPost, "/users", `a=1&b=2`, req.ContentTypeForm,
			`{"body":{"a":"1","b":"2"},"handler":"create","kind":"form","param":{},"query":{}}`,
		},
		{
			"Bad-Body-Still-Handled", http.MethodPost, "/users", `{"a":`, req.ContentTypeJSON,
			`{"body":{},"handler":"create","kind":"empty","param":{},"query":{}}`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			w := serve(s, tc.method, tc.target, strings.NewReader(tc.body), tc.contentType)

			// Assert
			require.Equal(t, http.StatusOK, w.Code)
			require.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}

func TestServerNotFound(t *testing.T) {
	// Arrange
	root := router.New("/")
	root.Get("/users/{id}", echo("user"))
	s := newTestServer(t)
	s.Use(root)

	for _, tc := range []struct {
		name   string
		method string
		target string
	}{
		{"Unknown-Path", http.MethodGet, "/nope"},
		{"Length-Mismatch", http.MethodGet, "/users/42/extra"},
		{"Empty-Param", http.MethodGet, "/users/"},
		{"Wrong-Method", http.MethodDelete, "/users/42"},
		{"Unroutable-Method", "TRACE", "/users/42"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			w := serve(s, tc.method, tc.target, nil, "")

			// Assert
			require.Equal(t, http.StatusNotFound, w.Code)
			require.Empty(t, w.Body.String())
		})
	}
}

func TestServerUse(t *testing.T) {
	t.Run("Mount-Order", func(t *testing.T) {
		// Arrange
		root := router.New("/")
		root.Get("/api/x", echo("root"))
		api := router.New("/api")
		api.Get("/x", echo("api"))

		first := newTestServer(t)
		first.Use(root, api)
		second := newTestServer(t)
		second.Use(api, root)

		// Act
		w1 := serve(first, http.MethodGet, "/api/x", nil, "")
		w2 := serve(second, http.MethodGet, "/api/x", nil, "")

		// Assert
		require.Contains(t, w1.Body.String(), `"handler":"root"`)
		require.Contains(t, w2.Body.String(), `"handler":"api"`)
	})

	t.Run("Same-Root-Replaces", func(t *testing.T) {
		// Arrange
		old := router.New("/v1")
		old.Get("/x", echo("old"))
		other := router.New("/v2")
		replacement := router.New("/v1/")
		replacement.Get("/x", echo("new"))

		s := newTestServer(t)

		// Act
		s.Use(old, other)
		s.Use(replacement)

		// Assert
		require.Equal(t, []*router.Router{replacement, other}, s.Mounts())
		require.Contains(t, serve(s, http.MethodGet, "/v1/x", nil, "").Body.String(), `"handler":"new"`)
	})

	t.Run("Frozen-After-Serving", func(t *testing.T) {
		// Arrange
		root := router.New("/")
		s := newTestServer(t)
		s.Use(root)

		// Act
		serve(s, http.MethodGet, "/", nil, "")

		// Assert
		require.True(t, root.Frozen())
		require.Panics(t, func() { root.Get("/late", echo("late")) })
		require.Panics(t, func() { s.Use(router.New("/late")) })
	})
}

type unreadable struct{ t *testing.T }

func (u unreadable) Read([]byte) (int, error) {
	u.t.Error("raw handler body was read")
	return 0, io.EOF
}

func TestServerRawHandler(t *testing.T) {
	// Arrange
	var got router.Context
	root := router.New("/")
	root.Post("/raw/{id}", router.Raw(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("raw"))
	}))
	root.Post("/ctx", router.HandlerFunc(func(c *router.Context) *resp.Response {
		got = *c
		return nil
	}))

	s := newTestServer(t)
	s.Use(root)

	// Act
	w := serve(s, http.MethodPost, "/raw/1", unreadable{t}, req.ContentTypeJSON)

	// Assert
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "raw", w.Body.String())

	// Act
	w = serve(s, http.MethodPost, "/ctx?q=1", strings.NewReader("plain"), "text/plain")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.Equal(t, []byte("plain"), got.Body.Bytes())
	require.Equal(t, map[string]string{"q": "1"}, got.Query)
	require.Equal(t, "/ctx", got.Route.Path)
	require.NotNil(t, got.Request)
	require.NotNil(t, got.Writer)
}

func TestServerStatic(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "public")
	require.Nil(t, os.MkdirAll(dir, 0o755))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hi</p>"), 0o644))

	root := router.New("/")
	root.Get("/public/shadowed", echo("route"))

	s := newTestServer(t, server.WithStatic(static.New(dir, "")))
	s.Use(root)

	for _, tc := range []struct {
		name        string
		target      string
		status      int
		contentType string
		body        string
	}{
		{"Index", "/public/index.html", http.StatusOK, "text/html; charset=utf-8", "<p>hi</p>"},
		{"Prefix-Only", "/public", http.StatusOK, "text/html; charset=utf-8", "<p>hi</p>"},
		{"Missing", "/public/nope.css", http.StatusNotFound, "", ""},
		{"Outside-Prefix", "/index.html", http.StatusNotFound, "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			w := serve(s, http.MethodGet, tc.target, nil, "")

			// Assert
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
			require.Equal(t, tc.body, w.Body.String())
		})
	}

	t.Run("Routes-First", func(t *testing.T) {
		w := serve(s, http.MethodGet, "/public/shadowed", nil, "")
		require.Contains(t, w.Body.String(), `"handler":"route"`)
	})
}

func TestServerDispatchDescriptor(t *testing.T) {
	// Arrange
	root := router.New("/")
	root.Get("/hello", router.HandlerFunc(func(c *router.Context) *resp.Response {
		return resp.Text(http.StatusOK, "hello")
	}))
	s := newTestServer(t)
	s.Use(root)
	w := httptest.NewRecorder()

	// Act
	found := s.Dispatch(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	missing := s.Dispatch(w, httptest.NewRequest(http.MethodGet, "/bye", nil))

	// Assert
	require.Equal(t, http.StatusOK, found.Status)
	require.Equal(t, []byte("hello"), found.Body)
	require.Equal(t, http.StatusNotFound, missing.Status)
	require.Nil(t, missing.Body)
	require.False(t, w.Flushed)
	require.Zero(t, w.Body.Len())
}

func TestServerMetrics(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	root := router.New("/")
	root.Get("/ok", echo("ok"))

	s := newTestServer(t, server.WithMetrics(metrics.New(metrics.WithRegistry(reg))))
	s.Use(root)

	// Act
	serve(s, http.MethodGet, "/ok", nil, "")
	serve(s, http.MethodGet, "/ok", nil, "")
	serve(s, http.MethodGet, "/missing", nil, "")

	// Assert
	count, err := testutil.GatherAndCount(reg, "http_wrapper_requests_total")
	require.Nil(t, err)
	require.Equal(t, 2, count)
}

func TestServerMetricsUnroutableMethods(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	s := newTestServer(t, server.WithMetrics(metrics.New(metrics.WithRegistry(reg))))
	s.Use(router.New("/"))

	// Act
	for i := 0; i < 50; i++ {
		w := serve(s, fmt.Sprintf("X%d", i), "/nothing", nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	}
	serve(s, http.MethodGet, "/nothing", nil, "")

	// Assert
	count, err := testutil.GatherAndCount(reg, "http_wrapper_requests_total")
	require.Nil(t, err)
	require.Equal(t, 2, count)
}

// spanRecorder hands out spans that remember their latest name.
type spanRecorder struct {
	trace.Tracer
	mu    sync.Mutex
	spans []*namedSpan
}

func (sr *spanRecorder) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, base := sr.Tracer.Start(ctx, name, opts...)
	span := &namedSpan{Span: base, name: name}

	sr.mu.Lock()
	sr.spans = append(sr.spans, span)
	sr.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

func (sr *spanRecorder) names() []string {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	names := make([]string, 0, len(sr.spans))
	for _, span := range sr.spans {
		names = append(names, span.name)
	}
	return names
}

type namedSpan struct {
	trace.Span
	name string
}

func (ns *namedSpan) SetName(name string) { ns.name = name }

func TestServerSpanNames(t *testing.T) {
	// Arrange
	sr := &spanRecorder{Tracer: noop.NewTracerProvider().Tracer("test")}
	root := router.New("/")
	root.Get("/users/{id}", echo("user"))
	s := newTestServer(t, server.WithTracer(sr))
	s.Use(root)

	// Act
	serve(s, http.MethodGet, "/users/1", nil, "")
	serve(s, http.MethodGet, "/users/2", nil, "")
	serve(s, http.MethodGet, "/missing/3", nil, "")

	// Assert
	require.Equal(t, []string{"GET /users/{id}", "GET /users/{id}", "GET"}, sr.names())
}

func TestServerBind(t *testing.T) {
	type user struct {
		Name string `json:"name" schema:"name" validate:"required"`
		Age  int    `json:"age" schema:"age" validate:"gte=0"`
	}

	bind := router.HandlerFunc(func(c *router.Context) *resp.Response {
		var u user
		if err := c.Bind(&u); err != nil {
			if errors.Is(err, wrapper.ErrNotValid) {
				return resp.Text(http.StatusUnprocessableEntity, "%s", err)
			}
			return resp.Text(http.StatusBadRequest, "%s", err)
		}
		return resp.JSON(http.StatusOK, u)
	})

	root := router.New("/")
	root.Post("/users", bind)
	root.Get("/users", bind)
	s := newTestServer(t)
	s.Use(root)

	for _, tc := range []struct {
		name        string
		method      string
		target      string
		body        string
		contentType string
		status      int
		expected    string
	}{
		{"JSON", http.MethodPost, "/users", `{"name":"ada","age":36}`, req.ContentTypeJSON, http.StatusOK, `{"name":"ada","age":36}`},
		{"Form", http.MethodPost, "/users", "name=ada&age=36", req.ContentTypeForm, http.StatusOK, `{"name":"ada","age":36}`},
		{"Query", http.MethodGet, "/users?name=ada&age=36", "", "", http.StatusOK, `{"name":"ada","age":36}`},
		{"Invalid", http.MethodPost, "/users", `{"age":36}`, req.ContentTypeJSON, http.StatusUnprocessableEntity, ""},
		{"Wrong-Shape", http.MethodPost, "/users", `["ada"]`, req.ContentTypeJSON, http.StatusBadRequest, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}

			// Act
			w := serve(s, tc.method, tc.target, body, tc.contentType)

			// Assert
			require.Equal(t, tc.status, w.Code)
			if tc.expected != "" {
				require.JSONEq(t, tc.expected, w.Body.String())
			}
		})
	}
}

func TestServerLogsRoutes(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(log.New(b, "", 0)), logger.WithLevel(logger.LogLevelDebug))
	root := router.New("/api")
	root.Get("/x", echo("x"))
	s := server.New(server.WithLogger(l))
	s.Use(root)

	// Act
	serve(s, http.MethodGet, "/api/x", nil, "")

	// Assert
	require.Contains(t, b.String(), "registered route")
	require.Contains(t, b.String(), "GET /api/x/")
}
