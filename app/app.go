package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lindsaykwardell/http-wrapper/http/middleware"
	"github.com/lindsaykwardell/http-wrapper/http/router"
	"github.com/lindsaykwardell/http-wrapper/http/server"
	"github.com/lindsaykwardell/http-wrapper/http/socket"
	"github.com/lindsaykwardell/http-wrapper/http/static"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/lindsaykwardell/http-wrapper/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// An App manages and exposes all components of an http-wrapper process to one another.
type App struct {
	cfg      Config
	cfgSet   bool
	envFiles []string
	ctx      context.Context

	l       logger.Logger
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	hub     *socket.Hub
	hubOpts []socket.Opt
	server  *server.Server
	handler http.Handler
	srv     *http.Server
}

// New constructs an App from the provided options.
//
// Without WithConfig, the Config is loaded from the environment after any env files.
func New(opts ...Opt) (*App, error) {
	a := new(App)
	for _, opt := range opts {
		opt(a)
	}

	if !a.cfgSet {
		cfg, err := LoadConfig(a.envFiles...)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
	}

	if err := a.cfg.Valid(); err != nil {
		return nil, err
	}

	if a.ctx == nil {
		a.ctx = context.Background()
	}

	if a.l == nil {
		a.l = logger.New(logger.WithEnv(a.cfg.Env.String()), logger.WithLevel(a.cfg.LogLevel))
	}

	if a.reg == nil {
		a.reg = prometheus.NewRegistry()
		a.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	a.metrics = metrics.New(metrics.WithRegistry(a.reg))

	hubOpts := []socket.Opt{
		socket.WithLogger(a.l),
		socket.WithMetrics(a.metrics),
		socket.WithPath(a.cfg.WSPath),
		socket.WithAllowedOrigins(a.cfg.WSAllowedOrigins...),
		socket.WithMaxMessageSize(a.cfg.WSMaxMessageSize),
		socket.WithFrameRate(rate.Limit(a.cfg.WSFrameRate), a.cfg.WSFrameBurst),
	}
	a.hub = socket.NewHub(append(hubOpts, a.hubOpts...)...)

	srvOpts := []server.Opt{
		server.WithLogger(a.l),
		server.WithMetrics(a.metrics),
	}
	if a.cfg.StaticDir != "" {
		sr := static.New(a.cfg.StaticDir, a.cfg.StaticPrefix)
		a.l.Debug(fmt.Sprintf("serving static files from %s at %s", sr.Root(), sr.Prefix()), nil)
		srvOpts = append(srvOpts, server.WithStatic(sr))
	}
	a.server = server.New(srvOpts...)
	a.server.Use(a.hub.Routes())

	if a.cfg.MetricsPath != "" {
		a.server.Use(a.metricsRoutes())
	}

	a.handler = middleware.Chain(a.server, a.adapters()...)
	a.srv = &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.handler,
		ReadTimeout:  a.cfg.ReadTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return a.ctx },
	}

	return a, nil
}

func (a *App) Config() Config                 { return a.cfg }
func (a *App) Hub() *socket.Hub               { return a.hub }
func (a *App) Logger() logger.Logger          { return a.l }
func (a *App) Metrics() *metrics.Metrics      { return a.metrics }
func (a *App) Registry() *prometheus.Registry { return a.reg }
func (a *App) Server() *server.Server         { return a.server }

// Handler returns the server wrapped in the middleware chain.
func (a *App) Handler() http.Handler { return a.handler }

// Use mounts routers on the server after the hub and metrics routes.
// Use panics once the App has served a request.
func (a *App) Use(mounts ...*router.Router) { a.server.Use(mounts...) }

// Guide begins the web server.
//
// These, and (*App).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
// - canceling the context.Context set by WithContext
func (a *App) Guide() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			a.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.l.Info(fmt.Sprintf("running web server at %s", a.srv.Addr), nil)
		if err := a.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.l.Error(err.Error(), nil)
			return err
		}
	case <-ctx.Done():
	}

	return a.Shutdown()
}

// Shutdown stops the web server and closes every hub connection,
// waiting up to the configured ShutdownTimeout.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.l.Info("shutting down web server", nil)
	srvErr := a.srv.Shutdown(ctx)
	if errors.Is(srvErr, http.ErrServerClosed) {
		srvErr = nil
	}

	hubErr := a.hub.Shutdown(ctx)
	if err := errors.Join(srvErr, hubErr); err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	a.l.Info("web server shutdown successfully", nil)

	return nil
}

func (a *App) adapters() []middleware.Adapter {
	return []middleware.Adapter{
		middleware.ReportPanic(a.l),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(a.l),
		middleware.ForceHTTPS(a.cfg.Env),
		middleware.RateLimit(middleware.NewVisitorsWithLimit(rate.Limit(a.cfg.RequestRate), a.cfg.RequestBurst)),
		middleware.CORS(a.cfg.CORSOrigins...),
	}
}

func (a *App) metricsRoutes() *router.Router {
	h := promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{ErrorLog: errorLog{a.l}})
	rt := router.New(a.cfg.MetricsPath)
	rt.Get("/", router.Raw(h.ServeHTTP))

	return rt
}

// errorLog adapts a logger.Logger to promhttp.Logger.
type errorLog struct {
	l logger.Logger
}

func (el errorLog) Println(v ...any) { el.l.Error(fmt.Sprint(v...), nil) }
