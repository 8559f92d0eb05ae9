package app

import (
	"context"

	"github.com/lindsaykwardell/http-wrapper/http/socket"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// An Opt configures an App when constructing a new one.
type Opt func(*App)

// WithConfig uses cfg instead of loading one from the environment.
func WithConfig(cfg Config) Opt {
	return func(a *App) {
		a.cfg = cfg
		a.cfgSet = true
	}
}

// WithEnvFiles loads the files provided before reading the Config from the environment.
// WithEnvFiles does nothing alongside WithConfig.
func WithEnvFiles(files ...string) Opt {
	return func(a *App) {
		a.envFiles = files
	}
}

// WithContext sets the context.Context every request's context derives from.
// Canceling it stops Guide.
func WithContext(ctx context.Context) Opt {
	return func(a *App) {
		a.ctx = ctx
	}
}

// WithLogger sets the logger.Logger every component logs with.
func WithLogger(l logger.Logger) Opt {
	return func(a *App) {
		a.l = l
	}
}

// WithRegistry sets the *prometheus.Registry metrics are registered with and served from.
func WithRegistry(reg *prometheus.Registry) Opt {
	return func(a *App) {
		a.reg = reg
	}
}

// WithHubOpts appends options applied to the socket.Hub after those derived from the Config.
func WithHubOpts(opts ...socket.Opt) Opt {
	return func(a *App) {
		a.hubOpts = append(a.hubOpts, opts...)
	}
}
