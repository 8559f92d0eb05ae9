package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/lindsaykwardell/http-wrapper/logger"
)

const (
	// Environment variables
	environmentEnvVar        = "ENVIRONMENT"
	hostEnvVar               = "HOST"
	portEnvVar               = "PORT"
	logLevelEnvVar           = "LOG_LEVEL"
	staticDirEnvVar          = "STATIC_DIR"
	staticPrefixEnvVar       = "STATIC_PREFIX"
	wsPathEnvVar             = "WS_PATH"
	wsAllowedOriginsEnvVar   = "WS_ALLOWED_ORIGINS"
	wsMaxMessageSizeEnvVar   = "WS_MAX_MESSAGE_SIZE"
	wsFrameRateEnvVar        = "WS_FRAME_RATE"
	wsFrameBurstEnvVar       = "WS_FRAME_BURST"
	corsOriginEnvVar         = "CORS_ORIGIN"
	metricsPathEnvVar        = "METRICS_PATH"
	requestRateEnvVar        = "REQUEST_RATE"
	requestBurstEnvVar       = "REQUEST_BURST"
	serverReadTimeoutEnvVar  = "SERVER_READ_TIMEOUT"
	serverIdleTimeoutEnvVar  = "SERVER_IDLE_TIMEOUT"
	serverWriteTimeoutEnvVar = "SERVER_WRITE_TIMEOUT"
	shutdownTimeoutEnvVar    = "SHUTDOWN_TIMEOUT"

	// Defaults
	DefaultEnv                = wrapper.Development
	DefaultPort               = "3000"
	DefaultLogLevel           = "INFO"
	DefaultWSPath             = "/ws"
	DefaultWSMaxMessageSize   = 64 << 10
	DefaultWSFrameRate        = 20.0
	DefaultWSFrameBurst       = 40
	DefaultMetricsPath        = "/metrics"
	DefaultRequestRate        = 5.0
	DefaultRequestBurst       = 20
	DefaultServerReadTimeout  = 5 * time.Second
	DefaultServerIdleTimeout  = 120 * time.Second
	DefaultServerWriteTimeout = 5 * time.Second
	DefaultShutdownTimeout    = 5 * time.Second

	defaultEnvFile = ".env"
)

// A Config holds every setting an App is assembled from.
type Config struct {
	Env      wrapper.Environment
	Host     string
	Port     string
	LogLevel logger.LogLevel

	// StaticDir is the directory served when no route matches.
	// Empty disables static files.
	StaticDir    string
	StaticPrefix string

	WSPath           string
	WSAllowedOrigins []string
	WSMaxMessageSize int64
	WSFrameRate      float64
	WSFrameBurst     int

	CORSOrigins []string

	// MetricsPath is where Prometheus scrapes from.
	// Empty disables the route.
	MetricsPath string

	RequestRate  float64
	RequestBurst int

	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoadConfig loads the env files provided into the environment
// and reads a Config from it.
//
// Without files, LoadConfig tries .env and carries on when it does not exist.
// Variables already set in the environment are never overwritten.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: loading %s: %s", wrapper.ErrBadConfig, defaultEnvFile, err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("%w: loading %s: %s", wrapper.ErrBadConfig, strings.Join(files, ", "), err)
	}

	return ConfigFromEnv(), nil
}

// ConfigFromEnv reads a Config from the environment,
// falling back to defaults for anything unset or invalid.
func ConfigFromEnv() Config {
	return Config{
		Env:              wrapper.EnvVarOrEnv(environmentEnvVar, DefaultEnv),
		Host:             wrapper.EnvVarOrString(hostEnvVar, ""),
		Port:             wrapper.EnvVarOrString(portEnvVar, DefaultPort),
		LogLevel:         logger.NewLogLevel(wrapper.EnvVarOrString(logLevelEnvVar, DefaultLogLevel)),
		StaticDir:        wrapper.EnvVarOrString(staticDirEnvVar, ""),
		StaticPrefix:     wrapper.EnvVarOrString(staticPrefixEnvVar, ""),
		WSPath:           wrapper.EnvVarOrString(wsPathEnvVar, DefaultWSPath),
		WSAllowedOrigins: wrapper.EnvVarOrStrings(wsAllowedOriginsEnvVar, nil),
		WSMaxMessageSize: int64(wrapper.EnvVarOrInt(wsMaxMessageSizeEnvVar, DefaultWSMaxMessageSize)),
		WSFrameRate:      wrapper.EnvVarOrFloat(wsFrameRateEnvVar, DefaultWSFrameRate),
		WSFrameBurst:     wrapper.EnvVarOrInt(wsFrameBurstEnvVar, DefaultWSFrameBurst),
		CORSOrigins:      wrapper.EnvVarOrStrings(corsOriginEnvVar, nil),
		MetricsPath:      wrapper.EnvVarOrString(metricsPathEnvVar, DefaultMetricsPath),
		RequestRate:      wrapper.EnvVarOrFloat(requestRateEnvVar, DefaultRequestRate),
		RequestBurst:     wrapper.EnvVarOrInt(requestBurstEnvVar, DefaultRequestBurst),
		ReadTimeout:      wrapper.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		IdleTimeout:      wrapper.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		WriteTimeout:     wrapper.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
		ShutdownTimeout:  wrapper.EnvVarOrDuration(shutdownTimeoutEnvVar, DefaultShutdownTimeout),
	}
}

// Addr joins Host and Port into the address the App listens on.
// A Port given as ":3000" is accepted as well.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strings.TrimPrefix(c.Port, ":"))
}

// Valid reports whether the Config can assemble an App.
func (c Config) Valid() error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: environment %q", wrapper.ErrBadConfig, c.Env)
	}

	if c.WSPath == "" || c.WSPath[0] != '/' {
		return fmt.Errorf("%w: websocket path %q must start with /", wrapper.ErrBadConfig, c.WSPath)
	}

	if c.MetricsPath != "" && c.MetricsPath[0] != '/' {
		return fmt.Errorf("%w: metrics path %q must start with /", wrapper.ErrBadConfig, c.MetricsPath)
	}

	if c.WSFrameRate < 0 || c.RequestRate < 0 {
		return fmt.Errorf("%w: rates cannot be negative", wrapper.ErrBadConfig)
	}

	return nil
}
