package socket

import (
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/lindsaykwardell/http-wrapper/metrics"
	"golang.org/x/time/rate"
)

// An Opt configures a Hub.
type Opt func(*Hub)

// WithLogger sets the logger.Logger the Hub logs with.
func WithLogger(l logger.Logger) Opt {
	return func(h *Hub) {
		h.l = l
	}
}

// WithMetrics sets the *metrics.Metrics recording connections and frames.
func WithMetrics(m *metrics.Metrics) Opt {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithPath sets the path the Hub upgrades connections at.
func WithPath(path string) Opt {
	return func(h *Hub) {
		if path != "" {
			h.path = path
		}
	}
}

// WithAllowedOrigins sets the origins allowed to open a connection.
// "*" allows any origin.
// With none set, only requests from the same host are allowed.
func WithAllowedOrigins(origins ...string) Opt {
	return func(h *Hub) {
		h.origins = origins
	}
}

// WithMaxMessageSize sets the largest frame, in bytes, the Hub reads.
// A larger frame closes the connection.
func WithMaxMessageSize(n int64) Opt {
	return func(h *Hub) {
		if n > 0 {
			h.maxMessageSize = n
		}
	}
}

// WithFrameRate sets how many frames per second, with bursts of up to burst,
// a connection may send before frames are discarded.
func WithFrameRate(limit rate.Limit, burst int) Opt {
	return func(h *Hub) {
		h.frameRate = limit
		h.frameBurst = burst
	}
}

// WithSendBuffer sets how many messages may wait to be written to a connection.
func WithSendBuffer(n int) Opt {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}
