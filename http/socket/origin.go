package socket

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/lindsaykwardell/http-wrapper/logger"
)

type originChecker struct {
	allowAll bool
	allowed  map[string]struct{}
	l        logger.Logger
}

// newOriginChecker returns nil when origins holds nothing usable,
// leaving the upgrader to its same-host default.
func newOriginChecker(origins []string, l logger.Logger) *originChecker {
	oc := &originChecker{allowed: make(map[string]struct{}), l: l}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}

		if trimmed == "*" {
			oc.allowAll = true
			continue
		}

		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			l.Warn("ignoring invalid origin", &logger.LogContext{Data: map[string]any{"origin": origin}})
			continue
		}
		oc.allowed[normalized] = struct{}{}
	}

	if !oc.allowAll && len(oc.allowed) == 0 {
		return nil
	}

	return oc
}

func (oc *originChecker) check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}

	if normalized, ok := normalizeOrigin(r.Header.Get("Origin")); ok {
		if _, exists := oc.allowed[normalized]; exists {
			return true
		}
	}

	oc.l.Warn("blocked connection from disallowed origin", &logger.LogContext{Request: r})
	return false
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
