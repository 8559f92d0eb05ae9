package middleware

import (
	"net/http"
	"net/url"

	wrapper "github.com/lindsaykwardell/http-wrapper"
)

// ForceHTTPS redirects HTTP requests to HTTPS in production and staging.
//
// The "X-Forwarded-Proto" is used to check whether HTTP was requested due to the server
// running behind a proxy.
func ForceHTTPS(env wrapper.Environment) Adapter {
	if env != wrapper.Production && env != wrapper.Staging {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
				handler.ServeHTTP(w, r)
				return
			}

			u := new(url.URL)
			*u = *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
