package middleware

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/lindsaykwardell/http-wrapper/logger"
)

// ReportPanic recovers panics from the wrapped handler, reports them to Sentry,
// logs them with ls and responds 500 when nothing was written yet.
//
// Without a configured Sentry client, reporting is a no-op and the panic is only logged.
func ReportPanic(ls logger.Logger) Adapter {
	if ls == nil {
		ls = logger.New()
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler {
		reported := sh.Handle(h)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var wrote bool
			ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
				WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(code int) {
						wrote = true
						next(code)
					}
				},
				Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(b []byte) (int, error) {
						wrote = true
						return next(b)
					}
				},
				ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
					return func(src io.Reader) (int64, error) {
						wrote = true
						return next(src)
					}
				},
				Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
					return func() (net.Conn, *bufio.ReadWriter, error) {
						wrote = true
						return next()
					}
				},
			})

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ls.Error("recovered from panic", &logger.LogContext{Error: fmt.Errorf("%v", rec), Request: r})
				if !wrote {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			reported.ServeHTTP(ww, r)
		})
	}
}
