package main

import (
	"net"
	"net/http"

	"github.com/lindsaykwardell/http-wrapper/app"
	"github.com/lindsaykwardell/http-wrapper/http/resp"
	"github.com/lindsaykwardell/http-wrapper/http/router"
	"github.com/lindsaykwardell/http-wrapper/http/socket"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	envFiles     []string
	addr         string
	staticDir    string
	staticPrefix string
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server until interrupted",
		Long: `Run the web server until interrupted.

Flags override the matching environment variables:

  --addr           HOST and PORT
  --static-dir     STATIC_DIR
  --static-prefix  STATIC_PREFIX

Messages sent with the "message" event are relayed to every connection,
or only to "to" when it is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(f.envFiles...)
			if err != nil {
				return err
			}

			if err := f.apply(&cfg); err != nil {
				return err
			}

			a, err := app.New(app.WithConfig(cfg), app.WithContext(cmd.Context()))
			if err != nil {
				return err
			}

			relay(a.Hub())
			a.Use(healthRoutes())

			return a.Guide()
		},
	}

	cmd.Flags().StringSliceVar(&f.envFiles, "env-file", nil, "env files to load (default .env when present)")
	cmd.Flags().StringVar(&f.addr, "addr", "", "address to listen on, e.g. :3000")
	cmd.Flags().StringVar(&f.staticDir, "static-dir", "", "directory served when no route matches")
	cmd.Flags().StringVar(&f.staticPrefix, "static-prefix", "", "URL prefix static files are served under")

	return cmd
}

func (f serveFlags) apply(cfg *app.Config) error {
	if f.addr != "" {
		host, port, err := net.SplitHostPort(f.addr)
		if err != nil {
			return err
		}
		cfg.Host, cfg.Port = host, port
	}

	if f.staticDir != "" {
		cfg.StaticDir = f.staticDir
	}

	if f.staticPrefix != "" {
		cfg.StaticPrefix = f.staticPrefix
	}

	return cfg.Valid()
}

// relay re-emits "message" events, addressed or broadcast, on behalf of the sender.
func relay(hub *socket.Hub) {
	hub.On("message", func(msg socket.Message, connID string) {
		opts := []socket.EmitOpt{socket.From(connID)}
		if msg.To != "" {
			opts = append(opts, socket.To(msg.To))
		}

		hub.Emit("message", msg.Body, opts...)
	})
}

func healthRoutes() *router.Router {
	rt := router.New("/health")
	rt.Get("/", router.HandlerFunc(func(c *router.Context) *resp.Response {
		return resp.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}))

	return rt
}
