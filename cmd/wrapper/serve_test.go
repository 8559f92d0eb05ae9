package main

import (
	"testing"

	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/lindsaykwardell/http-wrapper/app"
	"github.com/stretchr/testify/require"
)

func TestServeFlagsApply(t *testing.T) {
	base := app.Config{Env: wrapper.Testing, Host: "", Port: "3000", WSPath: "/ws"}

	tcs := []struct {
		name     string
		flags    serveFlags
		expected app.Config
		err      bool
	}{
		{"None", serveFlags{}, base, false},
		{
			"Addr",
			serveFlags{addr: "127.0.0.1:8080"},
			app.Config{Env: wrapper.Testing, Host: "127.0.0.1", Port: "8080", WSPath: "/ws"},
			false,
		},
		{
			"Static",
			serveFlags{staticDir: "public", staticPrefix: "/assets"},
			app.Config{Env: wrapper.Testing, Port: "3000", WSPath: "/ws", StaticDir: "public", StaticPrefix: "/assets"},
			false,
		},
		{"Bad-Addr", serveFlags{addr: "8080"}, base, true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			cfg := base

			// Act
			err := tc.flags.apply(&cfg)

			// Assert
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, cfg)
		})
	}
}
