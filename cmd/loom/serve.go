package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/loomkit/loom/pkg/assets"
	"github.com/loomkit/loom/pkg/middleware"
	"github.com/loomkit/loom/pkg/transport"
	"github.com/loomkit/loom/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		assetsDir string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo application",
		Long: `Run a small demo application that renders a static page and serves it
over WebSocket, the same way an application built on this module's
pkg/layout and pkg/transport packages would.

Examples:
  loom serve
  loom serve --addr=:3000
  loom serve --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, assetsDir, debug)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&assetsDir, "assets-dir", "", "Directory to serve module shims from (disabled if empty)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug mode (VDOM validation, missing-key warnings, render-failure details, debug logging)")

	return cmd
}

func runServe(addr, assetsDir string, debug bool) error {
	printBanner()
	info("starting demo server on %s", addr)

	var store assets.Store
	if assetsDir != "" {
		diskStore, err := assets.NewDiskStore(assetsDir)
		if err != nil {
			return fmt.Errorf("open assets dir: %w", err)
		}
		store = diskStore
	}

	config := transport.DefaultConfig()
	config.Address = addr
	config.DebugMode = debug

	srv := transport.NewShared(config, demoRoot, nil, store)
	srv.Use(middleware.OpenTelemetry())
	srv.Use(middleware.Prometheus())

	if debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	return srv.Run()
}

// demoRoot renders a static heading and paragraph, just enough to exercise
// mount and the initial WebSocket update end to end; it has no state and
// no event handlers.
func demoRoot(props any) *vdom.Node {
	return vdom.Div(vdom.Attrs{"class": "loom-demo"},
		vdom.H1(nil, vdom.Text("loom")),
		vdom.P(nil, vdom.Text("demo server running")),
	)
}
