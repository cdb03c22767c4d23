// Command loom is the CLI entrypoint for the loom rendering engine.
// Adapted from the teacher's cmd/vango entrypoint: cobra root command plus
// subcommands, trimmed to what a library (rather than a full framework
// with its own build pipeline and scaffolding) needs — "serve", to run a
// demo application, and "version".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ┌─┐┌─┐┌┬┐
  ║  │ ││ ││││
  ╩═╝└─┘└─┘┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "loom",
		Short: "A server-driven reactive UI rendering engine for Go",
		Long: `loom renders a component tree on the server and streams patches
to a thin JavaScript client over WebSocket, the way React/reactpy render
on the server instead of in the browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
