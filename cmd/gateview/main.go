package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌┬┐┌─┐┬  ┬┬┌─┐┬ ┬
  │ ┬├─┤ │ ├┤ └┐┌┘│├┤ │││
  └─┘┴ ┴ ┴ └─┘ └┘ ┴└─┘└┴┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "gateview",
		Short: "Authorization-gated route views for Go web apps",
		Long: `Gateview renders routed pages behind authorization gates.

Pages declare their authorization requirements next to their route
pattern; the gate resolves them, waits on the request's authentication
state, and renders pending, authorized, or denied content. Viewers who
arrive before authentication settles get the final outcome pushed over
a websocket.

The serve command runs a small demo application whose pages exercise
role and permission requirements, with JWT authentication and optional
externally managed requirement manifests.`,
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

// printBanner prints the gateview ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
