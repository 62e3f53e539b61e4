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

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopkit",
		Short: "Persisted reactive client-state for storefront apps",
		Long: `Shopkit is the client-resident state layer of a storefront app.

It owns three persisted reactive stores — cart, wishlist, and auth
session — over a pluggable key-value backend. This CLI hosts the
debug server and inspects persisted snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
