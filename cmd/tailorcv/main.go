package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tailorcv/tailorcv/internal/interfaces/cli/migrate"
	"github.com/tailorcv/tailorcv/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tailorcv",
		Short: "TailorCV - resume builder API",
		Long:  `TailorCV is the API server behind the TailorCV resume builder, with plan entitlements, usage metering, an AI assistant, and admin analytics.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
