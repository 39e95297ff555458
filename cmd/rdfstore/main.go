package main

import (
	"os"

	"github.com/spf13/cobra"

	"rdfstore/internal/interfaces/cli/migrate"
	"rdfstore/internal/interfaces/cli/server"
	"rdfstore/internal/interfaces/cli/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rdfstore",
		Short: "Research data fileset provisioning service",
		Long:  `rdfstore provisions research storage allocations across the directory, the filesystem and local records, and keeps the three in sync.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
