// Package cmd provides the CLI commands for muninn.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nyo16/muninn/internal/logging"
)

// Version is the current version of the muninn CLI.
// Set via ldflags at build time, or defaults to dev.
var Version = "dev"

// NewRootCmd creates the root command for the muninn CLI.
func NewRootCmd() *cobra.Command {
	var logLevel string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "muninn",
		Short: "Embedded full-text search for loosely-typed documents",
		Long: `Muninn maintains a schema-driven full-text index on disk and lets you
add loosely-typed JSON documents and search them with term, parsed,
prefix, range and fuzzy queries.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(logging.Config{Level: logLevel, JSON: logJSON})
		},
	}
	cmd.SetVersionTemplate("muninn version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Minimum log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON instead of text")

	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
