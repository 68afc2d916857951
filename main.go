package main

import (
	"os"

	"github.com/spf13/cobra"

	"discoveryfy/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "discoveryfy",
	Short:         "Playlist voting API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
