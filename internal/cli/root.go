// Package cli defines the portplan cobra commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/portplan/internal/config"
	"github.com/example/portplan/internal/version"
	"github.com/example/portplan/internal/wire"
)

// RootCmd returns the portplan command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "portplan",
		Short:   "Edit the ships that call at the port",
		Version: version.String(),
		Long: `portplan maintains the fleet of ships that call at a cruise port: their
dimensions, hull colors and the doors passengers board through.

Ships are stored as one JSON document each, in a directory, SQLite or
PostgreSQL, and edited in a terminal outline or over HTTP.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			wire.SetConfigPath(path)
		},
	}
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Config file")

	rootCmd.AddCommand(ShipsCmd())
	rootCmd.AddCommand(EditCmd())
	rootCmd.AddCommand(SchemaCmd())
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ConfigCmd())
	rootCmd.AddCommand(VersionCmd())
	return rootCmd
}
