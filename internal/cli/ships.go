package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/portplan/internal/wire"
)

// ShipsCmd returns the read-only fleet commands.
func ShipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ships",
		Short: "Inspect stored ships",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored ships",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.FleetAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.List(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a ship and its doors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.FleetAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Show(cmd.Context(), args[0])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check every stored ship; exits non-zero if any is invalid",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.FleetAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Validate(cmd.Context())
		},
	})

	return cmd
}

// SchemaCmd prints the JSON Schema of ship documents.
func SchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for ship documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.FleetAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Schema(cmd.Context())
		},
	}
}
