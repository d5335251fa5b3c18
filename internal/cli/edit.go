package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/portplan/internal/adapters/cli"
	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/wire"
)

// EditCmd returns the interactive editor.
func EditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the fleet in an interactive outline",
		Long: `Open the stored fleet as a numbered outline and edit it line by line.

Rows are addressed by the number printed beside them:

  set 3 120.5     write a value
  click 4         open the picker for a pattern or color row, cycle a side
  click 12        on "Add door" or "Add ship", add one
  save            write every ship back to the store

Type help inside the editor for the full command list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := cliadapter.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
			editor, err := wire.NewEditor(tree.Options{Patterns: prompt, Colors: prompt})
			if err != nil {
				return err
			}
			defer wire.Close()
			defer editor.Close()
			return runEdit(cmd.Context(), editor, prompt, cmd.OutOrStdout())
		},
	}
}

// runEdit loads the fleet into editor and runs the REPL.
func runEdit(ctx context.Context, editor primary.EditorService, prompt *cliadapter.Prompt, out io.Writer) error {
	report, err := editor.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open fleet: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d ships\n", report.Loaded)
	for _, p := range report.Problems {
		fmt.Fprintf(out, "%s skipped %s (%s): %s\n", color.YellowString("!"), p.Source, p.Kind, p.Message)
	}
	return cliadapter.NewEditorAdapter(editor, prompt, out).Run(ctx)
}
