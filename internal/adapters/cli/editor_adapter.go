package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/example/portplan/internal/core/validate"
	"github.com/example/portplan/internal/ports/primary"
)

// ErrQuit ends the REPL.
var ErrQuit = errors.New("quit")

const editorHelp = `Commands:
  tree                 show the outline
  add-ship             add a ship
  add-door <n>         add a door to the ship owning row n
  set <n> [value]      write value into row n (empty clears)
  click <n>            activate row n (add, pick or cycle)
  pick <n> <value>     choose a pattern, color or side for row n
  rm <n>               remove the ship or door at row n
  select <n>           select the ship owning row n
  doc <name>           print the document for a ship
  save                 write the fleet to the store
  quit                 leave the editor
`

// EditorAdapter is an interactive line editor over EditorService. Row
// numbers refer to the most recently printed outline.
type EditorAdapter struct {
	service  primary.EditorService
	prompt   *Prompt
	out      io.Writer
	renderer *TreeRenderer
	rows     []*primary.TreeRow
}

// NewEditorAdapter creates a REPL reading commands from prompt.
func NewEditorAdapter(service primary.EditorService, prompt *Prompt, out io.Writer) *EditorAdapter {
	return &EditorAdapter{
		service:  service,
		prompt:   prompt,
		out:      out,
		renderer: NewTreeRenderer(out),
	}
}

// Run prints the outline and executes commands until quit or end of input.
func (a *EditorAdapter) Run(ctx context.Context) error {
	if err := a.showTree(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, err := a.prompt.ReadLine("portplan> ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
		err = a.Exec(ctx, input)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			if !recoverable(err) {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", color.RedString("✗"), err)
		}
	}
}

// recoverable reports whether the session can continue after err.
func recoverable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Exec runs one REPL command.
func (a *EditorAdapter) Exec(ctx context.Context, input string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprint(a.out, editorHelp)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	case "tree", "ls":
		return a.showTree(ctx)
	case "add-ship":
		if _, err := a.service.AddShip(ctx); err != nil {
			return err
		}
		return a.showTree(ctx)
	case "add-door":
		row, _, err := a.row(rest)
		if err != nil {
			return err
		}
		if _, err := a.service.AddDoor(ctx, row.ID); err != nil {
			return err
		}
		return a.showTree(ctx)
	case "set":
		row, value, err := a.row(rest)
		if err != nil {
			return err
		}
		return a.afterMutation(ctx, a.service.Edit(ctx, row.ID, value))
	case "click":
		row, _, err := a.row(rest)
		if err != nil {
			return err
		}
		return a.afterMutation(ctx, a.service.Activate(ctx, row.ID))
	case "pick":
		row, value, err := a.row(rest)
		if err != nil {
			return err
		}
		return a.afterMutation(ctx, a.service.Pick(ctx, row.ID, value))
	case "rm":
		row, _, err := a.row(rest)
		if err != nil {
			return err
		}
		if err := a.service.Remove(ctx, row.ID); err != nil {
			return err
		}
		return a.showTree(ctx)
	case "select":
		row, _, err := a.row(rest)
		if err != nil {
			return err
		}
		sel, err := a.service.Select(ctx, row.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "✓ Selected %s (%s)\n", displayName(sel.Name), sel.ShipID)
		return nil
	case "doc":
		data, err := a.service.Document(ctx, rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(data))
		return nil
	case "save":
		return a.save(ctx)
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

// afterMutation redraws the outline. Validation errors still changed the
// tree, so they are shown after the redraw.
func (a *EditorAdapter) afterMutation(ctx context.Context, err error) error {
	if err != nil && !isValidation(err) {
		return err
	}
	if drawErr := a.showTree(ctx); drawErr != nil {
		return drawErr
	}
	return err
}

func isValidation(err error) bool {
	return errors.Is(err, validate.ErrTypeMismatch) ||
		errors.Is(err, validate.ErrEmptyRequired) ||
		errors.Is(err, validate.ErrDuplicateName)
}

func (a *EditorAdapter) showTree(ctx context.Context) error {
	rows, err := a.service.Tree(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tree: %w", err)
	}
	a.rows = a.renderer.Render(rows)
	return nil
}

func (a *EditorAdapter) save(ctx context.Context) error {
	report, err := a.service.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	for _, name := range report.Saved {
		fmt.Fprintf(a.out, "✓ Saved %s\n", name)
	}
	for _, name := range report.Deleted {
		fmt.Fprintf(a.out, "✓ Deleted %s\n", name)
	}
	for _, skip := range report.Skipped {
		fmt.Fprintf(a.out, "%s Skipped %s: %s\n", color.YellowString("!"), displayName(skip.Ship), skip.Reason)
	}
	return nil
}

// row resolves the leading row number in args and returns the remainder.
func (a *EditorAdapter) row(args string) (*primary.TreeRow, string, error) {
	num, rest, _ := strings.Cut(args, " ")
	if num == "" {
		return nil, "", errors.New("row number required")
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > len(a.rows) {
		return nil, "", fmt.Errorf("no row %q", num)
	}
	return a.rows[n-1], strings.TrimSpace(rest), nil
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
