// Package cli provides thin CLI adapters that translate between terminal
// concerns and application services. Adapters format output and read
// input; the services own the ship model.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/example/portplan/internal/ports/primary"
)

// ErrFleetInvalid is returned by Validate when any ship is invalid or any
// document could not be loaded.
var ErrFleetInvalid = errors.New("fleet has invalid ships")

// FleetAdapter translates CLI operations to FleetService calls.
type FleetAdapter struct {
	service primary.FleetService
	out     io.Writer
}

// NewFleetAdapter creates a new FleetAdapter with the given service.
func NewFleetAdapter(service primary.FleetService, out io.Writer) *FleetAdapter {
	return &FleetAdapter{
		service: service,
		out:     out,
	}
}

// List prints one line per stored ship followed by any load problems.
func (a *FleetAdapter) List(ctx context.Context) error {
	listing, err := a.service.ListShips(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ships: %w", err)
	}

	if len(listing.Ships) == 0 {
		fmt.Fprintln(a.out, "No ships found")
	} else {
		fmt.Fprintf(a.out, "\n%-24s %-8s %-6s %-8s %s\n", "NAME", "STATUS", "DOORS", "HEIGHT", "SOURCE")
		fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
		for _, s := range listing.Ships {
			fmt.Fprintf(a.out, "%-24s %s %-6d %-8s %s\n", s.Name, statusCell(s.Valid), s.Doors, heightText(s), s.Source)
		}
		fmt.Fprintln(a.out)
	}

	a.problems(listing.Report)
	return nil
}

// Show prints every field and door of one ship.
func (a *FleetAdapter) Show(ctx context.Context, name string) (*primary.ShipDetail, error) {
	ship, err := a.service.GetShip(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}

	fmt.Fprintf(a.out, "\nShip:   %s\n", ship.Name)
	fmt.Fprintf(a.out, "Status: %s\n", statusWord(ship.Valid))
	fmt.Fprintf(a.out, "Height: %s\n", heightText(&ship.ShipSummary))
	if ship.Source != "" {
		fmt.Fprintf(a.out, "Source: %s\n", ship.Source)
	}
	fmt.Fprintln(a.out)
	a.fields("  ", withoutIdentity(ship.Fields))

	for _, d := range ship.Doors {
		fmt.Fprintf(a.out, "\n  Door %s (%s)\n", d.Name, statusWord(d.Valid))
		a.fields("    ", withoutIdentity(d.Fields))
	}
	fmt.Fprintln(a.out)
	return ship, nil
}

// Validate checks every stored ship and fails when any is invalid or
// unreadable.
func (a *FleetAdapter) Validate(ctx context.Context) error {
	listing, err := a.service.ListShips(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ships: %w", err)
	}

	invalid := 0
	for _, s := range listing.Ships {
		if s.Valid {
			fmt.Fprintf(a.out, "%s %s\n", color.GreenString("✓"), s.Name)
			continue
		}
		invalid++
		fmt.Fprintf(a.out, "%s %s\n", color.RedString("✗"), s.Name)
	}
	a.problems(listing.Report)

	if invalid > 0 || len(listing.Report.Problems) > 0 {
		return fmt.Errorf("%d invalid, %d unloadable: %w", invalid, len(listing.Report.Problems), ErrFleetInvalid)
	}
	fmt.Fprintf(a.out, "✓ %d ships valid\n", len(listing.Ships))
	return nil
}

// Schema writes the JSON Schema for ship documents.
func (a *FleetAdapter) Schema(ctx context.Context) error {
	data, err := a.service.Schema(ctx)
	if err != nil {
		return err
	}
	_, err = a.out.Write(data)
	return err
}

func (a *FleetAdapter) fields(indent string, fields []*primary.FieldValue) {
	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = "-"
		}
		line := fmt.Sprintf("%s%-24s %s", indent, f.Label+":", value)
		if !f.Valid {
			line += color.RedString("  (%s)", f.Error)
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *FleetAdapter) problems(report *primary.LoadReport) {
	if report == nil || len(report.Problems) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	for _, p := range report.Problems {
		fmt.Fprintf(a.out, "%s %s (%s): %s\n", warn.Sprint("!"), p.Source, p.Kind, p.Message)
	}
}

// withoutIdentity drops the leading name field, which is already shown in
// the heading.
func withoutIdentity(fields []*primary.FieldValue) []*primary.FieldValue {
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func statusWord(valid bool) string {
	if valid {
		return color.GreenString("valid")
	}
	return color.RedString("invalid")
}

// statusCell pads before coloring so escape codes do not break alignment.
func statusCell(valid bool) string {
	if valid {
		return color.GreenString("%-8s", "valid")
	}
	return color.RedString("%-8s", "invalid")
}

func heightText(s *primary.ShipSummary) string {
	if !s.HasHeight {
		return "-"
	}
	return strconv.FormatFloat(s.Height, 'g', -1, 64)
}
