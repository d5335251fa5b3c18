package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/portplan/internal/core/document"
	"github.com/example/portplan/internal/core/entity"
	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/core/validate"
	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/ports/secondary"
)

// ShipModel carries the schemas and entity options every service builds
// ships with.
type ShipModel struct {
	ShipSchema schema.Schema
	DoorSchema schema.Schema
	Options    []entity.Option
}

// DefaultShipModel uses the built-in schemas. A non-zero seed makes default
// colors and patterns deterministic.
func DefaultShipModel(seed uint64) ShipModel {
	m := ShipModel{ShipSchema: schema.Ship, DoorSchema: schema.Door}
	if seed != 0 {
		m.Options = append(m.Options, entity.WithSeed(seed))
	}
	return m
}

func (m ShipModel) newFleet() *entity.Fleet {
	return entity.NewFleet(m.ShipSchema, m.DoorSchema, m.Options...)
}

// loadedFleet is the result of reading every stored document.
type loadedFleet struct {
	fleet   *entity.Fleet
	sources map[*entity.Ship]string
	report  *primary.LoadReport
}

// loadFleet hydrates every stored document into a new fleet. A document
// that cannot be read or parsed, or whose name is already taken, is skipped
// and reported; only a failing store listing aborts the load.
func loadFleet(ctx context.Context, store secondary.ShipStore, model ShipModel, logger zerolog.Logger) (*loadedFleet, error) {
	docs, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}

	out := &loadedFleet{
		fleet:   model.newFleet(),
		sources: make(map[*entity.Ship]string),
		report:  &primary.LoadReport{},
	}
	for _, doc := range docs {
		if doc.Err != nil {
			out.skip(logger, primary.ProblemUnreadable, doc, doc.Err)
			continue
		}
		ship, err := document.FromDocument(doc.Name, doc.Data, model.ShipSchema, model.DoorSchema, out.fleet.Options()...)
		if err != nil {
			out.skip(logger, primary.ProblemMalformed, doc, err)
			continue
		}
		if err := out.fleet.Add(ship); err != nil {
			kind := primary.ProblemMalformed
			if errors.Is(err, validate.ErrDuplicateName) {
				kind = primary.ProblemDuplicate
			}
			out.skip(logger, kind, doc, err)
			continue
		}
		out.sources[ship] = doc.Source
		out.report.Loaded++
	}

	logger.Info().
		Int("loaded", out.report.Loaded).
		Int("skipped", len(out.report.Problems)).
		Msg("fleet loaded")
	return out, nil
}

func (l *loadedFleet) skip(logger zerolog.Logger, kind string, doc *secondary.ShipDocument, err error) {
	logger.Warn().
		Err(err).
		Str("ship", doc.Name).
		Str("source", doc.Source).
		Str("problem", kind).
		Msg("skipping ship document")
	l.report.Problems = append(l.report.Problems, &primary.LoadProblem{
		Kind:    kind,
		Ship:    doc.Name,
		Source:  doc.Source,
		Message: err.Error(),
	})
}

func summarize(s *entity.Ship, source string) *primary.ShipSummary {
	h, ok := s.Height()
	return &primary.ShipSummary{
		Name:      s.Name(),
		Valid:     s.Valid(),
		Doors:     len(s.Doors()),
		Height:    h,
		HasHeight: ok,
		Source:    source,
	}
}

func detail(s *entity.Ship, source string) *primary.ShipDetail {
	d := &primary.ShipDetail{
		ShipSummary: *summarize(s, source),
		Fields:      fieldValues(s.Fields()),
	}
	for _, door := range s.Doors() {
		d.Doors = append(d.Doors, &primary.DoorDetail{
			Name:   door.Name(),
			Valid:  door.Valid(),
			Fields: fieldValues(door.Fields()),
		})
	}
	return d
}

func fieldValues(fields []*entity.Field) []*primary.FieldValue {
	out := make([]*primary.FieldValue, 0, len(fields))
	for _, f := range fields {
		fv := &primary.FieldValue{
			Key:   f.Key(),
			Label: f.Label(),
			Kind:  f.Kind().String(),
			Value: f.Text(),
			Valid: f.Valid(),
		}
		switch {
		case f.Err() != nil:
			fv.Error = f.Err().Error()
		case !f.Valid():
			fv.Error = validate.ErrEmptyRequired.Error()
		}
		out = append(out, fv)
	}
	return out
}

func treeRows(rows []tree.Row) []*primary.TreeRow {
	out := make([]*primary.TreeRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &primary.TreeRow{
			ID:       r.ID,
			Kind:     r.Kind.String(),
			Label:    r.Label,
			Value:    r.Value,
			Icon:     r.Icon,
			Tint:     r.Tint.String(),
			Editable: r.Editable,
			Children: treeRows(r.Children),
		})
	}
	return out
}
