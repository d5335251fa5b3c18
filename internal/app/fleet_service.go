package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/portplan/internal/core/document"
	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/ports/secondary"
)

// FleetServiceImpl implements the FleetService interface.
type FleetServiceImpl struct {
	store  secondary.ShipStore
	model  ShipModel
	logger zerolog.Logger
}

var _ primary.FleetService = (*FleetServiceImpl)(nil)

// NewFleetService creates a new FleetService with injected dependencies.
func NewFleetService(store secondary.ShipStore, model ShipModel, logger zerolog.Logger) *FleetServiceImpl {
	return &FleetServiceImpl{
		store:  store,
		model:  model,
		logger: logger,
	}
}

// ListShips loads every stored ship and summarizes it.
func (s *FleetServiceImpl) ListShips(ctx context.Context) (*primary.FleetListing, error) {
	loaded, err := loadFleet(ctx, s.store, s.model, s.logger)
	if err != nil {
		return nil, err
	}

	listing := &primary.FleetListing{Report: loaded.report}
	for _, ship := range loaded.fleet.Ships() {
		listing.Ships = append(listing.Ships, summarize(ship, loaded.sources[ship]))
	}
	return listing, nil
}

// GetShip loads the stored ships and returns one in full.
func (s *FleetServiceImpl) GetShip(ctx context.Context, name string) (*primary.ShipDetail, error) {
	loaded, err := loadFleet(ctx, s.store, s.model, s.logger)
	if err != nil {
		return nil, err
	}

	ship, ok := loaded.fleet.Ship(name)
	if !ok {
		return nil, fmt.Errorf("ship %q: %w", name, secondary.ErrShipNotFound)
	}
	return detail(ship, loaded.sources[ship]), nil
}

// Schema returns the JSON Schema describing ship documents.
func (s *FleetServiceImpl) Schema(ctx context.Context) ([]byte, error) {
	js := document.JSONSchema(s.model.ShipSchema, s.model.DoorSchema)
	data, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return append(data, '\n'), nil
}
