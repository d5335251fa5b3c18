package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/ports/secondary"
)

func newTestFleetService(store secondary.ShipStore) *FleetServiceImpl {
	return NewFleetService(store, DefaultShipModel(5), zerolog.Nop())
}

func TestFleetService_ListShips(t *testing.T) {
	ctx := context.Background()
	store := newMockShipStore().
		put("Aurora", validShip).
		put("Borealis", doorlessShip).
		put("Broken", `{"length": 1, "typo": 5}`)
	store.unreadable["Locked"] = errDiskGone

	listing, err := newTestFleetService(store).ListShips(ctx)
	require.NoError(t, err)

	require.Len(t, listing.Ships, 2)
	aurora := listing.Ships[0]
	assert.Equal(t, "Aurora", aurora.Name)
	assert.True(t, aurora.Valid)
	assert.Equal(t, 1, aurora.Doors)
	assert.True(t, aurora.HasHeight)
	assert.Equal(t, 4.25, aurora.Height)
	assert.Equal(t, "mock/Aurora.json", aurora.Source)

	borealis := listing.Ships[1]
	assert.False(t, borealis.Valid, "a ship without doors is invalid")

	assert.Equal(t, 2, listing.Report.Loaded)
	require.Len(t, listing.Report.Problems, 2)
	kinds := map[string]string{}
	for _, p := range listing.Report.Problems {
		kinds[p.Ship] = p.Kind
	}
	assert.Equal(t, primary.ProblemMalformed, kinds["Broken"])
	assert.Equal(t, primary.ProblemUnreadable, kinds["Locked"])
}

func TestFleetService_ListShipsStoreError(t *testing.T) {
	store := newMockShipStore()
	store.listErr = errDiskGone

	_, err := newTestFleetService(store).ListShips(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskGone)
}

func TestLoadFleet_DuplicateNamesKeepFirst(t *testing.T) {
	// The filesystem store can report two files that trim to one ship name.
	store := &duplicateStore{mockShipStore: newMockShipStore()}

	loaded, err := loadFleet(context.Background(), store, DefaultShipModel(1), zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, 1, loaded.fleet.Len())
	ship := loaded.fleet.Ships()[0]
	assert.Equal(t, "first.json", loaded.sources[ship])
	require.Len(t, loaded.report.Problems, 1)
	assert.Equal(t, primary.ProblemDuplicate, loaded.report.Problems[0].Kind)
	assert.Equal(t, "second.json", loaded.report.Problems[0].Source)
}

type duplicateStore struct {
	*mockShipStore
}

func (d *duplicateStore) List(ctx context.Context) ([]*secondary.ShipDocument, error) {
	return []*secondary.ShipDocument{
		{Name: "Aurora", Data: []byte(validShip), Source: "first.json"},
		{Name: "Aurora", Data: []byte(doorlessShip), Source: "second.json"},
	}, nil
}

func TestFleetService_GetShip(t *testing.T) {
	ctx := context.Background()
	store := newMockShipStore().put("Aurora", validShip)
	svc := newTestFleetService(store)

	ship, err := svc.GetShip(ctx, "Aurora")
	require.NoError(t, err)
	assert.Equal(t, "Aurora", ship.Name)
	require.Len(t, ship.Fields, 5)
	assert.Equal(t, "length", ship.Fields[1].Key)
	assert.Equal(t, "120.5", ship.Fields[1].Value)
	assert.Equal(t, "Dense3", ship.Fields[2].Value)
	assert.Equal(t, "blue", ship.Fields[3].Value)
	require.Len(t, ship.Doors, 1)
	assert.Equal(t, "gangway", ship.Doors[0].Name)
	assert.Equal(t, "Port", ship.Doors[0].Fields[1].Value)

	_, err = svc.GetShip(ctx, "Nope")
	assert.ErrorIs(t, err, secondary.ErrShipNotFound)
}

func TestFleetService_Schema(t *testing.T) {
	data, err := newTestFleetService(newMockShipStore()).Schema(context.Background())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Ship document", out["title"])
	assert.Contains(t, out, "additionalProperties")
}
