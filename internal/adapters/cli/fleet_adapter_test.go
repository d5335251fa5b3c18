package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/ports/primary"
)

// mockFleetService implements primary.FleetService for testing
type mockFleetService struct {
	listShipsFn func(ctx context.Context) (*primary.FleetListing, error)
	getShipFn   func(ctx context.Context, name string) (*primary.ShipDetail, error)
	schema      []byte
}

func (m *mockFleetService) ListShips(ctx context.Context) (*primary.FleetListing, error) {
	if m.listShipsFn != nil {
		return m.listShipsFn(ctx)
	}
	return &primary.FleetListing{Report: &primary.LoadReport{}}, nil
}

func (m *mockFleetService) GetShip(ctx context.Context, name string) (*primary.ShipDetail, error) {
	if m.getShipFn != nil {
		return m.getShipFn(ctx, name)
	}
	return nil, errors.New("not found")
}

func (m *mockFleetService) Schema(ctx context.Context) ([]byte, error) {
	return m.schema, nil
}

func listing(problems ...*primary.LoadProblem) *primary.FleetListing {
	return &primary.FleetListing{
		Ships: []*primary.ShipSummary{
			{Name: "Aurora", Valid: true, Doors: 1, Height: 4.25, HasHeight: true, Source: "ships/Aurora.json"},
			{Name: "Borealis", Valid: false, Source: "ships/Borealis.json"},
		},
		Report: &primary.LoadReport{Loaded: 2, Problems: problems},
	}
}

func TestFleetAdapter_List(t *testing.T) {
	service := &mockFleetService{listShipsFn: func(ctx context.Context) (*primary.FleetListing, error) {
		return listing(&primary.LoadProblem{Kind: primary.ProblemMalformed, Ship: "Broken", Source: "ships/Broken.json", Message: "malformed document"}), nil
	}}
	var out bytes.Buffer

	require.NoError(t, NewFleetAdapter(service, &out).List(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Aurora")
	assert.Contains(t, s, "4.25")
	assert.Contains(t, s, "invalid")
	assert.Contains(t, s, "! ships/Broken.json (malformed): malformed document")
}

func TestFleetAdapter_ListEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewFleetAdapter(&mockFleetService{}, &out).List(context.Background()))
	assert.Contains(t, out.String(), "No ships found")
}

func TestFleetAdapter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		listing *primary.FleetListing
		wantErr bool
	}{
		{
			name:    "invalid ship fails",
			listing: listing(),
			wantErr: true,
		},
		{
			name: "all valid",
			listing: &primary.FleetListing{
				Ships:  []*primary.ShipSummary{{Name: "Aurora", Valid: true}},
				Report: &primary.LoadReport{Loaded: 1},
			},
		},
		{
			name: "load problem fails",
			listing: &primary.FleetListing{
				Ships:  []*primary.ShipSummary{{Name: "Aurora", Valid: true}},
				Report: &primary.LoadReport{Loaded: 1, Problems: []*primary.LoadProblem{{Kind: primary.ProblemDuplicate}}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockFleetService{listShipsFn: func(ctx context.Context) (*primary.FleetListing, error) {
				return tt.listing, nil
			}}
			var out bytes.Buffer

			err := NewFleetAdapter(service, &out).Validate(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFleetInvalid)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "✓ 1 ships valid")
		})
	}
}

func TestFleetAdapter_Show(t *testing.T) {
	service := &mockFleetService{getShipFn: func(ctx context.Context, name string) (*primary.ShipDetail, error) {
		return &primary.ShipDetail{
			ShipSummary: primary.ShipSummary{Name: name, Valid: false},
			Fields: []*primary.FieldValue{
				{Key: "name", Label: "Name", Value: name, Valid: true},
				{Key: "length", Label: "Length", Valid: false, Error: "required value is empty"},
			},
			Doors: []*primary.DoorDetail{{
				Name:   "gangway",
				Valid:  true,
				Fields: []*primary.FieldValue{{Key: "name", Label: "Name", Value: "gangway", Valid: true}, {Key: "side", Label: "Side", Value: "Port", Valid: true}},
			}},
		}, nil
	}}
	var out bytes.Buffer

	ship, err := NewFleetAdapter(service, &out).Show(context.Background(), "Aurora")
	require.NoError(t, err)
	assert.Equal(t, "Aurora", ship.Name)

	s := out.String()
	assert.Contains(t, s, "Ship:   Aurora")
	assert.Contains(t, s, "Height: -")
	assert.Contains(t, s, "(required value is empty)")
	assert.Contains(t, s, "Door gangway (valid)")
	assert.Contains(t, s, "Port")
	assert.NotContains(t, s, "Name:")
}

func TestFleetAdapter_Schema(t *testing.T) {
	var out bytes.Buffer
	service := &mockFleetService{schema: []byte("{}\n")}
	require.NoError(t, NewFleetAdapter(service, &out).Schema(context.Background()))
	assert.Equal(t, "{}\n", out.String())
}
