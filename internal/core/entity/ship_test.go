package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/core/schema"
	"github.com/example/portplan/internal/core/validate"
)

func newTestShip(t *testing.T) *Ship {
	t.Helper()
	return NewShip(schema.Ship, schema.Door, WithSeed(7))
}

func fillDoor(t *testing.T, d *Door) {
	t.Helper()
	for key, raw := range map[string]string{
		"bow_distance":           "10",
		"stern_distance":         "200",
		"width":                  "2.5",
		"height":                 "3",
		"height_above_waterline": "4.25",
	} {
		require.NoError(t, d.SetField(key, raw))
	}
}

func fillShip(t *testing.T, s *Ship) {
	t.Helper()
	require.NoError(t, s.SetField("name", "Aurora"))
	require.NoError(t, s.SetField("length", "120.5"))
	require.NoError(t, s.SetValue("pattern", schema.PatternDense3))
	require.NoError(t, s.SetValue("color", schema.Blue))
	require.NoError(t, s.SetField("width", "18.0"))
}

func TestNewShip_Defaults(t *testing.T) {
	s := newTestShip(t)

	assert.False(t, s.Valid())
	assert.Empty(t, s.Doors())

	name, _ := s.Field("name")
	assert.False(t, name.IsSet())
	length, _ := s.Field("length")
	assert.False(t, length.IsSet())
	assert.False(t, length.Valid())

	color, _ := s.Field("color")
	require.True(t, color.IsSet(), "color defaults to a random palette entry")
	assert.True(t, color.Valid())
	pattern, _ := s.Field("pattern")
	require.True(t, pattern.IsSet())
	assert.True(t, pattern.Valid())

	_, hasHeight := s.Height()
	assert.False(t, hasHeight)
}

func TestShip_DoorlessIsInvalid(t *testing.T) {
	s := newTestShip(t)
	fillShip(t, s)

	for _, f := range s.Fields() {
		assert.True(t, f.Valid(), "field %s", f.Key())
	}
	assert.False(t, s.Valid())
	assert.False(t, s.Revalidate())
}

func TestShip_ScenarioAddValidDoor(t *testing.T) {
	s := newTestShip(t)
	fillShip(t, s)
	require.False(t, s.Valid())

	d := s.AddDoor()
	assert.Equal(t, "Door 1", d.Name())
	assert.False(t, s.Valid(), "a fresh door has unset numbers")

	fillDoor(t, d)
	assert.True(t, d.Valid())
	assert.True(t, s.Valid())

	h, ok := s.Height()
	require.True(t, ok)
	assert.Equal(t, 4.25, h)
}

func TestShip_FloatEditRejectsText(t *testing.T) {
	s := newTestShip(t)
	require.NoError(t, s.SetField("length", "100"))

	err := s.SetField("length", "long")
	require.ErrorIs(t, err, validate.ErrTypeMismatch)

	f, _ := s.Field("length")
	assert.False(t, f.Valid())
	assert.False(t, f.IsSet(), "a rejected edit clears the stored value")
	assert.Equal(t, "", f.Text())
	assert.ErrorIs(t, f.Err(), validate.ErrTypeMismatch)
}

func TestShip_EmptyDoorEditPropagates(t *testing.T) {
	s := newTestShip(t)
	fillShip(t, s)
	d := s.AddDoor()
	fillDoor(t, d)
	require.True(t, s.Valid())

	err := d.SetField("width", "")
	require.ErrorIs(t, err, validate.ErrEmptyRequired)

	f, _ := d.Field("width")
	assert.False(t, f.Valid())
	assert.False(t, d.Valid())
	assert.False(t, s.Valid())
}

func TestShip_RevalidateIsIdempotent(t *testing.T) {
	s := newTestShip(t)
	fillShip(t, s)
	fillDoor(t, s.AddDoor())

	before := fieldTexts(s)
	first := s.Revalidate()
	second := s.Revalidate()
	assert.Equal(t, first, second)
	assert.Equal(t, before, fieldTexts(s))
}

func TestShip_HeightIsMaxOverDoors(t *testing.T) {
	s := newTestShip(t)
	a := s.AddDoor()
	b := s.AddDoor()
	require.NoError(t, a.SetField("height_above_waterline", "3"))
	require.NoError(t, b.SetField("height_above_waterline", "7.5"))

	h, ok := s.Height()
	require.True(t, ok)
	assert.Equal(t, 7.5, h)

	s.RemoveDoor(b)
	h, _ = s.Height()
	assert.Equal(t, 3.0, h)
}

func TestShip_DoorNamesAreNotReused(t *testing.T) {
	s := newTestShip(t)
	d1 := s.AddDoor()
	d2 := s.AddDoor()
	require.Equal(t, "Door 2", d2.Name())

	require.True(t, s.RemoveDoor(d2))
	assert.Nil(t, d2.Ship())
	assert.Equal(t, "Door 1", d1.Name(), "removal does not renumber")

	d3 := s.AddDoor()
	assert.Equal(t, "Door 3", d3.Name())
}

func TestShip_AutoNameSkipsUserNames(t *testing.T) {
	s := newTestShip(t)
	_, err := s.AddNamedDoor("Door 1")
	require.NoError(t, err)

	d := s.AddDoor()
	assert.Equal(t, "Door 2", d.Name())
}

func TestShip_AddNamedDoorRejectsDuplicates(t *testing.T) {
	s := newTestShip(t)
	_, err := s.AddNamedDoor("gangway")
	require.NoError(t, err)

	_, err = s.AddNamedDoor(" gangway ")
	assert.ErrorIs(t, err, validate.ErrDuplicateName)

	_, err = s.AddNamedDoor("  ")
	assert.ErrorIs(t, err, validate.ErrEmptyRequired)
	assert.Len(t, s.Doors(), 1)
}

func TestDoor_RenameToSiblingNameFails(t *testing.T) {
	s := newTestShip(t)
	s.AddDoor()
	d2 := s.AddDoor()

	err := d2.SetField("name", "Door 1")
	require.ErrorIs(t, err, validate.ErrDuplicateName)
	assert.False(t, d2.Valid())
	assert.Equal(t, "", d2.Name())
}

func TestDoor_SideDefaultsToBothAndAcceptsPicks(t *testing.T) {
	s := newTestShip(t)
	d := s.AddDoor()

	side, _ := d.Field("side")
	assert.Equal(t, schema.SideBoth, side.Value())

	require.NoError(t, d.SetValue("side", schema.SidePort))
	assert.Equal(t, schema.SidePort, side.Value())

	err := d.SetValue("side", schema.Red)
	assert.ErrorIs(t, err, validate.ErrTypeMismatch)
	assert.False(t, side.Valid())
}

func TestShip_UnknownField(t *testing.T) {
	s := newTestShip(t)
	err := s.SetField("draft", "3")
	require.Error(t, err)
	_, ok := s.Field("draft")
	assert.False(t, ok)
}

func fieldTexts(s *Ship) []string {
	var out []string
	for _, f := range s.Fields() {
		out = append(out, f.Text())
	}
	for _, d := range s.Doors() {
		for _, f := range d.Fields() {
			out = append(out, f.Text())
		}
	}
	return out
}
