package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/example/portplan/internal/ports/secondary"
)

// Ensure mockShipStore implements the interface
var _ secondary.ShipStore = (*mockShipStore)(nil)

// mockShipStore implements secondary.ShipStore for testing.
type mockShipStore struct {
	docs       map[string][]byte
	unreadable map[string]error
	listErr    error
	saveErr    error
	saves      []string
	deletes    []string
}

func newMockShipStore() *mockShipStore {
	return &mockShipStore{
		docs:       make(map[string][]byte),
		unreadable: make(map[string]error),
	}
}

func (m *mockShipStore) put(name, data string) *mockShipStore {
	m.docs[name] = []byte(data)
	return m
}

func (m *mockShipStore) List(ctx context.Context) ([]*secondary.ShipDocument, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var names []string
	for name := range m.docs {
		names = append(names, name)
	}
	for name := range m.unreadable {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*secondary.ShipDocument
	for _, name := range names {
		out = append(out, &secondary.ShipDocument{
			Name:   name,
			Data:   m.docs[name],
			Source: "mock/" + name + ".json",
			Err:    m.unreadable[name],
		})
	}
	return out, nil
}

func (m *mockShipStore) Get(ctx context.Context, name string) (*secondary.ShipDocument, error) {
	data, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("ship %q: %w", name, secondary.ErrShipNotFound)
	}
	return &secondary.ShipDocument{Name: name, Data: data, Source: "mock/" + name + ".json"}, nil
}

func (m *mockShipStore) Save(ctx context.Context, doc *secondary.ShipDocument) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.Name] = doc.Data
	m.saves = append(m.saves, doc.Name)
	return nil
}

func (m *mockShipStore) Delete(ctx context.Context, name string) error {
	delete(m.docs, name)
	m.deletes = append(m.deletes, name)
	return nil
}

var errDiskGone = errors.New("disk gone")

const validShip = `{
  "length": 120.5,
  "pattern": 3,
  "color": 9,
  "width": 18,
  "gangway": {
    "side": 0,
    "bow_distance": 10,
    "stern_distance": 100,
    "width": 2,
    "height": 3,
    "height_above_waterline": 4.25
  }
}`

const doorlessShip = `{"length": 80, "pattern": 0, "color": 7, "width": 12}`
