// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/portplan/internal/ports/secondary"
)

const docExt = ".json"

// ShipStore implements secondary.ShipStore as one JSON file per ship in a
// directory. The file stem is the ship's name.
type ShipStore struct {
	dir string
}

var _ secondary.ShipStore = (*ShipStore)(nil)

// NewShipStore creates a store over dir. If dir is empty, defaults to
// ./ships in the working directory.
func NewShipStore(dir string) (*ShipStore, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = filepath.Join(wd, "ships")
	}
	return &ShipStore{dir: dir}, nil
}

// Dir returns the directory the store reads and writes.
func (s *ShipStore) Dir() string { return s.dir }

// List returns every *.json document sorted by file name. A missing
// directory is an empty fleet. Files that cannot be read are returned with
// Err set.
func (s *ShipStore) List(ctx context.Context) ([]*secondary.ShipDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ships directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), docExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]*secondary.ShipDocument, 0, len(names))
	for _, file := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs = append(docs, s.read(file))
	}
	return docs, nil
}

func (s *ShipStore) read(file string) *secondary.ShipDocument {
	path := filepath.Join(s.dir, file)
	doc := &secondary.ShipDocument{
		Name:   strings.TrimSuffix(file, filepath.Ext(file)),
		Source: path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		doc.Err = err
		return doc
	}
	doc.Data = data
	if info, err := os.Stat(path); err == nil {
		doc.UpdatedAt = info.ModTime().UTC().Format(time.RFC3339)
	}
	return doc
}

// Get retrieves one document by ship name.
func (s *ShipStore) Get(ctx context.Context, name string) (*secondary.ShipDocument, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ship %q: %w", name, secondary.ErrShipNotFound)
	}
	doc := s.read(filepath.Base(path))
	if doc.Err != nil {
		return nil, fmt.Errorf("failed to read ship %q: %w", name, doc.Err)
	}
	return doc, nil
}

// Save writes the document to a temporary file and renames it into place.
func (s *ShipStore) Save(ctx context.Context, doc *secondary.ShipDocument) error {
	path, err := s.path(doc.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create ships directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".portplan-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ship %q: %w", doc.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write ship %q: %w", doc.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save ship %q: %w", doc.Name, err)
	}
	return nil
}

// Delete removes the ship's file.
func (s *ShipStore) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete ship %q: %w", name, err)
	}
	return nil
}

// path maps a ship name to its file. Names that would escape the directory
// are rejected.
func (s *ShipStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("ship name %q cannot be used as a file name", name)
	}
	return filepath.Join(s.dir, name+docExt), nil
}
