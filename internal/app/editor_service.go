package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/portplan/internal/core/document"
	"github.com/example/portplan/internal/core/entity"
	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/core/validate"
	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/ports/secondary"
)

// ErrEditorClosed is returned by calls made after Close.
var ErrEditorClosed = errors.New("editor is closed")

// EditorServiceImpl implements the EditorService interface. The fleet and
// its tree are owned by a single loop goroutine; every call is posted to
// it as a closure and waits for the result.
type EditorServiceImpl struct {
	store   secondary.ShipStore
	model   ShipModel
	pickers tree.Options
	logger  zerolog.Logger

	calls     chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	tree      *tree.Tree
	stored    map[uuid.UUID]string // ship ID -> name its document is stored under
	subs      map[int]chan *primary.TreeSnapshot
	nextSub   int
	version   int
}

var _ primary.EditorService = (*EditorServiceImpl)(nil)

// NewEditorService creates an editor over an empty fleet and starts its
// loop. Call Open to load stored ships and Close to stop the loop.
func NewEditorService(store secondary.ShipStore, model ShipModel, pickers tree.Options, logger zerolog.Logger) *EditorServiceImpl {
	e := &EditorServiceImpl{
		store:     store,
		model:     model,
		pickers:   pickers,
		logger:    logger,
		calls:     make(chan func()),
		done:      make(chan struct{}),
		stored:    make(map[uuid.UUID]string),
		subs:      make(map[int]chan *primary.TreeSnapshot),
	}
	e.install(model.newFleet())
	go e.run()
	return e
}

func (e *EditorServiceImpl) run() {
	for {
		select {
		case fn := <-e.calls:
			fn()
		case <-e.done:
			for id, ch := range e.subs {
				close(ch)
				delete(e.subs, id)
			}
			return
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (e *EditorServiceImpl) do(ctx context.Context, fn func()) error {
	select {
	case <-e.done:
		return ErrEditorClosed
	default:
	}

	finished := make(chan struct{})
	call := func() {
		defer close(finished)
		fn()
	}
	select {
	case e.calls <- call:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEditorClosed
	}
	<-finished
	return nil
}

// Close stops the loop and ends every subscription.
func (e *EditorServiceImpl) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

func (e *EditorServiceImpl) install(fleet *entity.Fleet) {
	e.tree = tree.New(fleet, e.pickers)
	e.tree.Subscribe(func(c tree.Change) {
		e.publish(string(c.Op), c.RowID)
	})
}

// publish pushes a snapshot to every subscriber. A subscriber that has not
// read the previous snapshot has it replaced.
func (e *EditorServiceImpl) publish(op, rowID string) {
	e.version++
	if e.logger.GetLevel() <= zerolog.DebugLevel {
		if err := e.tree.Check(); err != nil {
			e.logger.Error().Err(err).Str("op", op).Msg("tree invariant violated")
		}
	}
	if len(e.subs) == 0 {
		return
	}
	snap := e.snapshot(op, rowID)
	for _, ch := range e.subs {
		offer(ch, snap)
	}
}

func (e *EditorServiceImpl) snapshot(op, rowID string) *primary.TreeSnapshot {
	return &primary.TreeSnapshot{
		Version: e.version,
		Op:      op,
		RowID:   rowID,
		Rows:    treeRows(e.tree.Rows()),
	}
}

func offer(ch chan *primary.TreeSnapshot, snap *primary.TreeSnapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// Open loads the stored fleet into the editing session.
func (e *EditorServiceImpl) Open(ctx context.Context) (*primary.LoadReport, error) {
	loaded, err := loadFleet(ctx, e.store, e.model, e.logger)
	if err != nil {
		return nil, err
	}
	err = e.do(ctx, func() {
		e.install(loaded.fleet)
		e.stored = make(map[uuid.UUID]string)
		for _, s := range loaded.fleet.Ships() {
			e.stored[s.ID()] = s.Name()
		}
		e.publish("open", "")
	})
	if err != nil {
		return nil, err
	}
	return loaded.report, nil
}

// Tree returns the current outline.
func (e *EditorServiceImpl) Tree(ctx context.Context) ([]*primary.TreeRow, error) {
	var rows []*primary.TreeRow
	err := e.do(ctx, func() {
		rows = treeRows(e.tree.Rows())
	})
	return rows, err
}

// Edit writes text into the field behind a row.
func (e *EditorServiceImpl) Edit(ctx context.Context, rowID, value string) error {
	var editErr error
	if err := e.do(ctx, func() {
		editErr = e.tree.Edit(rowID, value)
	}); err != nil {
		return err
	}
	e.logger.Debug().Str("row", rowID).Str("value", value).AnErr("rejected", editErr).Msg("edit")
	return editErr
}

// Activate clicks a row.
func (e *EditorServiceImpl) Activate(ctx context.Context, rowID string) error {
	var actErr error
	if err := e.do(ctx, func() {
		actErr = e.tree.Activate(rowID)
	}); err != nil {
		return err
	}
	return actErr
}

// Pick parses value for the row's kind and applies it as a picker result.
func (e *EditorServiceImpl) Pick(ctx context.Context, rowID, value string) error {
	var pickErr error
	if err := e.do(ctx, func() {
		kind, err := e.tree.ValueKind(rowID)
		if err != nil {
			pickErr = err
			return
		}
		v, err := validate.Parse(kind, value)
		if err != nil {
			pickErr = &validate.FieldError{Key: rowID, Input: value, Err: err}
			return
		}
		pickErr = e.tree.ApplyPick(rowID, v)
	}); err != nil {
		return err
	}
	return pickErr
}

// AddShip creates a ship and returns its header row ID.
func (e *EditorServiceImpl) AddShip(ctx context.Context) (string, error) {
	var id string
	err := e.do(ctx, func() {
		id = e.tree.AddShip()
	})
	return id, err
}

// AddDoor creates a door on the ship owning rowID.
func (e *EditorServiceImpl) AddDoor(ctx context.Context, rowID string) (string, error) {
	var id string
	var addErr error
	if err := e.do(ctx, func() {
		id, addErr = e.tree.AddDoor(rowID)
	}); err != nil {
		return "", err
	}
	return id, addErr
}

// Remove deletes the ship or door behind a header row.
func (e *EditorServiceImpl) Remove(ctx context.Context, rowID string) error {
	var rmErr error
	if err := e.do(ctx, func() {
		rmErr = e.tree.Remove(rowID)
	}); err != nil {
		return err
	}
	return rmErr
}

// Select makes the ship owning rowID the drag payload.
func (e *EditorServiceImpl) Select(ctx context.Context, rowID string) (*primary.Selection, error) {
	var p tree.Payload
	var selErr error
	if err := e.do(ctx, func() {
		p, selErr = e.tree.Select(rowID)
	}); err != nil {
		return nil, err
	}
	if selErr != nil {
		return nil, selErr
	}
	return &primary.Selection{ShipID: p.ShipID.String(), Name: p.Name}, nil
}

// Selection returns the drag payload, or nil when nothing is selected.
func (e *EditorServiceImpl) Selection(ctx context.Context) (*primary.Selection, error) {
	var p tree.Payload
	var ok bool
	if err := e.do(ctx, func() {
		p, ok = e.tree.DragPayload()
	}); err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &primary.Selection{ShipID: p.ShipID.String(), Name: p.Name}, nil
}

// Save writes every ship to the store. Documents of ships that were
// removed or renamed since they were stored are deleted. A ship that cannot
// be saved keeps the document it was stored under. The save runs on the
// loop, so edits wait for it.
func (e *EditorServiceImpl) Save(ctx context.Context) (*primary.SaveReport, error) {
	var report *primary.SaveReport
	var saveErr error
	if err := e.do(ctx, func() {
		report, saveErr = e.save(ctx)
	}); err != nil {
		return nil, err
	}
	return report, saveErr
}

func (e *EditorServiceImpl) save(ctx context.Context) (*primary.SaveReport, error) {
	report := &primary.SaveReport{}
	current := make(map[string]bool)
	stored := make(map[uuid.UUID]string)
	var skipped []uuid.UUID

	for _, s := range e.tree.Fleet().Ships() {
		name := s.Name()
		if name == "" {
			report.Skipped = append(report.Skipped, &primary.SaveSkip{Ship: e.stored[s.ID()], Reason: "ship has no name"})
			skipped = append(skipped, s.ID())
			continue
		}
		data, err := document.ToDocument(s)
		if err != nil {
			report.Skipped = append(report.Skipped, &primary.SaveSkip{Ship: name, Reason: err.Error()})
			skipped = append(skipped, s.ID())
			continue
		}
		if err := e.store.Save(ctx, &secondary.ShipDocument{Name: name, Data: data}); err != nil {
			e.stored = mergeStored(e.stored, stored)
			return report, fmt.Errorf("failed to save ship %q: %w", name, err)
		}
		current[name] = true
		stored[s.ID()] = name
		report.Saved = append(report.Saved, name)
	}

	// A skipped ship still owns its old document unless another ship was
	// just saved under that name.
	for _, id := range skipped {
		if old, ok := e.stored[id]; ok && !current[old] {
			stored[id] = old
		}
	}

	held := make(map[string]bool, len(stored))
	for _, name := range stored {
		held[name] = true
	}
	var stale []string
	for _, name := range e.stored {
		if !held[name] {
			held[name] = true
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	for _, name := range stale {
		if err := e.store.Delete(ctx, name); err != nil {
			e.stored = mergeStored(e.stored, stored)
			return report, fmt.Errorf("failed to delete ship %q: %w", name, err)
		}
		report.Deleted = append(report.Deleted, name)
	}
	e.stored = stored

	for _, skip := range report.Skipped {
		e.logger.Warn().Str("ship", skip.Ship).Str("reason", skip.Reason).Msg("ship not saved")
	}
	e.logger.Info().
		Int("saved", len(report.Saved)).
		Int("deleted", len(report.Deleted)).
		Int("skipped", len(report.Skipped)).
		Msg("fleet saved")
	return report, nil
}

// mergeStored is the state after a failed save: previous names stay tracked
// so the next save can still delete them, and ships stored for the first
// time are added.
func mergeStored(prev, saved map[uuid.UUID]string) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(prev)+len(saved))
	for id, name := range prev {
		out[id] = name
	}
	for id, name := range saved {
		if _, ok := out[id]; !ok {
			out[id] = name
		}
	}
	return out
}

// Document returns the serialized form of one ship in the session.
func (e *EditorServiceImpl) Document(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	var docErr error
	if err := e.do(ctx, func() {
		ship, ok := e.tree.Fleet().Ship(name)
		if !ok {
			docErr = fmt.Errorf("ship %q: %w", name, secondary.ErrShipNotFound)
			return
		}
		data, docErr = document.ToDocument(ship)
	}); err != nil {
		return nil, err
	}
	return data, docErr
}

// Subscribe streams tree snapshots after every change until ctx ends. The
// current tree is delivered first.
func (e *EditorServiceImpl) Subscribe(ctx context.Context) (<-chan *primary.TreeSnapshot, error) {
	ch := make(chan *primary.TreeSnapshot, 1)
	var id int
	err := e.do(ctx, func() {
		e.nextSub++
		id = e.nextSub
		e.subs[id] = ch
		ch <- e.snapshot("snapshot", "")
	})
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-e.done:
			return
		}
		_ = e.do(context.Background(), func() {
			if _, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(ch)
			}
		})
	}()
	return ch, nil
}
