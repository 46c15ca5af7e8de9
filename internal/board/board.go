// Package board owns the per-slide shape collections and per-user undo/redo
// history. All geometry mutation is delegated to the geometry engine; the
// board records a reversible operation alongside every mutation.
package board

import (
	"sort"

	"github.com/slidereel/slidereel/internal/geometry"
	"github.com/slidereel/slidereel/internal/platform/errors"
)

type opKind uint8

const (
	opCreate opKind = iota
	opMutate
	opDelete
	opClear
)

// operation is one reversible mutation record. Undo applies its inverse,
// redo re-applies its forward direction; the record itself is never
// discarded by undo.
type operation struct {
	kind    opKind
	slideID string
	shapeID string
	// prior and next bracket a geometry mutation.
	prior geometry.Snapshot
	next  geometry.Snapshot
	// shapeIDs lists every shape a clear removed, in z-order.
	shapeIDs []string
}

type history struct {
	undo []operation
	redo []operation
}

// Delta is a geometry mutation: samples append to freehand shapes, anchors
// replace parametric geometry wholesale, text replaces text content.
type Delta struct {
	Samples []geometry.Sample
	Anchors []geometry.Point
	Text    string
	HasText bool
}

// Store is the whiteboard state machine. It is replay-only: it applies
// events in order and never answers questions about past states.
type Store struct {
	engines map[string]*geometry.Engine
	slideOf map[string]string
	users   map[string]*history
	nextSeq uint64
}

// NewStore creates an empty whiteboard store.
func NewStore() *Store {
	return &Store{
		engines: make(map[string]*geometry.Engine),
		slideOf: make(map[string]string),
		users:   make(map[string]*history),
	}
}

func (s *Store) engineFor(slideID string) *geometry.Engine {
	e, ok := s.engines[slideID]
	if !ok {
		e = geometry.NewEngine()
		s.engines[slideID] = e
	}
	return e
}

func (s *Store) historyFor(userID string) *history {
	h, ok := s.users[userID]
	if !ok {
		h = &history{}
		s.users[userID] = h
	}
	return h
}

// record pushes a completed forward operation onto the user's undo stack.
// Every new action invalidates that user's redo history.
func (s *Store) record(userID string, op operation) {
	h := s.historyFor(userID)
	h.undo = append(h.undo, op)
	h.redo = nil
}

// Create inserts a new alive shape and records its inverse.
func (s *Store) Create(slideID, shapeID, userID string, kind geometry.Kind, style geometry.Style) (*geometry.Shape, error) {
	if prev, ok := s.slideOf[shapeID]; ok {
		// Replayed create for a known id: keep existing state untouched.
		return s.engines[prev].Get(shapeID)
	}

	s.nextSeq++
	shape, err := s.engineFor(slideID).Create(shapeID, kind, style, s.nextSeq)
	if err != nil {
		s.nextSeq--
		return nil, err
	}
	s.slideOf[shapeID] = slideID
	s.record(userID, operation{kind: opCreate, slideID: slideID, shapeID: shapeID})
	return shape, nil
}

func (s *Store) lookup(shapeID string) (*geometry.Engine, *geometry.Shape, error) {
	slideID, ok := s.slideOf[shapeID]
	if !ok {
		return nil, nil, errors.WithMetadata(errors.CodeShapeNotFound, "unknown shape",
			map[string]string{"shape_id": shapeID})
	}
	e := s.engines[slideID]
	shape, err := e.Get(shapeID)
	if err != nil {
		return nil, nil, err
	}
	return e, shape, nil
}

// Update snapshots the current geometry, applies the delta, and records the
// mutation with both snapshots.
func (s *Store) Update(shapeID, userID string, delta Delta) error {
	e, shape, err := s.lookup(shapeID)
	if err != nil {
		return err
	}

	prior, err := e.SnapshotGeometry(shapeID)
	if err != nil {
		return err
	}

	// A delta that does not match the shape's kind must leave no trace: roll
	// the geometry back so nothing half-applied escapes without an undo
	// record.
	if err := applyDelta(e, shapeID, delta); err != nil {
		_ = e.RestoreGeometry(shapeID, prior)
		return err
	}

	next, err := e.SnapshotGeometry(shapeID)
	if err != nil {
		return err
	}
	s.record(userID, operation{
		kind:    opMutate,
		slideID: s.slideOf[shapeID],
		shapeID: shape.ID,
		prior:   prior,
		next:    next,
	})
	return nil
}

func applyDelta(e *geometry.Engine, shapeID string, delta Delta) error {
	if len(delta.Samples) > 0 {
		if err := e.AppendSamples(shapeID, delta.Samples); err != nil {
			return err
		}
	}
	if delta.Anchors != nil {
		if err := e.SetAnchors(shapeID, delta.Anchors); err != nil {
			return err
		}
	}
	if delta.HasText {
		if err := e.SetText(shapeID, delta.Text); err != nil {
			return err
		}
	}
	return nil
}

// Delete marks the shape dead. The shape stays in the mapping so undo can
// revive it.
func (s *Store) Delete(shapeID, userID string) error {
	_, shape, err := s.lookup(shapeID)
	if err != nil {
		return err
	}
	shape.Alive = false
	s.record(userID, operation{kind: opDelete, slideID: s.slideOf[shapeID], shapeID: shapeID})
	return nil
}

// Clear marks every alive shape on the slide dead as one reversible
// operation.
func (s *Store) Clear(slideID, userID string) error {
	e, ok := s.engines[slideID]
	if !ok {
		// Clearing a slide with no shapes is a valid no-op action; it still
		// invalidates redo history like any other action.
		s.record(userID, operation{kind: opClear, slideID: slideID})
		return nil
	}

	shapes := e.Shapes()
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Seq < shapes[j].Seq })

	var cleared []string
	for _, shape := range shapes {
		if !shape.Alive {
			continue
		}
		shape.Alive = false
		cleared = append(cleared, shape.ID)
	}
	s.record(userID, operation{kind: opClear, slideID: slideID, shapeIDs: cleared})
	return nil
}

// Undo reverses the user's most recent still-applied operation and moves it
// to the redo stack.
func (s *Store) Undo(userID string) error {
	h, ok := s.users[userID]
	if !ok {
		return errors.WithMetadata(errors.CodeHistoryUserNotFound, "no history for user",
			map[string]string{"user_id": userID})
	}
	if len(h.undo) == 0 {
		return errors.WithMetadata(errors.CodeHistoryEmptyUndo, "nothing to undo",
			map[string]string{"user_id": userID})
	}

	op := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if err := s.applyInverse(op); err != nil {
		return err
	}
	h.redo = append(h.redo, op)
	return nil
}

// Redo re-applies the user's most recently undone operation and moves it
// back to the undo stack.
func (s *Store) Redo(userID string) error {
	h, ok := s.users[userID]
	if !ok {
		return errors.WithMetadata(errors.CodeHistoryUserNotFound, "no history for user",
			map[string]string{"user_id": userID})
	}
	if len(h.redo) == 0 {
		return errors.WithMetadata(errors.CodeHistoryEmptyRedo, "nothing to redo",
			map[string]string{"user_id": userID})
	}

	op := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := s.applyForward(op); err != nil {
		return err
	}
	h.undo = append(h.undo, op)
	return nil
}

func (s *Store) applyInverse(op operation) error {
	switch op.kind {
	case opCreate:
		_, shape, err := s.lookup(op.shapeID)
		if err != nil {
			return err
		}
		shape.Alive = false
	case opMutate:
		e, _, err := s.lookup(op.shapeID)
		if err != nil {
			return err
		}
		return e.RestoreGeometry(op.shapeID, op.prior)
	case opDelete:
		_, shape, err := s.lookup(op.shapeID)
		if err != nil {
			return err
		}
		shape.Alive = true
	case opClear:
		return s.setAlive(op.shapeIDs, true)
	}
	return nil
}

func (s *Store) applyForward(op operation) error {
	switch op.kind {
	case opCreate:
		_, shape, err := s.lookup(op.shapeID)
		if err != nil {
			return err
		}
		shape.Alive = true
	case opMutate:
		e, _, err := s.lookup(op.shapeID)
		if err != nil {
			return err
		}
		return e.RestoreGeometry(op.shapeID, op.next)
	case opDelete:
		_, shape, err := s.lookup(op.shapeID)
		if err != nil {
			return err
		}
		shape.Alive = false
	case opClear:
		return s.setAlive(op.shapeIDs, false)
	}
	return nil
}

func (s *Store) setAlive(shapeIDs []string, alive bool) error {
	for _, id := range shapeIDs {
		_, shape, err := s.lookup(id)
		if err != nil {
			return err
		}
		shape.Alive = alive
	}
	return nil
}

// AliveShapes returns the alive shapes of a slide in ascending creation
// sequence, the stable z-order for composition.
func (s *Store) AliveShapes(slideID string) []*geometry.Shape {
	e, ok := s.engines[slideID]
	if !ok {
		return nil
	}
	var alive []*geometry.Shape
	for _, shape := range e.Shapes() {
		if shape.Alive {
			alive = append(alive, shape)
		}
	}
	sort.Slice(alive, func(i, j int) bool { return alive[i].Seq < alive[j].Seq })
	return alive
}

// Engine exposes the geometry engine of a slide, creating it on first use.
func (s *Store) Engine(slideID string) *geometry.Engine {
	return s.engineFor(slideID)
}
