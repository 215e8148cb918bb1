package table

import (
	"sync"

	"github.com/itohio/reeflight/pkg/program"
)

// DefaultRowTime is the time of rows added from the table view.
const DefaultRowTime = 12 * 60

// ChangeKind describes what happened to the rows.
type ChangeKind int

const (
	// RowsLoaded means the whole row set was replaced.
	RowsLoaded ChangeKind = iota
	RowAdded
	RowRemoved
	// RowValues means channel values of a row changed.
	RowValues
	// RowTime means the time of a row changed.
	RowTime
	// RowsReordered means rows were snapped and sorted.
	RowsReordered
	// DirtyChanged means the unsaved-changes state may have changed.
	DirtyChanged
)

// Change is passed to change listeners.
type Change struct {
	Kind ChangeKind
	Row  program.RowID
}

// Store owns the editable program rows. Its method set is what the chart
// editor needs from a host.
type Store struct {
	mu sync.RWMutex

	rows     []program.Row
	fallback []program.Point
	saved    []program.Point

	timeSnap  int
	valueSnap bool
	visible   bool

	listeners []func(Change)
}

// NewStore creates an empty store with 5 minute time snapping.
func NewStore() *Store {
	return &Store{
		timeSnap: program.SnapFine,
		visible:  true,
	}
}

// OnChange registers fn to be called after every change. fn runs without the
// store lock held and may call back into the store.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify(kind ChangeKind, id program.RowID) {
	s.mu.RLock()
	listeners := make([]func(Change), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(Change{Kind: kind, Row: id})
	}
}

// Load replaces the rows with points and records them as the saved program.
func (s *Store) Load(points []program.Point) {
	s.mu.Lock()
	s.rows = make([]program.Row, 0, len(points))
	for _, p := range points {
		s.rows = append(s.rows, program.Row{ID: program.NewRowID(), Point: p.Clamp()})
	}
	program.SortRows(s.rows)
	s.saved = program.PointsOf(s.rows)
	s.mu.Unlock()
	log.Debugf("Loaded %d program points", len(points))
	s.notify(RowsLoaded, program.NoRow)
}

// SetFallback sets the points drawn when the store has no rows.
func (s *Store) SetFallback(points []program.Point) {
	s.mu.Lock()
	s.fallback = append([]program.Point(nil), points...)
	s.mu.Unlock()
}

// Program returns the rows as a time-sorted program.
func (s *Store) Program() program.Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return program.FromPoints(program.PointsOf(s.rows))
}

// Row returns the row with id.
func (s *Store) Row(id program.RowID) (program.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.rows[i], true
	}
	return program.Row{}, false
}

// Len returns the number of rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Dirty reports whether the rows differ from the last saved program.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !program.Equal(program.PointsOf(s.rows), s.saved)
}

// MarkSaved records the current rows as saved.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	s.saved = program.PointsOf(s.rows)
	s.mu.Unlock()
	s.notify(DirtyChanged, program.NoRow)
}

// SetSaved records points as the saved program the rows are compared with.
func (s *Store) SetSaved(points []program.Point) {
	s.mu.Lock()
	s.saved = program.Canonical(points)
	s.mu.Unlock()
	s.notify(DirtyChanged, program.NoRow)
}

// Rows returns a copy of the live rows in their current order.
func (s *Store) Rows() []program.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]program.Row, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Points returns the fallback points.
func (s *Store) Points() []program.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]program.Point(nil), s.fallback...)
}

// TimeSnap returns the time snap granularity in minutes.
func (s *Store) TimeSnap() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeSnap
}

// SetTimeSnap sets the time snap granularity; only 5 and 15 are accepted.
func (s *Store) SetTimeSnap(step int) {
	if step != program.SnapFine && step != program.SnapCoarse {
		step = program.SnapFine
	}
	s.mu.Lock()
	s.timeSnap = step
	s.mu.Unlock()
}

// ValueSnap reports whether values snap to 5 % steps.
func (s *Store) ValueSnap() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valueSnap
}

// SetValueSnap enables or disables value snapping.
func (s *Store) SetValueSnap(on bool) {
	s.mu.Lock()
	s.valueSnap = on
	s.mu.Unlock()
}

// SnapValue quantizes v to step.
func (s *Store) SnapValue(v, step int) int {
	return program.SnapValue(v, step)
}

// AddRow appends a row and returns its identity.
func (s *Store) AddRow(p program.Point) program.RowID {
	id := program.NewRowID()
	s.mu.Lock()
	s.rows = append(s.rows, program.Row{ID: id, Point: p.Clamp()})
	s.mu.Unlock()
	s.notify(RowAdded, id)
	return id
}

// AddDefaultRow appends a 12:00 row with all channels off.
func (s *Store) AddDefaultRow() program.RowID {
	return s.AddRow(program.NewPoint(DefaultRowTime, 0, 0, 0, 0))
}

// RemoveRow deletes a row. Unknown identities are ignored.
func (s *Store) RemoveRow(id program.RowID) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	s.mu.Unlock()
	s.notify(RowRemoved, id)
}

// SetRowTime sets the minute-of-day of a row, clamped to the day.
func (s *Store) SetRowTime(id program.RowID, minute int) {
	s.update(id, RowTime, func(r *program.Row) {
		r.Time = program.ClampTime(minute)
	})
}

// SetRowChannel sets one channel of a row, clamped to [0,100].
func (s *Store) SetRowChannel(id program.RowID, ch program.Channel, value int) {
	if !ch.Valid() {
		return
	}
	s.update(id, RowValues, func(r *program.Row) {
		r.Ch[ch.Index()] = program.ClampIntensity(value)
	})
}

// RowStyled notifies listeners that the row values should be redrawn.
func (s *Store) RowStyled(id program.RowID) {
	s.notify(RowValues, id)
}

// TimeDisplayChanged notifies listeners that the row time should be redrawn.
func (s *Store) TimeDisplayChanged(id program.RowID) {
	s.notify(RowTime, id)
}

// Normalize snaps times, snaps values when value snap is on, and sorts rows by
// time keeping the order of equal times.
func (s *Store) Normalize() {
	s.mu.Lock()
	for i := range s.rows {
		r := &s.rows[i]
		r.Time = program.SnapTime(float64(r.Time), s.timeSnap)
		if s.valueSnap {
			for _, ch := range program.Channels {
				r.Ch[ch.Index()] = program.SnapValue(r.Ch[ch.Index()], program.ValueStep)
			}
		}
	}
	program.SortRows(s.rows)
	s.mu.Unlock()
	s.notify(RowsReordered, program.NoRow)
}

// Visible reports whether the chart is the active view.
func (s *Store) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// SetVisible switches chart interaction on or off.
func (s *Store) SetVisible(v bool) {
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
}

// MarkDirty notifies listeners that the unsaved-changes state may have changed.
func (s *Store) MarkDirty() {
	s.notify(DirtyChanged, program.NoRow)
}

func (s *Store) update(id program.RowID, kind ChangeKind, fn func(*program.Row)) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	fn(&s.rows[i])
	s.mu.Unlock()
	s.notify(kind, id)
}

// index must be called with the lock held.
func (s *Store) index(id program.RowID) int {
	if id.IsZero() {
		return -1
	}
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
