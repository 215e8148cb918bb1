package chart

import "github.com/itohio/reeflight/pkg/program"

// Host owns the program rows. The chart reads and mutates rows only through it.
// All calls are synchronous and happen on the UI goroutine.
type Host interface {
	// Rows returns the live rows, possibly unsorted.
	Rows() []program.Row
	// Points returns the fallback snapshot used when there are no rows.
	Points() []program.Point

	// TimeSnap returns the time snap granularity in minutes (5 or 15).
	TimeSnap() int
	// ValueSnap reports whether intensities snap to 5 % steps.
	ValueSnap() bool
	// SnapValue quantizes v to step.
	SnapValue(v, step int) int

	// AddRow inserts a row and returns its identity.
	AddRow(p program.Point) program.RowID
	// RemoveRow deletes a row. Stale identities are ignored.
	RemoveRow(id program.RowID)
	// SetRowTime sets the minute-of-day of a row.
	SetRowTime(id program.RowID, minute int)
	// SetRowChannel sets one channel of a row.
	SetRowChannel(id program.RowID, ch program.Channel, value int)
	// RowStyled refreshes the visual state of a row after its values changed.
	RowStyled(id program.RowID)
	// TimeDisplayChanged refreshes the time display of a row.
	TimeDisplayChanged(id program.RowID)
	// Normalize re-sorts and re-indexes rows after edits.
	Normalize()

	// Visible reports whether the chart is the active view.
	Visible() bool
	// MarkDirty is called after every committed mutation.
	MarkDirty()
}
