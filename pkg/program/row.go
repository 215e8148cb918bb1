package program

import (
	"sort"

	"github.com/google/uuid"
)

// RowID is an opaque identity of a host-owned row. The chart only compares it.
type RowID uuid.UUID

// NoRow identifies points that are not backed by an editable row.
var NoRow = RowID(uuid.Nil)

// NewRowID returns a fresh random row identity.
func NewRowID() RowID {
	return RowID(uuid.New())
}

// IsZero reports whether id is NoRow.
func (id RowID) IsZero() bool {
	return id == NoRow
}

func (id RowID) String() string {
	return uuid.UUID(id).String()
}

// Row is a point together with the identity of the row holding it.
type Row struct {
	ID RowID
	Point
}

// SortRows orders rows by time. Rows with equal time keep their relative order.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time < rows[j].Time
	})
}

// RowsFromPoints wraps points into rows without identity.
func RowsFromPoints(points []Point) []Row {
	rows := make([]Row, len(points))
	for i, p := range points {
		rows[i] = Row{ID: NoRow, Point: p}
	}
	return rows
}

// PointsOf strips row identities.
func PointsOf(rows []Row) []Point {
	points := make([]Point, len(rows))
	for i, r := range rows {
		points[i] = r.Point
	}
	return points
}

// Canonical returns a time-sorted copy of points.
func Canonical(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// Equal reports whether two programs are the same once both are time-sorted.
func Equal(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := Canonical(a), Canonical(b)
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}
