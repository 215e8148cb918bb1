package chart

import (
	"github.com/itohio/reeflight/pkg/program"
)

const (
	// MinWidth and MinHeight bound the canvas from below.
	MinWidth  = 320
	MinHeight = 200

	markerTolerance = 10
)

// Vec is a pixel position.
type Vec struct {
	X, Y float32
}

// Marker is the pixel projection of one channel of one row, rebuilt every frame.
type Marker struct {
	Row     program.RowID
	Channel program.Channel
	X, Y    float32
	Time    int
	Value   int
}

// HoveredPoint is a preview point, usually the table row under the pointer.
type HoveredPoint struct {
	Row program.RowID
	program.Point
}

// Selection identifies the selected marker.
type Selection struct {
	Row     program.RowID
	Channel program.Channel
}

// TrashState describes the delete control.
type TrashState struct {
	Visible bool
	Rect    Rect
}

// Frame is the render-state snapshot shared by the renderer and hit testing.
type Frame struct {
	Width, Height float32
	Plot          Rect
	Transform     Transform

	// Rows are the normalized rows sorted by time.
	Rows []program.Row
	// Curves hold the pixel polyline of every channel, edge to edge.
	Curves [program.NumChannels][]Vec
	// Markers hold one marker per row per focused-or-all channel.
	Markers []Marker
	Empty   bool

	Focus    program.Channel
	Hovered  *HoveredPoint
	Selected *Selection
	// Range is the active range selection in minutes, if any.
	Range *[2]float64
	Trash TrashState
	// Dragging reports whether a point drag is in progress.
	Dragging bool

	interps [program.NumChannels]program.Interpolator
}

// InterpolateAt evaluates channel ch at minute over the frame rows.
func (f *Frame) InterpolateAt(ch program.Channel, minute float64) float64 {
	if f == nil || !ch.Valid() {
		return 0
	}
	return f.interps[ch.Index()].At(minute)
}

// HasInterpolation reports whether the frame has rows to interpolate.
func (f *Frame) HasInterpolation() bool {
	return f != nil && !f.Empty
}

// Canvas returns the full canvas rectangle.
func (f *Frame) Canvas() Rect {
	return Rect{Right: f.Width, Bottom: f.Height}
}

// FindMarker returns the marker of row/channel, if it is in the frame.
func (f *Frame) FindMarker(row program.RowID, ch program.Channel) (Marker, bool) {
	if f == nil {
		return Marker{}, false
	}
	for _, m := range f.Markers {
		if m.Row == row && m.Channel == ch {
			return m, true
		}
	}
	return Marker{}, false
}

// frameInput gathers everything buildFrame needs.
type frameInput struct {
	width, height float32
	margins       Margins
	view          View
	rows          []program.Row
	fallback      []program.Point
	focus         program.Channel
}

// buildFrame normalizes rows and computes curves and markers.
func buildFrame(in frameInput) *Frame {
	w := max(in.width, MinWidth)
	h := max(in.height, MinHeight)
	plot := Rect{
		Left:   in.margins.Left,
		Top:    in.margins.Top,
		Right:  w - in.margins.Right,
		Bottom: h - in.margins.Bottom,
	}
	tr := NewTransform(plot, in.view)

	source := in.rows
	if len(source) == 0 {
		source = program.RowsFromPoints(in.fallback)
	}
	rows := make([]program.Row, len(source))
	for i, r := range source {
		rows[i] = program.Row{ID: r.ID, Point: r.Point.Clamp()}
	}
	program.SortRows(rows)

	f := &Frame{
		Width:     w,
		Height:    h,
		Plot:      plot,
		Transform: tr,
		Rows:      rows,
		Focus:     in.focus,
		Empty:     len(rows) == 0,
	}
	if f.Empty {
		return f
	}

	f.interps = program.ChannelInterpolators(rows)
	for _, ch := range program.Channels {
		f.Curves[ch.Index()] = f.curve(ch)
	}
	for _, ch := range program.Channels {
		if in.focus.Valid() && in.focus != ch {
			continue
		}
		for _, r := range rows {
			x := tr.TimeToX(float64(r.Time))
			if x < plot.Left-markerTolerance || x > plot.Right+markerTolerance {
				continue
			}
			v := r.Value(ch)
			f.Markers = append(f.Markers, Marker{
				Row:     r.ID,
				Channel: ch,
				X:       x,
				Y:       tr.ValueToY(float64(v)),
				Time:    r.Time,
				Value:   v,
			})
		}
	}
	return f
}

// curve runs from the left view edge through every visible sample to the right
// view edge so the line never has gaps at the window borders.
func (f *Frame) curve(ch program.Channel) []Vec {
	tr := f.Transform
	view := tr.View
	in := f.interps[ch.Index()]
	pts := make([]Vec, 0, len(f.Rows)+2)
	pts = append(pts, Vec{X: tr.TimeToX(view.Start), Y: tr.ValueToY(in.At(view.Start))})
	for _, r := range f.Rows {
		minute := float64(r.Time)
		if !view.Contains(minute) {
			continue
		}
		pts = append(pts, Vec{X: tr.TimeToX(minute), Y: tr.ValueToY(float64(r.Value(ch)))})
	}
	pts = append(pts, Vec{X: tr.TimeToX(view.End), Y: tr.ValueToY(in.At(view.End))})
	return pts
}
