package chart

import (
	"math"

	"github.com/itohio/reeflight/pkg/program"
)

// Rect is a pixel rectangle.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float32 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() float32 { return r.Bottom - r.Top }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Margins around the plot area.
type Margins struct {
	Top, Right, Bottom, Left float32
}

// DefaultMargins leave room for axis labels.
var DefaultMargins = Margins{Top: 16, Right: 14, Bottom: 28, Left: 38}

// Transform maps between schedule coordinates and canvas pixels.
type Transform struct {
	Plot Rect
	View View
}

// NewTransform builds a transform for the plot rectangle and view.
func NewTransform(plot Rect, view View) Transform {
	return Transform{Plot: plot, View: view}
}

func (t Transform) span() float64 {
	return math.Max(1, t.View.Span())
}

// TimeToX maps a minute-of-day to a pixel column.
func (t Transform) TimeToX(minute float64) float32 {
	return t.Plot.Left + float32((minute-t.View.Start)/t.span())*t.Plot.Width()
}

// ValueToY maps an intensity to a pixel row; 0 % is at the bottom.
func (t Transform) ValueToY(value float64) float32 {
	return t.Plot.Top + float32((program.MaxIntensity-value)/program.MaxIntensity)*t.Plot.Height()
}

// XToTime maps a pixel column to a minute-of-day clamped to [0,1440].
func (t Transform) XToTime(x float32) float64 {
	w := float64(t.Plot.Width())
	if w <= 0 {
		return t.View.Start
	}
	minute := t.View.Start + float64(x-t.Plot.Left)/w*t.span()
	return program.Clamp(minute, 0, dayMinutes)
}

// YToValue maps a pixel row to an intensity clamped to [0,100].
func (t Transform) YToValue(y float32) float64 {
	h := float64(t.Plot.Height())
	if h <= 0 {
		return 0
	}
	value := program.MaxIntensity - float64(y-t.Plot.Top)/h*program.MaxIntensity
	return program.Clamp(value, 0, program.MaxIntensity)
}
