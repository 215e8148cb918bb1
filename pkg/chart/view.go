package chart

import (
	"math"

	"github.com/itohio/reeflight/pkg/program"
)

const (
	// MinViewSpan is the narrowest visible window in minutes.
	MinViewSpan = 30
	dayMinutes  = float64(program.MinutesPerDay)
)

// View is the visible time-of-day window in minutes.
type View struct {
	Start float64
	End   float64
}

// FullDay is the unzoomed view.
var FullDay = View{Start: 0, End: dayMinutes}

// Span returns the width of the view in minutes.
func (v View) Span() float64 {
	return v.End - v.Start
}

// Contains reports whether minute lies inside the view.
func (v View) Contains(minute float64) bool {
	return minute >= v.Start && minute <= v.End
}

// ClampView normalizes a requested window so that 0 <= start, end <= 1440 and
// end-start >= 30. A window that is too narrow is widened around its centre; a
// window that leaves the day is shifted back rather than cut.
func ClampView(start, end float64) View {
	if math.IsNaN(start) {
		start = 0
	}
	if math.IsNaN(end) {
		end = dayMinutes
	}
	s := program.Clamp(start, 0, dayMinutes)
	e := program.Clamp(end, 0, dayMinutes)
	if e-s < MinViewSpan {
		mid := (s + e) / 2
		s = mid - MinViewSpan/2
		e = mid + MinViewSpan/2
	}
	if s < 0 {
		e -= s
		s = 0
	}
	if e > dayMinutes {
		s -= e - dayMinutes
		e = dayMinutes
	}
	s = math.Max(0, s)
	e = math.Min(dayMinutes, e)
	if e-s < MinViewSpan {
		e = math.Min(dayMinutes, s+MinViewSpan)
	}
	return View{Start: s, End: e}
}

// Clamp returns v normalized by ClampView.
func (v View) Clamp() View {
	return ClampView(v.Start, v.End)
}

// Zoom scales the view around minute by factor (<1 zooms in).
func (v View) Zoom(minute, factor float64) View {
	if factor <= 0 {
		return v.Clamp()
	}
	return ClampView(minute-(minute-v.Start)*factor, minute+(v.End-minute)*factor)
}

// Pan shifts the view by delta minutes, keeping its span.
func (v View) Pan(delta float64) View {
	span := v.Span()
	start := program.Clamp(v.Start+delta, 0, dayMinutes-span)
	return ClampView(start, start+span)
}
