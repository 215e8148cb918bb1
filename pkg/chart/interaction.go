package chart

import (
	"time"

	"github.com/itohio/reeflight/pkg/program"
)

// Gesture thresholds in pixels unless noted otherwise.
const (
	hitRadius          = 14
	rangeActivateDist  = 6
	relativeDragDist   = 7
	splitDist          = 8
	doubleTapDist      = 28
	doubleTapInterval  = 320 * time.Millisecond
	trashOffsetX       = 30
	trashOffsetY       = -30
	trashSize          = 28
	wheelZoomFactor    = 1.25
	dimmedChannelAlpha = 0.18
)

// interaction is the gesture in progress. A nil interaction means idle.
// Every gesture holds exclusive capture of the pointer that started it.
type interaction interface {
	pointer() PointerID
}

// rangeSelect tracks a drag over empty plot area that zooms the view on release.
type rangeSelect struct {
	id            PointerID
	startMinute   float64
	currentMinute float64
	startX        float32
	active        bool
}

func (s *rangeSelect) pointer() PointerID { return s.id }

// pendingRelativeDrag waits to see whether a press near a selected point
// becomes a drag of that point.
type pendingRelativeDrag struct {
	id     PointerID
	marker Marker
	start  Vec
	grab   Vec
}

func (s *pendingRelativeDrag) pointer() PointerID { return s.id }

type dragMode int

const (
	dragPlain dragMode = iota
	dragSplitPending
	dragSplitActive
)

func (m dragMode) String() string {
	switch m {
	case dragSplitPending:
		return "split-pending"
	case dragSplitActive:
		return "split-active"
	default:
		return "plain"
	}
}

// dragSession moves a marker. In split modes the dragged row differs from the
// origin row once the split has happened.
type dragSession struct {
	id      PointerID
	mode    dragMode
	row     program.RowID
	channel program.Channel
	grab    Vec
	startX  float32

	origin      program.RowID
	originPoint program.Point
	originValue int

	// baseline interpolates the rows as they were when the drag started.
	baseline     [program.NumChannels]program.Interpolator
	deleteOnDrop bool
}

func (s *dragSession) pointer() PointerID { return s.id }

// tap remembers the last touch press for double-tap detection.
type tap struct {
	at  time.Time
	pos Vec
}
