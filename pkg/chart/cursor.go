package chart

// Cursor is the pointer shape the chart asks for.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorGrab
	CursorGrabbing
	CursorNotAllowed
	CursorZoomIn
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorNotAllowed:
		return "not-allowed"
	case CursorZoomIn:
		return "zoom-in"
	default:
		return "default"
	}
}
