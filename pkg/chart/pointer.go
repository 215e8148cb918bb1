package chart

// PointerID distinguishes simultaneous pointers (mouse, fingers).
type PointerID int

// MousePointer is the id used for the desktop mouse.
const MousePointer PointerID = 1

// PointerKind is the device that produced a pointer event.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

// Button is the pressed pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// PointerEvent is a pointer sample in canvas coordinates.
type PointerEvent struct {
	ID     PointerID
	Kind   PointerKind
	Button Button
	Pos    Vec
}

// Mouse builds a primary mouse event at (x, y).
func Mouse(x, y float32) PointerEvent {
	return PointerEvent{ID: MousePointer, Kind: PointerMouse, Button: ButtonPrimary, Pos: Vec{X: x, Y: y}}
}

// Touch builds a touch event for finger id at (x, y).
func Touch(id PointerID, x, y float32) PointerEvent {
	return PointerEvent{ID: id, Kind: PointerTouch, Button: ButtonPrimary, Pos: Vec{X: x, Y: y}}
}
