package chart

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// touchPointer is the id given to the single touch fyne reports.
const touchPointer PointerID = 2

// Editor is a Fyne widget that draws a Controller frame and feeds it pointer
// events.
type Editor struct {
	widget.BaseWidget

	ctrl    *Controller
	palette Palette

	// active is the pointer of the gesture in progress; drag events carry no kind.
	active   PointerEvent
	pressed  bool
	lastKind PointerKind
}

var (
	_ desktop.Mouseable   = (*Editor)(nil)
	_ desktop.Hoverable   = (*Editor)(nil)
	_ desktop.Cursorable  = (*Editor)(nil)
	_ mobile.Touchable    = (*Editor)(nil)
	_ fyne.Draggable      = (*Editor)(nil)
	_ fyne.DoubleTappable = (*Editor)(nil)
	_ fyne.Scrollable     = (*Editor)(nil)
)

// NewEditor creates the chart widget and binds it to ctrl.
func NewEditor(ctrl *Controller, palette Palette) *Editor {
	e := &Editor{
		ctrl:    ctrl,
		palette: palette,
	}
	e.ExtendBaseWidget(e)
	ctrl.OnRedraw(func(*Frame) {
		e.Refresh()
	})
	return e
}

// Controller returns the bound controller.
func (e *Editor) Controller() *Controller {
	return e.ctrl
}

// SetPalette changes the colours and redraws.
func (e *Editor) SetPalette(p Palette) {
	e.palette = p
	e.Refresh()
}

// CreateRenderer creates the widget renderer.
func (e *Editor) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(e.palette.Background)
	return &editorRenderer{
		editor:     e,
		background: bg,
		objects:    []fyne.CanvasObject{bg},
	}
}

func (e *Editor) MouseDown(ev *desktop.MouseEvent) {
	pe := Mouse(ev.Position.X, ev.Position.Y)
	if ev.Button != desktop.MouseButtonPrimary {
		pe.Button = ButtonSecondary
	}
	e.press(pe)
}

func (e *Editor) MouseUp(ev *desktop.MouseEvent) {
	e.release(Mouse(ev.Position.X, ev.Position.Y))
}

func (e *Editor) MouseIn(ev *desktop.MouseEvent) {
	e.MouseMoved(ev)
}

func (e *Editor) MouseMoved(ev *desktop.MouseEvent) {
	e.ctrl.PointerMove(Mouse(ev.Position.X, ev.Position.Y))
}

func (e *Editor) MouseOut() {
	e.ctrl.PointerLeave()
}

func (e *Editor) TouchDown(ev *mobile.TouchEvent) {
	e.press(Touch(touchPointer, ev.Position.X, ev.Position.Y))
}

func (e *Editor) TouchUp(ev *mobile.TouchEvent) {
	e.release(Touch(touchPointer, ev.Position.X, ev.Position.Y))
}

func (e *Editor) TouchCancel(*mobile.TouchEvent) {
	if !e.pressed {
		return
	}
	e.pressed = false
	e.ctrl.PointerCancel(e.active.ID)
}

// Dragged forwards moves of the pressed pointer; Fyne routes them here instead
// of MouseMoved while a button is held.
func (e *Editor) Dragged(ev *fyne.DragEvent) {
	if !e.pressed {
		return
	}
	e.active.Pos = Vec{X: ev.Position.X, Y: ev.Position.Y}
	e.ctrl.PointerMove(e.active)
}

func (e *Editor) DragEnd() {
	if !e.pressed {
		return
	}
	e.release(e.active)
}

// DoubleTapped adds a point. Touch double taps are detected by the controller.
func (e *Editor) DoubleTapped(ev *fyne.PointEvent) {
	if e.lastKind == PointerTouch {
		return
	}
	e.ctrl.DoubleClick(Vec{X: ev.Position.X, Y: ev.Position.Y})
}

func (e *Editor) Scrolled(ev *fyne.ScrollEvent) {
	e.ctrl.Scroll(Vec{X: ev.Position.X, Y: ev.Position.Y}, ev.Scrolled.DX, ev.Scrolled.DY)
}

// Cursor maps the controller cursor to the closest desktop cursor. The mapping
// is lossy: fyne has no grab or not-allowed cursors, so grab and grabbing share
// the pointer and not-allowed shows the default arrow.
func (e *Editor) Cursor() desktop.Cursor {
	switch e.ctrl.Cursor() {
	case CursorCrosshair:
		return desktop.CrosshairCursor
	case CursorGrab, CursorGrabbing:
		return desktop.PointerCursor
	case CursorZoomIn:
		return desktop.HResizeCursor
	default:
		return desktop.DefaultCursor
	}
}

func (e *Editor) press(pe PointerEvent) {
	e.lastKind = pe.Kind
	if pe.Button != ButtonPrimary {
		return
	}
	e.active = pe
	e.pressed = true
	e.ctrl.PointerDown(pe)
}

func (e *Editor) release(pe PointerEvent) {
	if !e.pressed {
		return
	}
	e.pressed = false
	e.ctrl.PointerUp(pe)
}
