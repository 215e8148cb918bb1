package chart

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mouseEvent(p Vec, button desktop.MouseButton) *desktop.MouseEvent {
	ev := &desktop.MouseEvent{Button: button}
	ev.Position = fyne.NewPos(p.X, p.Y)
	return ev
}

func dragEvent(p Vec) *fyne.DragEvent {
	ev := &fyne.DragEvent{}
	ev.Position = fyne.NewPos(p.X, p.Y)
	return ev
}

func TestEditor_MouseDrag(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	f := newFixture(t, program.NewPoint(300, 40, 10, 70, 90))
	e := NewEditor(f.ctrl, DefaultPalette())

	e.MouseMoved(mouseEvent(px(300, 40), 0))
	assert.Equal(t, desktop.PointerCursor, e.Cursor())

	e.MouseDown(mouseEvent(px(300, 40), desktop.MouseButtonPrimary))
	e.Dragged(dragEvent(px(420, 60)))
	e.DragEnd()
	e.MouseUp(mouseEvent(px(420, 60), desktop.MouseButtonPrimary))

	assert.Equal(t, []program.Point{program.NewPoint(420, 60, 10, 70, 90)}, f.points())
	assert.NotNil(t, f.ctrl.Selected())

	e.MouseMoved(mouseEvent(px(800, 50), 0))
	assert.Equal(t, desktop.CrosshairCursor, e.Cursor())
	e.MouseOut()
	assert.Equal(t, desktop.DefaultCursor, e.Cursor())
}

func TestEditor_SecondaryButtonDoesNotDrag(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	f := newFixture(t, program.NewPoint(300, 40, 10, 70, 90))
	e := NewEditor(f.ctrl, DefaultPalette())

	e.MouseDown(mouseEvent(px(300, 40), desktop.MouseButtonSecondary))
	e.Dragged(dragEvent(px(420, 60)))
	e.DragEnd()

	assert.Equal(t, 300, f.points()[0].Time)
}

func TestEditor_DoubleTapped(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	f := newFixture(t, program.NewPoint(0, 10, 10, 10, 10))
	e := NewEditor(f.ctrl, DefaultPalette())

	p := px(600, 70)
	e.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(p.X, p.Y)})

	assert.Len(t, f.points(), 2)
}

func TestEditor_TouchCancel(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	f := newFixture(t, program.NewPoint(300, 40, 10, 70, 90))
	e := NewEditor(f.ctrl, DefaultPalette())

	down := &mobile.TouchEvent{}
	down.Position = fyne.NewPos(px(300, 40).X, px(300, 40).Y)
	e.TouchDown(down)
	e.Dragged(dragEvent(px(500, 80)))
	require.Equal(t, 500, f.points()[0].Time)
	e.TouchCancel(&mobile.TouchEvent{})

	assert.Equal(t, []program.Point{program.NewPoint(300, 40, 10, 70, 90)}, f.points())
}

func TestEditor_Scrolled(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	f := newFixture(t, program.NewPoint(0, 10, 10, 10, 10))
	e := NewEditor(f.ctrl, DefaultPalette())

	p := px(720, 50)
	ev := &fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)}
	ev.Position = fyne.NewPos(p.X, p.Y)
	e.Scrolled(ev)

	assert.Less(t, f.ctrl.View().Span(), dayMinutes)
}

func TestLegend_TogglesFocus(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	f := newFixture(t, program.NewPoint(300, 40, 10, 70, 90))
	l := NewLegend(f.ctrl, DefaultPalette())
	require.Len(t, l.buttons, program.NumChannels)

	test.Tap(l.buttons[1])
	assert.Equal(t, program.Channel(2), f.ctrl.Focus())
	assert.Equal(t, widget.HighImportance, l.buttons[1].Importance)
	assert.Equal(t, widget.LowImportance, l.buttons[0].Importance)

	test.Tap(l.buttons[1])
	assert.Equal(t, program.Channel(0), f.ctrl.Focus())
	for _, b := range l.buttons {
		assert.Equal(t, widget.MediumImportance, b.Importance)
	}
}
