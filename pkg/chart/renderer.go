package chart

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/reeflight/pkg/program"
)

const (
	gridHours       = 3
	gridPercent     = 20
	narrowCanvas    = 520
	markerRadius    = 4
	selectedRadius  = 7.2
	ghostRadius     = 5
	ghostRingRadius = 6.2
	dashLength      = 4
	labelTextSize   = 10
)

// editorRenderer draws the latest controller frame.
type editorRenderer struct {
	editor *Editor

	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *editorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(MinWidth, MinHeight)
}

func (r *editorRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	// Size changes rebuild the frame, which refreshes the widget.
	r.editor.ctrl.SetSize(size.Width, size.Height)
}

func (r *editorRenderer) Refresh() {
	r.background.FillColor = r.editor.palette.Background
	r.background.Refresh()
	r.objects = append([]fyne.CanvasObject{r.background}, drawFrame(r.editor.ctrl.Frame(), r.editor.palette)...)
	for _, o := range r.objects[1:] {
		o.Refresh()
	}
}

func (r *editorRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *editorRenderer) Destroy() {}

// drawFrame turns a frame into canvas objects, back to front.
func drawFrame(f *Frame, p Palette) []fyne.CanvasObject {
	if f == nil {
		return nil
	}
	var objs []fyne.CanvasObject
	objs = append(objs, drawPlot(f, p)...)
	objs = append(objs, drawGrid(f, p)...)
	if f.Range != nil {
		objs = append(objs, drawRange(f, p))
	}
	if f.Empty {
		objs = append(objs, drawEmpty(f, p))
		return objs
	}
	objs = append(objs, drawCurves(f, p)...)
	objs = append(objs, drawMarkers(f, p)...)
	if f.Hovered != nil {
		objs = append(objs, drawHovered(f, p)...)
	}
	if f.Trash.Visible {
		objs = append(objs, drawTrash(f, p)...)
	}
	return objs
}

func drawPlot(f *Frame, p Palette) []fyne.CanvasObject {
	plot := canvas.NewRectangle(p.Plot)
	plot.Move(fyne.NewPos(f.Plot.Left, f.Plot.Top))
	plot.Resize(fyne.NewSize(f.Plot.Width(), f.Plot.Height()))
	return []fyne.CanvasObject{plot}
}

// drawGrid draws hour and percent grid lines with axis labels.
func drawGrid(f *Frame, p Palette) []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	tr := f.Transform
	view := tr.View

	for v := 0; v <= program.MaxIntensity; v += gridPercent {
		y := tr.ValueToY(float64(v))
		objs = append(objs, newLine(p.Grid, 1, f.Plot.Left, y, f.Plot.Right, y))

		text := canvas.NewText(fmt.Sprintf("%d%%", v), p.Label)
		text.TextSize = labelTextSize
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(f.Plot.Left-30, y-7))
		text.Resize(fyne.NewSize(26, 14))
		objs = append(objs, text)
	}

	for h := 0; h <= 24; h += gridHours {
		minute := float64(h * 60)
		if !view.Contains(minute) {
			continue
		}
		x := tr.TimeToX(minute)
		objs = append(objs, newLine(p.Grid, 1, x, f.Plot.Top, x, f.Plot.Bottom))
	}

	labelHours := 2
	if f.Width < narrowCanvas {
		labelHours = 3
	}
	for h := 0; h <= 24; h += labelHours {
		minute := float64(h * 60)
		if !view.Contains(minute) {
			continue
		}
		x := tr.TimeToX(minute)
		text := canvas.NewText(fmt.Sprintf("%02d:00", h), p.Label)
		text.TextSize = labelTextSize
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, f.Plot.Bottom+6))
		text.Resize(fyne.NewSize(40, 14))
		objs = append(objs, text)
	}
	return objs
}

func drawRange(f *Frame, p Palette) fyne.CanvasObject {
	x0 := f.Transform.TimeToX(f.Range[0])
	x1 := f.Transform.TimeToX(f.Range[1])
	rect := canvas.NewRectangle(p.Range)
	rect.StrokeColor = withAlpha(p.Range, 4)
	rect.StrokeWidth = 1
	rect.Move(fyne.NewPos(x0, f.Plot.Top))
	rect.Resize(fyne.NewSize(x1-x0, f.Plot.Height()))
	return rect
}

func drawEmpty(f *Frame, p Palette) fyne.CanvasObject {
	text := canvas.NewText("No program points yet", p.Label)
	text.TextSize = 12
	text.Alignment = fyne.TextAlignCenter
	text.Move(fyne.NewPos(f.Plot.Left, f.Plot.Top+f.Plot.Height()/2-8))
	text.Resize(fyne.NewSize(f.Plot.Width(), 16))
	return text
}

// drawCurves draws dimmed channels first so the focused curve stays on top.
func drawCurves(f *Frame, p Palette) []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	order := make([]program.Channel, 0, program.NumChannels)
	for _, ch := range program.Channels {
		if ch != f.Focus {
			order = append(order, ch)
		}
	}
	if f.Focus.Valid() {
		order = append(order, f.Focus)
	}
	for _, ch := range order {
		c := p.Channel(ch, f.Focus)
		width := float32(2)
		if ch == f.Focus {
			width = 2.5
		}
		pts := f.Curves[ch.Index()]
		for i := 1; i < len(pts); i++ {
			a, b := clipSegment(pts[i-1], pts[i], f.Plot)
			objs = append(objs, newLine(c, width, a.X, a.Y, b.X, b.Y))
		}
	}
	return objs
}

// clipSegment keeps a curve segment horizontally inside the plot.
func clipSegment(a, b Vec, plot Rect) (Vec, Vec) {
	clip := func(v, other Vec) Vec {
		if v.X < plot.Left && other.X != v.X {
			t := (plot.Left - v.X) / (other.X - v.X)
			return Vec{X: plot.Left, Y: v.Y + t*(other.Y-v.Y)}
		}
		if v.X > plot.Right && other.X != v.X {
			t := (plot.Right - v.X) / (other.X - v.X)
			return Vec{X: plot.Right, Y: v.Y + t*(other.Y-v.Y)}
		}
		return v
	}
	return clip(a, b), clip(b, a)
}

func drawMarkers(f *Frame, p Palette) []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	for _, m := range f.Markers {
		c := p.Channel(m.Channel, f.Focus)
		objs = append(objs, newCircle(c, color.Transparent, 0, m.X, m.Y, markerRadius))
	}
	if f.Selected != nil {
		if m, ok := f.FindMarker(f.Selected.Row, f.Selected.Channel); ok {
			objs = append(objs, newCircle(color.Transparent, p.Channels[m.Channel.Index()], 2, m.X, m.Y, selectedRadius))
		}
	}
	return objs
}

// drawHovered draws a dashed crosshair with a time label and ghost markers for
// the preview point.
func drawHovered(f *Frame, p Palette) []fyne.CanvasObject {
	h := f.Hovered
	minute := float64(h.Time)
	if !f.Transform.View.Contains(minute) {
		return nil
	}
	x := f.Transform.TimeToX(minute)

	var objs []fyne.CanvasObject
	for y := f.Plot.Top; y < f.Plot.Bottom; y += 2 * dashLength {
		objs = append(objs, newLine(p.Crosshair, 1, x, y, x, min(y+dashLength, f.Plot.Bottom)))
	}

	text := canvas.NewText(program.FormatClock(h.Time), p.Crosshair)
	text.TextSize = labelTextSize
	text.Alignment = fyne.TextAlignCenter
	text.Move(fyne.NewPos(x-20, f.Plot.Top-14))
	text.Resize(fyne.NewSize(40, 14))
	objs = append(objs, text)

	for _, ch := range program.Channels {
		if f.Focus.Valid() && f.Focus != ch {
			continue
		}
		y := f.Transform.ValueToY(float64(h.Value(ch)))
		c := p.Channels[ch.Index()]
		objs = append(objs,
			newCircle(withAlpha(c, 0.5), color.Transparent, 0, x, y, ghostRadius),
			newCircle(color.Transparent, c, 1, x, y, ghostRingRadius),
		)
	}
	return objs
}

func drawTrash(f *Frame, p Palette) []fyne.CanvasObject {
	r := f.Trash.Rect
	box := canvas.NewRectangle(withAlpha(p.Danger, 0.25))
	box.StrokeColor = p.Danger
	box.StrokeWidth = 1
	box.CornerRadius = 4
	box.Move(fyne.NewPos(r.Left, r.Top))
	box.Resize(fyne.NewSize(r.Width(), r.Height()))

	// A small bin: lid, body outline and slats.
	cx := r.Left + r.Width()/2
	top, bottom := r.Top+8, r.Bottom-6
	objs := []fyne.CanvasObject{
		box,
		newLine(p.Danger, 2, cx-7, top, cx+7, top),
		newLine(p.Danger, 2, cx-2, top-2, cx+2, top-2),
		newLine(p.Danger, 1.5, cx-5, top+2, cx-4, bottom),
		newLine(p.Danger, 1.5, cx+5, top+2, cx+4, bottom),
		newLine(p.Danger, 1.5, cx-4, bottom, cx+4, bottom),
		newLine(p.Danger, 1, cx, top+4, cx, bottom-2),
	}
	return objs
}

func newLine(c color.Color, width, x0, y0, x1, y1 float32) *canvas.Line {
	line := canvas.NewLine(c)
	line.StrokeWidth = width
	line.Position1 = fyne.NewPos(x0, y0)
	line.Position2 = fyne.NewPos(x1, y1)
	return line
}

func newCircle(fill, stroke color.Color, width, x, y, radius float32) *canvas.Circle {
	circle := canvas.NewCircle(fill)
	circle.StrokeColor = stroke
	circle.StrokeWidth = width
	circle.Position1 = fyne.NewPos(x-radius, y-radius)
	circle.Position2 = fyne.NewPos(x+radius, y+radius)
	return circle
}
