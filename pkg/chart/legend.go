package chart

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/program"
)

const swatchSize = 12

// DefaultLabels name the LED channels when no labels are configured.
var DefaultLabels = [program.NumChannels]string{
	"6500K CoolWhite + 455nm DeepBlue",
	"460nm DeepBlue + 480nm Blue",
	"400-420nm Violet + 445nm DeepBlue",
	"3000K WarmWhite + 665nm DeepRed",
}

// Legend shows one toggle button per channel. Pressing a button focuses its
// channel; pressing it again shows all channels.
type Legend struct {
	widget.BaseWidget

	ctrl     *Controller
	palette  Palette
	buttons  []*widget.Button
	swatches []*canvas.Rectangle
	content  *fyne.Container
}

// NewLegend creates a legend bound to ctrl.
func NewLegend(ctrl *Controller, palette Palette) *Legend {
	l := &Legend{ctrl: ctrl, palette: palette}
	items := make([]fyne.CanvasObject, 0, len(ctrl.Legend()))
	for _, entry := range ctrl.Legend() {
		ch := entry.Channel
		btn := widget.NewButton(entry.Label, func() {
			l.ctrl.ToggleFocus(ch)
		})
		swatch := canvas.NewRectangle(palette.Channels[ch.Index()])
		swatch.SetMinSize(fyne.NewSize(swatchSize, swatchSize))
		swatch.CornerRadius = 2
		l.buttons = append(l.buttons, btn)
		l.swatches = append(l.swatches, swatch)
		items = append(items, container.NewHBox(container.NewCenter(swatch), btn))
	}
	l.content = container.NewHBox(items...)
	l.ExtendBaseWidget(l)
	l.sync()
	ctrl.OnRedraw(func(*Frame) {
		l.sync()
	})
	return l
}

// SetPalette changes the swatch colours.
func (l *Legend) SetPalette(p Palette) {
	l.palette = p
	l.sync()
}

// sync copies solo and dim state from the controller into the buttons.
func (l *Legend) sync() {
	for i, entry := range l.ctrl.Legend() {
		if i >= len(l.buttons) {
			break
		}
		btn, swatch := l.buttons[i], l.swatches[i]
		importance := widget.MediumImportance
		switch {
		case entry.Solo:
			importance = widget.HighImportance
		case entry.Dim:
			importance = widget.LowImportance
		}
		fill := l.palette.Channel(entry.Channel, l.ctrl.Focus())
		if btn.Importance != importance || btn.Text != entry.Label {
			btn.Importance = importance
			btn.SetText(entry.Label)
		}
		if swatch.FillColor != fill {
			swatch.FillColor = fill
			swatch.Refresh()
		}
	}
}

// CreateRenderer creates the widget renderer.
func (l *Legend) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(l.content)
}
