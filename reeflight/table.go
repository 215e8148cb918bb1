package main

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/chart"
	"github.com/itohio/reeflight/pkg/program"
)

// time, channels, preview and delete
const rowColumns = 1 + program.NumChannels + 2

// rowTable lists the program rows for editing by keyboard. Selecting a row
// shows it as the preview point on the chart.
type rowTable struct {
	widget.BaseWidget

	state *appState
	rows  []program.Row
	list  *widget.List
}

func newRowTable(state *appState) *rowTable {
	t := &rowTable{state: state}
	t.ExtendBaseWidget(t)

	t.list = widget.NewList(
		func() int { return len(t.rows) },
		t.createItem,
		t.updateItem,
	)
	t.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(t.rows) {
			return
		}
		r := t.rows[id]
		t.state.ctrl.SetHoveredPoint(&chart.HoveredPoint{Row: r.ID, Point: r.Point})
	}
	t.list.OnUnselected = func(widget.ListItemID) {
		t.state.ctrl.SetHoveredPoint(nil)
	}

	t.rows = state.rows.Rows()
	return t
}

// Refresh reloads the rows from the store.
func (t *rowTable) Refresh() {
	t.rows = t.state.rows.Rows()
	t.list.Refresh()
	t.BaseWidget.Refresh()
}

func (t *rowTable) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewGridWithColumns(rowColumns, widget.NewLabelWithStyle("Time", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	for _, label := range t.state.cfg.Chart.ChannelLabels() {
		l := widget.NewLabel(label)
		l.Truncation = fyne.TextTruncateEllipsis
		header.Add(l)
	}
	header.Add(widget.NewLabel(""))
	header.Add(widget.NewLabel(""))

	addBtn := widget.NewButtonWithIcon("Add point", theme.ContentAddIcon(), func() {
		t.state.rows.AddDefaultRow()
		t.state.rows.MarkDirty()
	})
	sortBtn := widget.NewButtonWithIcon("Sort", theme.MoveDownIcon(), func() {
		t.list.UnselectAll()
		t.state.rows.Normalize()
	})

	return widget.NewSimpleRenderer(container.NewBorder(header, container.NewHBox(addBtn, sortBtn), nil, nil, t.list))
}

func (t *rowTable) createItem() fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, rowColumns)
	objects = append(objects, widget.NewEntry())
	for range program.Channels {
		objects = append(objects, widget.NewEntry())
	}
	objects = append(objects,
		widget.NewButtonWithIcon("", theme.VisibilityIcon(), nil),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	)
	return container.NewGridWithColumns(rowColumns, objects...)
}

func (t *rowTable) updateItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(t.rows) {
		return
	}
	r := t.rows[id]
	rows := t.state.rows
	objects := item.(*fyne.Container).Objects

	timeEntry := objects[0].(*widget.Entry)
	timeEntry.OnSubmitted = nil
	timeEntry.SetText(program.FormatClock(r.Time))
	timeEntry.OnSubmitted = func(text string) {
		minute := program.SnapTime(float64(program.ParseClock(text)), rows.TimeSnap())
		rows.SetRowTime(r.ID, minute)
		rows.Normalize()
		rows.MarkDirty()
	}

	for _, ch := range program.Channels {
		ch := ch
		entry := objects[ch.Index()+1].(*widget.Entry)
		entry.OnSubmitted = nil
		entry.SetText(strconv.Itoa(r.Value(ch)))
		entry.OnSubmitted = func(text string) {
			v := program.ParseIntensity(text)
			if rows.ValueSnap() {
				v = rows.SnapValue(v, program.ValueStep)
			}
			rows.SetRowChannel(r.ID, ch, v)
			rows.RowStyled(r.ID)
			rows.MarkDirty()
		}
	}

	objects[rowColumns-2].(*widget.Button).OnTapped = func() {
		t.state.previewRow(r.Point)
	}
	objects[rowColumns-1].(*widget.Button).OnTapped = func() {
		t.list.UnselectAll()
		rows.RemoveRow(r.ID)
		rows.MarkDirty()
	}
}
