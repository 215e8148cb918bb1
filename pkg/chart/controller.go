package chart

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/reeflight/pkg/program"
)

// Options configure a Controller.
type Options struct {
	// Labels name the channels in the legend.
	Labels [program.NumChannels]string
	// Margins around the plot. Zero value means DefaultMargins.
	Margins Margins
	// Now returns the current time; used for touch double taps.
	Now func() time.Time
}

// LegendEntry is the legend state of one channel.
type LegendEntry struct {
	Channel program.Channel
	Label   string
	// Dim is set when another channel is focused.
	Dim bool
	// Solo is set when this channel is the focused one.
	Solo bool
}

// Controller turns pointer gestures into edits of host rows. It owns the view,
// focus, hover and selection state and rebuilds a Frame on every redraw.
type Controller struct {
	host Host
	opts Options

	width, height float32
	points        []program.Point

	view     View
	focus    program.Channel
	hovered  *HoveredPoint
	selected *Selection

	state        interaction
	trashVisible bool
	lastTap      tap
	cursor       Cursor

	frame     *Frame
	listeners []func(*Frame)
}

// NewController creates a controller editing the rows of host.
func NewController(host Host, opts Options) *Controller {
	if opts.Margins == (Margins{}) {
		opts.Margins = DefaultMargins
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	for i, label := range opts.Labels {
		if label == "" {
			opts.Labels[i] = DefaultLabels[i]
		}
	}
	c := &Controller{
		host:   host,
		opts:   opts,
		width:  MinWidth,
		height: MinHeight,
		view:   FullDay,
	}
	c.requestRedraw()
	return c
}

// SetLabels renames the channels. Empty labels fall back to DefaultLabels.
func (c *Controller) SetLabels(labels [program.NumChannels]string) {
	for i, label := range labels {
		if label == "" {
			labels[i] = DefaultLabels[i]
		}
	}
	if labels == c.opts.Labels {
		return
	}
	c.opts.Labels = labels
	c.requestRedraw()
}

// OnRedraw registers fn to be called with every new frame.
func (c *Controller) OnRedraw(fn func(*Frame)) {
	c.listeners = append(c.listeners, fn)
}

// Frame returns the latest render snapshot.
func (c *Controller) Frame() *Frame {
	return c.frame
}

// SetSize updates the canvas size and redraws.
func (c *Controller) SetSize(width, height float32) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.requestRedraw()
}

// Redraw rebuilds the frame. points are used when the host has no rows; nil
// points fall back to Host.Points.
func (c *Controller) Redraw(points []program.Point) {
	c.points = points
	c.requestRedraw()
}

// requestRedraw is the single entry point that rebuilds the frame from host state.
func (c *Controller) requestRedraw() {
	c.view = c.view.Clamp()
	fallback := c.points
	if fallback == nil {
		fallback = c.host.Points()
	}
	f := buildFrame(frameInput{
		width:    c.width,
		height:   c.height,
		margins:  c.opts.Margins,
		view:     c.view,
		rows:     c.host.Rows(),
		fallback: fallback,
		focus:    c.focus,
	})
	if c.hovered != nil {
		h := *c.hovered
		f.Hovered = &h
	}
	if c.selected != nil {
		s := *c.selected
		f.Selected = &s
	}
	switch s := c.state.(type) {
	case *rangeSelect:
		if s.active {
			a := program.Clamp(s.startMinute, c.view.Start, c.view.End)
			b := program.Clamp(s.currentMinute, c.view.Start, c.view.End)
			f.Range = &[2]float64{min(a, b), max(a, b)}
		}
	case *dragSession:
		f.Dragging = true
	}
	if c.trashVisible && c.selected != nil {
		if m, ok := f.FindMarker(c.selected.Row, c.selected.Channel); ok {
			f.Trash = TrashState{Visible: true, Rect: trashRect(m)}
		}
	}
	c.frame = f
	for _, fn := range c.listeners {
		fn(f)
	}
}

func trashRect(m Marker) Rect {
	cx, cy := m.X+trashOffsetX, m.Y+trashOffsetY
	half := float32(trashSize) / 2
	return Rect{Left: cx - half, Top: cy - half, Right: cx + half, Bottom: cy + half}
}

// View returns the visible time window.
func (c *Controller) View() View {
	return c.view
}

// SetView changes the visible window; it is clamped before use.
func (c *Controller) SetView(v View) {
	c.view = v.Clamp()
	c.requestRedraw()
}

// ResetView shows the whole day.
func (c *Controller) ResetView() {
	c.view = FullDay
	c.requestRedraw()
}

// SetHoveredPoint sets or clears the preview point.
func (c *Controller) SetHoveredPoint(p *HoveredPoint) {
	if p == nil {
		c.hovered = nil
	} else {
		h := *p
		c.hovered = &h
	}
	c.requestRedraw()
}

// Hovered returns the preview point, if any.
func (c *Controller) Hovered() *HoveredPoint {
	return c.hovered
}

// Selected returns the selected marker, if any.
func (c *Controller) Selected() *Selection {
	return c.selected
}

// Cursor returns the pointer shape for the last pointer position.
func (c *Controller) Cursor() Cursor {
	return c.cursor
}

// Focus returns the focused channel, or 0 when all channels are shown.
func (c *Controller) Focus() program.Channel {
	return c.focus
}

// ToggleFocus makes ch the only focused channel, or clears focus when ch is
// already focused.
func (c *Controller) ToggleFocus(ch program.Channel) {
	if !ch.Valid() || c.focus == ch {
		c.focus = 0
	} else {
		c.focus = ch
	}
	log.Debugf("Focused channel %d", c.focus)
	c.requestRedraw()
}

// Legend returns the legend state of every channel.
func (c *Controller) Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, program.NumChannels)
	for _, ch := range program.Channels {
		entries = append(entries, LegendEntry{
			Channel: ch,
			Label:   c.opts.Labels[ch.Index()],
			Dim:     c.focus.Valid() && c.focus != ch,
			Solo:    c.focus == ch,
		})
	}
	return entries
}

// OnRowRemoved forgets hover and selection state of a removed row. The host
// calls it when it deletes rows on its own.
func (c *Controller) OnRowRemoved(id program.RowID) {
	if c.hovered != nil && c.hovered.Row == id {
		c.hovered = nil
	}
	if c.selected != nil && c.selected.Row == id {
		c.selected = nil
	}
	_, dragging := c.state.(*dragSession)
	c.trashVisible = c.selected != nil || dragging
}

// DeleteSelected removes the row of the selected marker.
func (c *Controller) DeleteSelected() {
	if !c.host.Visible() || c.selected == nil || c.selected.Row.IsZero() {
		return
	}
	id := c.selected.Row
	c.trashVisible = false
	c.removeRow(id)
}

// PointerDown starts a gesture.
func (c *Controller) PointerDown(ev PointerEvent) {
	if !c.host.Visible() || ev.Button != ButtonPrimary {
		return
	}
	if c.state != nil {
		if c.state.pointer() != ev.ID {
			return
		}
		// The same pointer cannot be pressed twice; the old session is stale.
		c.finish(ev.ID, true)
	}
	f := c.frame
	pos := ev.Pos

	if c.trashHit(pos) {
		c.DeleteSelected()
		return
	}
	if m, ok := c.nearestMarker(pos, hitRadius); ok {
		if c.startDrag(m, ev.ID, Vec{X: pos.X - m.X, Y: pos.Y - m.Y}) {
			return
		}
	}
	if m, ok := c.selectedMarker(); ok && !m.Row.IsZero() {
		c.state = &pendingRelativeDrag{
			id:     ev.ID,
			marker: m,
			start:  pos,
			grab:   Vec{X: pos.X - m.X, Y: pos.Y - m.Y},
		}
		return
	}

	c.selected = nil
	c.trashVisible = false
	if f.Plot.Contains(pos.X, pos.Y) {
		minute := f.Transform.XToTime(pos.X)
		c.state = &rangeSelect{
			id:            ev.ID,
			startMinute:   minute,
			currentMinute: minute,
			startX:        pos.X,
		}
	}
	c.requestRedraw()

	if ev.Kind == PointerTouch {
		c.detectDoubleTap(pos)
	}
}

// PointerMove advances the gesture of ev.ID and updates the cursor.
func (c *Controller) PointerMove(ev PointerEvent) {
	if !c.host.Visible() {
		c.cursor = CursorDefault
		return
	}
	switch s := c.state.(type) {
	case *rangeSelect:
		if s.id == ev.ID {
			s.currentMinute = c.frame.Transform.XToTime(ev.Pos.X)
			if math32.Abs(ev.Pos.X-s.startX) >= rangeActivateDist {
				s.active = true
			}
			c.requestRedraw()
		}
	case *pendingRelativeDrag:
		if s.id == ev.ID && math32.Hypot(ev.Pos.X-s.start.X, ev.Pos.Y-s.start.Y) >= relativeDragDist {
			m, ok := c.selectedMarker()
			if !ok {
				m = s.marker
			}
			if c.startDrag(m, ev.ID, s.grab) {
				c.dragMove(c.state.(*dragSession), ev.Pos)
			}
		}
	case *dragSession:
		if s.id == ev.ID {
			c.dragMove(s, ev.Pos)
		}
	}
	c.updateCursor(ev.Pos)
}

// PointerUp finishes the gesture of ev.ID.
func (c *Controller) PointerUp(ev PointerEvent) {
	c.finish(ev.ID, false)
	c.updateCursor(ev.Pos)
}

// PointerCancel aborts the gesture of id and restores anything not committed.
func (c *Controller) PointerCancel(id PointerID) {
	c.finish(id, true)
}

// PointerLeave resets the cursor when the pointer leaves the canvas.
func (c *Controller) PointerLeave() {
	if _, dragging := c.state.(*dragSession); !dragging {
		c.cursor = CursorDefault
	}
}

// DoubleClick adds a point at pos when it lies inside the plot.
func (c *Controller) DoubleClick(pos Vec) {
	if !c.host.Visible() || c.frame == nil {
		return
	}
	if !c.frame.Plot.Contains(pos.X, pos.Y) {
		return
	}
	c.addPointAt(pos)
}

// Scroll zooms around pos with vertical deltas and pans with horizontal ones.
func (c *Controller) Scroll(pos Vec, dx, dy float32) {
	if !c.host.Visible() || c.state != nil || c.frame == nil {
		return
	}
	f := c.frame
	if !f.Plot.Contains(pos.X, pos.Y) {
		return
	}
	view := c.view
	if dy > 0 {
		view = view.Zoom(f.Transform.XToTime(pos.X), 1/wheelZoomFactor)
	} else if dy < 0 {
		view = view.Zoom(f.Transform.XToTime(pos.X), wheelZoomFactor)
	}
	if dx != 0 && f.Plot.Width() > 0 {
		view = view.Pan(-float64(dx/f.Plot.Width()) * view.Span())
	}
	if view == c.view {
		return
	}
	c.view = view
	c.requestRedraw()
}

func (c *Controller) finish(id PointerID, cancelled bool) {
	switch s := c.state.(type) {
	case *rangeSelect:
		if s.id != id {
			return
		}
		c.state = nil
		if !cancelled && s.active {
			a, b := min(s.startMinute, s.currentMinute), max(s.startMinute, s.currentMinute)
			if b-a >= float64(c.host.TimeSnap()) {
				c.view = ClampView(a, b)
				log.Debugf("Zoomed to %.0f..%.0f", c.view.Start, c.view.End)
			}
		}
		c.requestRedraw()

	case *pendingRelativeDrag:
		if s.id != id {
			return
		}
		c.state = nil
		c.selected = nil
		c.trashVisible = false
		c.requestRedraw()
		c.host.MarkDirty()

	case *dragSession:
		if s.id != id {
			return
		}
		c.state = nil
		c.cursor = CursorDefault
		if cancelled {
			c.restoreDrag(s)
			return
		}
		c.trashVisible = c.selected != nil
		if s.deleteOnDrop {
			if s.mode == dragSplitActive {
				c.host.SetRowChannel(s.origin, s.channel, s.originValue)
				c.host.RowStyled(s.origin)
			}
			log.Debugf("Dropped row %s outside the chart", s.row)
			c.removeRow(s.row)
			return
		}
		c.host.Normalize()
		c.requestRedraw()
		c.host.MarkDirty()
	}
}

// startDrag selects m and begins dragging it. Markers without a row cannot be
// dragged.
func (c *Controller) startDrag(m Marker, id PointerID, grab Vec) bool {
	if m.Row.IsZero() {
		return false
	}
	c.selected = &Selection{Row: m.Row, Channel: m.Channel}

	rows := c.host.Rows()
	baseline := make([]program.Row, len(rows))
	copy(baseline, rows)
	originPoint := program.NewPoint(m.Time, 0, 0, 0, 0).WithValue(m.Channel, m.Value)
	for _, r := range baseline {
		if r.ID == m.Row {
			originPoint = r.Point
			break
		}
	}

	mode := dragPlain
	if c.focus.Valid() && c.focus == m.Channel {
		mode = dragSplitPending
	}
	c.state = &dragSession{
		id:          id,
		mode:        mode,
		row:         m.Row,
		channel:     m.Channel,
		grab:        grab,
		startX:      m.X,
		origin:      m.Row,
		originPoint: originPoint,
		originValue: m.Value,
		baseline:    program.ChannelInterpolators(baseline),
	}
	c.trashVisible = false
	c.cursor = CursorGrabbing
	log.Tracef("Drag %s of row %s channel %d", mode, m.Row, m.Channel)
	c.requestRedraw()
	return true
}

func (c *Controller) dragMove(s *dragSession, pos Vec) {
	f := c.frame
	x, y := pos.X-s.grab.X, pos.Y-s.grab.Y
	outside := x < 0 || x > f.Width || y < 0 || y > f.Height
	s.deleteOnDrop = outside || c.trashHit(pos)
	c.trashVisible = false
	if s.deleteOnDrop {
		c.requestRedraw()
		return
	}

	minute := f.Transform.XToTime(x)
	value := f.Transform.YToValue(y)
	switch s.mode {
	case dragSplitPending:
		if math32.Abs(x-s.startX) >= splitDist {
			t := program.SnapTime(minute, c.host.TimeSnap())
			var p program.Point
			p.Time = t
			for _, ch := range program.Channels {
				p.Ch[ch.Index()] = program.RoundIntensity(s.baseline[ch.Index()].At(float64(t)))
			}
			p = p.WithValue(s.channel, program.RoundIntensity(value))
			s.row = c.host.AddRow(p)
			s.mode = dragSplitActive
			c.selected = &Selection{Row: s.row, Channel: s.channel}
			log.Debugf("Split row %s into %s at %s", s.origin, s.row, program.FormatClock(t))
		} else {
			// Before the split only the value moves; time stays fixed.
			c.setChannel(s.row, s.channel, value)
			c.host.RowStyled(s.row)
		}

	case dragSplitActive:
		t := program.SnapTime(minute, c.host.TimeSnap())
		c.host.SetRowTime(s.row, t)
		c.host.TimeDisplayChanged(s.row)
		for _, ch := range program.Channels {
			v := s.baseline[ch.Index()].At(float64(t))
			if ch == s.channel {
				v = value
			}
			c.setChannel(s.row, ch, v)
		}
		// The origin is re-interpolated from its neighbours and the split row.
		v := program.InterpolateExcluding(c.host.Rows(), s.channel, float64(s.originPoint.Time), s.origin)
		c.host.SetRowChannel(s.origin, s.channel, program.RoundIntensity(v))
		c.host.RowStyled(s.origin)
		c.host.RowStyled(s.row)

	default:
		c.moveRow(s.row, s.channel, minute, value)
	}

	c.syncHovered(s.row)
	c.requestRedraw()
	c.host.MarkDirty()
}

// restoreDrag undoes an aborted drag using the state captured at its start.
func (c *Controller) restoreDrag(s *dragSession) {
	if s.mode == dragSplitActive && s.row != s.origin {
		c.host.RemoveRow(s.row)
		c.OnRowRemoved(s.row)
	}
	c.host.SetRowTime(s.origin, s.originPoint.Time)
	c.host.TimeDisplayChanged(s.origin)
	for _, ch := range program.Channels {
		c.host.SetRowChannel(s.origin, ch, s.originPoint.Value(ch))
	}
	c.host.RowStyled(s.origin)
	c.syncHovered(s.origin)
	c.selected = nil
	c.trashVisible = false
	log.Debugf("Cancelled drag of row %s", s.origin)
	c.host.Normalize()
	c.requestRedraw()
	c.host.MarkDirty()
}

func (c *Controller) moveRow(id program.RowID, ch program.Channel, minute, value float64) {
	c.host.SetRowTime(id, program.SnapTime(minute, c.host.TimeSnap()))
	c.host.TimeDisplayChanged(id)
	c.setChannel(id, ch, value)
	c.host.RowStyled(id)
}

func (c *Controller) setChannel(id program.RowID, ch program.Channel, value float64) {
	c.host.SetRowChannel(id, ch, c.quantize(value))
}

func (c *Controller) quantize(value float64) int {
	v := program.RoundIntensity(value)
	if c.host.ValueSnap() {
		v = c.host.SnapValue(v, program.ValueStep)
	}
	return v
}

func (c *Controller) removeRow(id program.RowID) {
	c.host.RemoveRow(id)
	c.OnRowRemoved(id)
	c.host.Normalize()
	c.requestRedraw()
	c.host.MarkDirty()
}

// addPointAt inserts a row at the schedule position under pos. With a focused
// channel only that channel takes the pointer value; the others follow the
// current curves.
func (c *Controller) addPointAt(pos Vec) {
	f := c.frame
	t := program.SnapTime(f.Transform.XToTime(pos.X), c.host.TimeSnap())
	v := c.quantize(f.Transform.YToValue(pos.Y))

	var p program.Point
	p.Time = t
	for _, ch := range program.Channels {
		if f.HasInterpolation() && c.focus.Valid() {
			p.Ch[ch.Index()] = program.RoundIntensity(f.InterpolateAt(ch, float64(t)))
		} else {
			p.Ch[ch.Index()] = v
		}
	}
	if c.focus.Valid() {
		p = p.WithValue(c.focus, v)
	}
	id := c.host.AddRow(p)
	log.Debugf("Added row %s at %s", id, program.FormatClock(t))
	c.host.Normalize()
	c.requestRedraw()
	c.host.MarkDirty()
}

func (c *Controller) detectDoubleTap(pos Vec) {
	now := c.opts.Now()
	dx, dy := pos.X-c.lastTap.pos.X, pos.Y-c.lastTap.pos.Y
	if !c.lastTap.at.IsZero() && now.Sub(c.lastTap.at) < doubleTapInterval && dx*dx+dy*dy < doubleTapDist*doubleTapDist {
		c.lastTap = tap{}
		if c.frame.Plot.Contains(pos.X, pos.Y) {
			c.addPointAt(pos)
		}
		return
	}
	c.lastTap = tap{at: now, pos: pos}
}

func (c *Controller) syncHovered(id program.RowID) {
	if c.hovered == nil || c.hovered.Row != id {
		return
	}
	for _, r := range c.host.Rows() {
		if r.ID == id {
			c.hovered.Point = r.Point
			return
		}
	}
}

// nearestMarker returns the marker closest to pos within radius. Ties go to the
// marker drawn last.
func (c *Controller) nearestMarker(pos Vec, radius float32) (Marker, bool) {
	if c.frame == nil {
		return Marker{}, false
	}
	var best Marker
	found := false
	bestDist := float32(radius)
	for _, m := range c.frame.Markers {
		d := math32.Hypot(m.X-pos.X, m.Y-pos.Y)
		if d <= bestDist {
			best, bestDist, found = m, d, true
		}
	}
	return best, found
}

func (c *Controller) selectedMarker() (Marker, bool) {
	if c.selected == nil {
		return Marker{}, false
	}
	return c.frame.FindMarker(c.selected.Row, c.selected.Channel)
}

func (c *Controller) trashHit(pos Vec) bool {
	if !c.trashVisible || c.frame == nil || !c.frame.Trash.Visible {
		return false
	}
	return c.frame.Trash.Rect.Contains(pos.X, pos.Y)
}

func (c *Controller) updateCursor(pos Vec) {
	f := c.frame
	if f == nil || !c.host.Visible() {
		c.cursor = CursorDefault
		return
	}
	switch s := c.state.(type) {
	case *dragSession:
		if !f.Canvas().Contains(pos.X, pos.Y) || c.trashHit(pos) {
			c.cursor = CursorNotAllowed
		} else {
			c.cursor = CursorGrabbing
		}
		return
	case *rangeSelect:
		if s.active {
			c.cursor = CursorZoomIn
			return
		}
	}
	if _, ok := c.nearestMarker(pos, hitRadius); ok {
		c.cursor = CursorGrab
		return
	}
	if f.Plot.Contains(pos.X, pos.Y) {
		c.cursor = CursorCrosshair
	} else {
		c.cursor = CursorDefault
	}
}
