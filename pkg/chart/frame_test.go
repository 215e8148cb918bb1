package chart

import (
	"testing"

	"github.com/itohio/reeflight/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(rows []program.Row) frameInput {
	return frameInput{
		width:   testWidth,
		height:  testHeight,
		margins: DefaultMargins,
		view:    FullDay,
		rows:    rows,
	}
}

func TestBuildFrame_Empty(t *testing.T) {
	f := buildFrame(testInput(nil))

	assert.True(t, f.Empty)
	assert.Empty(t, f.Markers)
	assert.False(t, f.HasInterpolation())
	assert.Equal(t, Rect{Left: 38, Top: 16, Right: 1478, Bottom: 216}, f.Plot)
	assert.InDelta(t, 720, f.Transform.XToTime(758), 1e-3)
}

func TestBuildFrame_MinimumSize(t *testing.T) {
	in := testInput(nil)
	in.width, in.height = 10, 10
	f := buildFrame(in)

	assert.Equal(t, float32(MinWidth), f.Width)
	assert.Equal(t, float32(MinHeight), f.Height)
}

func TestBuildFrame_SortsAndClamps(t *testing.T) {
	a, b := program.NewRowID(), program.NewRowID()
	f := buildFrame(testInput([]program.Row{
		{ID: a, Point: program.NewPoint(900, 120, 0, 0, 0)},
		{ID: b, Point: program.NewPoint(-10, 0, 0, 0, -5)},
	}))

	require.Len(t, f.Rows, 2)
	assert.Equal(t, b, f.Rows[0].ID)
	assert.Equal(t, 0, f.Rows[0].Time)
	assert.Equal(t, 0, f.Rows[0].Value(4))
	assert.Equal(t, 100, f.Rows[1].Value(1))
}

func TestBuildFrame_Markers(t *testing.T) {
	rows := []program.Row{
		{ID: program.NewRowID(), Point: program.NewPoint(300, 40, 10, 70, 90)},
		{ID: program.NewRowID(), Point: program.NewPoint(900, 20, 20, 20, 20)},
	}

	t.Run("all channels", func(t *testing.T) {
		f := buildFrame(testInput(rows))
		assert.Len(t, f.Markers, len(rows)*program.NumChannels)
	})

	t.Run("focused channel", func(t *testing.T) {
		in := testInput(rows)
		in.focus = 3
		f := buildFrame(in)
		require.Len(t, f.Markers, len(rows))
		for _, m := range f.Markers {
			assert.Equal(t, program.Channel(3), m.Channel)
		}
		m, ok := f.FindMarker(rows[0].ID, 3)
		require.True(t, ok)
		want := px(300, 70)
		assert.InDelta(t, want.X, m.X, 1e-3)
		assert.InDelta(t, want.Y, m.Y, 1e-3)
		assert.Equal(t, 70, m.Value)
	})

	t.Run("outside view", func(t *testing.T) {
		in := testInput(rows)
		in.view = View{Start: 600, End: 1200}
		f := buildFrame(in)
		assert.Len(t, f.Markers, program.NumChannels)
		for _, m := range f.Markers {
			assert.Equal(t, rows[1].ID, m.Row)
		}
	})
}

func TestBuildFrame_FallbackPoints(t *testing.T) {
	in := testInput(nil)
	in.fallback = []program.Point{program.NewPoint(600, 50, 50, 50, 50)}
	f := buildFrame(in)

	require.False(t, f.Empty)
	for _, m := range f.Markers {
		assert.True(t, m.Row.IsZero())
	}
	assert.InDelta(t, 50, f.InterpolateAt(1, 0), 1e-9)
}

func TestBuildFrame_CurvesSpanView(t *testing.T) {
	rows := []program.Row{
		{ID: program.NewRowID(), Point: program.NewPoint(0, 20, 0, 0, 0)},
		{ID: program.NewRowID(), Point: program.NewPoint(720, 80, 0, 0, 0)},
	}
	in := testInput(rows)
	in.view = View{Start: 360, End: 1080}
	f := buildFrame(in)

	curve := f.Curves[0]
	require.Len(t, curve, 3)
	assert.InDelta(t, f.Plot.Left, curve[0].X, 1e-3)
	assert.InDelta(t, f.Plot.Right, curve[2].X, 1e-3)
	assert.InDelta(t, f.Transform.ValueToY(50), curve[0].Y, 1e-3)
	assert.InDelta(t, f.Transform.ValueToY(80), curve[1].Y, 1e-3)
	assert.InDelta(t, f.Transform.ValueToY(50), curve[2].Y, 1e-3)
}
