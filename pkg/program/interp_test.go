package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolator_Empty(t *testing.T) {
	in := NewInterpolator(nil)
	assert.True(t, in.Empty())
	assert.Equal(t, 0.0, in.At(0))
	assert.Equal(t, 0.0, in.At(720))
}

func TestInterpolator_SingleSampleIsConstant(t *testing.T) {
	in := NewInterpolator([]Sample{{Time: 0, Value: 50}})
	for _, minute := range []float64{0, 1, 360, 720, 1439} {
		assert.Equal(t, 50.0, in.At(minute), "minute %v", minute)
	}
}

func TestInterpolator_LinearMidpoint(t *testing.T) {
	in := NewInterpolator([]Sample{{Time: 720, Value: 80}, {Time: 0, Value: 20}})
	assert.InDelta(t, 50.0, in.At(360), 1e-9)
}

func TestInterpolator_ExactAtSamples(t *testing.T) {
	samples := []Sample{
		{Time: 1200, Value: 5},
		{Time: 60, Value: 10},
		{Time: 480, Value: 95},
		{Time: 720, Value: 100},
		{Time: 900, Value: 40},
	}
	in := NewInterpolator(samples)
	for _, s := range samples {
		assert.InDelta(t, s.Value, in.At(s.Time), 1e-9, "time %v", s.Time)
	}
}

func TestInterpolator_WrapsAroundMidnight(t *testing.T) {
	// 22:00 -> 0, 02:00 -> 40: midnight sits halfway on the wrapping segment.
	in := NewInterpolator([]Sample{{Time: 120, Value: 40}, {Time: 1320, Value: 0}})

	assert.InDelta(t, 20.0, in.At(0), 1e-9)
	assert.InDelta(t, 30.0, in.At(60), 1e-9)
	assert.InDelta(t, 10.0, in.At(1380), 1e-9)

	// Just before the first sample continues the segment coming from the last one.
	eps := 1e-6
	before := in.At(120 - eps)
	assert.InDelta(t, 40.0, before, 1e-4)
	assert.Less(t, before, 40.0)
	assert.InDelta(t, in.At(1440), in.At(0), 1e-9)
}

func TestInterpolator_DuplicateTimesUseLeftValue(t *testing.T) {
	in := NewInterpolator([]Sample{{Time: 600, Value: 10}, {Time: 600, Value: 90}})
	assert.Equal(t, 10.0, in.At(600))
}

func TestInterpolateExcluding(t *testing.T) {
	a, b, c := NewRowID(), NewRowID(), NewRowID()
	rows := []Row{
		{ID: a, Point: NewPoint(0, 0, 0, 0, 0)},
		{ID: b, Point: NewPoint(600, 90, 0, 0, 0)},
		{ID: c, Point: NewPoint(1200, 60, 0, 0, 0)},
	}
	assert.InDelta(t, 90.0, InterpolateExcluding(rows, 1, 600, NoRow), 1e-9)
	// Without b, 600 lies on the 0 -> 60 segment at a half.
	assert.InDelta(t, 30.0, InterpolateExcluding(rows, 1, 600, b), 1e-9)
	assert.Equal(t, 0.0, InterpolateExcluding(rows[:1], 1, 600, a))
}

func TestChannelInterpolators(t *testing.T) {
	rows := []Row{
		{ID: NewRowID(), Point: NewPoint(0, 10, 20, 30, 40)},
		{ID: NewRowID(), Point: NewPoint(720, 30, 40, 50, 60)},
	}
	interps := ChannelInterpolators(rows)
	for _, ch := range Channels {
		assert.InDelta(t, float64(rows[0].Value(ch)+10), interps[ch.Index()].At(360), 1e-9)
	}
}
