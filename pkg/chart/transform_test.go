package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	tr := NewTransform(Rect{Left: 38, Top: 16, Right: 1478, Bottom: 216}, FullDay)

	assert.InDelta(t, 38, tr.TimeToX(0), 1e-3)
	assert.InDelta(t, 1478, tr.TimeToX(1440), 1e-3)
	assert.InDelta(t, 216, tr.ValueToY(0), 1e-3)
	assert.InDelta(t, 16, tr.ValueToY(100), 1e-3)

	for _, minute := range []float64{0, 1, 359.5, 720, 1439} {
		assert.InDelta(t, minute, tr.XToTime(tr.TimeToX(minute)), 1e-3)
	}
	for _, value := range []float64{0, 12.5, 50, 100} {
		assert.InDelta(t, value, tr.YToValue(tr.ValueToY(value)), 1e-3)
	}
}

func TestTransform_ClampsInverse(t *testing.T) {
	tr := NewTransform(Rect{Left: 10, Top: 10, Right: 110, Bottom: 110}, View{600, 700})

	assert.InDelta(t, 650, tr.XToTime(60), 1e-3)
	assert.Equal(t, 0.0, tr.XToTime(-100000))
	assert.Equal(t, 1440.0, tr.XToTime(100000))
	assert.Equal(t, 100.0, tr.YToValue(-50))
	assert.Equal(t, 0.0, tr.YToValue(500))
}

func TestTransform_DegeneratePlot(t *testing.T) {
	tr := NewTransform(Rect{Left: 10, Top: 10, Right: 10, Bottom: 10}, View{100, 200})

	assert.Equal(t, 100.0, tr.XToTime(50))
	assert.Equal(t, 0.0, tr.YToValue(50))
}
