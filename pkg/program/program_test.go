package program

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"06:30", 390},
		{"23:59", 1439},
		{"24:10", 1439},
		{"ab:cd", 0},
		{"", 0},
		{"7", 420},
		{" 12:05 ", 725},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClock(tt.in))
		})
	}
	assert.Equal(t, "06:05", FormatClock(365))
	assert.Equal(t, "23:59", FormatClock(5000))
}

func TestParseIntensity(t *testing.T) {
	assert.Equal(t, 0, ParseIntensity("abc"))
	assert.Equal(t, 0, ParseIntensity(""))
	assert.Equal(t, 55, ParseIntensity("55"))
	assert.Equal(t, 100, ParseIntensity("250"))
	assert.Equal(t, 0, ParseIntensity("-5"))
	assert.Equal(t, 12, ParseIntensity("12.7"))
	assert.Equal(t, 0, ParseIntensity("NaN"))
}

func TestPoint_Clamp(t *testing.T) {
	p := NewPoint(2000, -5, 50, 150, 100).Clamp()
	assert.Equal(t, NewPoint(1439, 0, 50, 100, 100), p)
	assert.Equal(t, 23, p.Hour())
	assert.Equal(t, 59, p.Minute())
	assert.Equal(t, 0, p.Value(0))
	assert.Equal(t, 50, p.WithValue(3, 50).Value(3))
}

func TestFromPoints_SortsAndIndexes(t *testing.T) {
	prog := FromPoints([]Point{
		NewPoint(600, 70, 70, 70, 70),
		NewPoint(0, 10, 20, 30, 40),
	})
	require.Len(t, prog.Points, 2)
	assert.Equal(t, ProgramPoint{Index: 1, Hour: 0, Minute: 0, Ch1: 10, Ch2: 20, Ch3: 30, Ch4: 40}, prog.Points[0])
	assert.Equal(t, ProgramPoint{Index: 2, Hour: 10, Minute: 0, Ch1: 70, Ch2: 70, Ch3: 70, Ch4: 70}, prog.Points[1])
	require.NoError(t, prog.Validate())
	assert.Equal(t, []Point{NewPoint(0, 10, 20, 30, 40), NewPoint(600, 70, 70, 70, 70)}, prog.ToPoints())
}

func TestProgram_YAMLShape(t *testing.T) {
	prog := FromPoints([]Point{NewPoint(75, 1, 2, 3, 4)})
	data, err := yaml.Marshal(prog)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hour: 1")
	assert.Contains(t, string(data), "minute: 15")
}

func TestProgram_Validate(t *testing.T) {
	prog := Program{Points: []ProgramPoint{{Index: 1, Hour: 24}}}
	err := prog.Validate()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "hour", verr.Field)
	assert.Equal(t, 1, verr.Point)

	assert.Error(t, Program{Points: []ProgramPoint{{Index: 0}}}.Validate())
	assert.Error(t, Intensity{Ch3: 101}.Validate())
	assert.NoError(t, Intensity{Ch1: 100}.Validate())
}

func TestEqual(t *testing.T) {
	a := []Point{NewPoint(0, 1, 1, 1, 1), NewPoint(60, 2, 2, 2, 2)}
	b := []Point{NewPoint(60, 2, 2, 2, 2), NewPoint(0, 1, 1, 1, 1)}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, b[:1]))
	b[0].Ch[0] = 3
	assert.False(t, Equal(a, b))
}
