package program

import (
	"golang.org/x/exp/constraints"
)

const (
	// MinutesPerDay is the period of a program.
	MinutesPerDay = 1440
	// LastMinute is the last valid minute-of-day of a point.
	LastMinute = MinutesPerDay - 1
	// MaxIntensity is the upper intensity bound in percent.
	MaxIntensity = 100
	// NumChannels is the number of independently dimmed LED channels.
	NumChannels = 4
)

// Channel identifies one of the four LED channels (1..4).
type Channel int

// Channels lists every channel in order.
var Channels = [NumChannels]Channel{1, 2, 3, 4}

// Valid reports whether c names an existing channel.
func (c Channel) Valid() bool {
	return c >= 1 && c <= NumChannels
}

// Index returns the zero-based index of the channel.
func (c Channel) Index() int {
	return int(c) - 1
}

// Point is one schedule entry: a minute-of-day plus four channel intensities.
type Point struct {
	Time int
	Ch   [NumChannels]int
}

// NewPoint creates a point at minute with the given channel values.
func NewPoint(minute int, ch1, ch2, ch3, ch4 int) Point {
	return Point{Time: minute, Ch: [NumChannels]int{ch1, ch2, ch3, ch4}}
}

// Value returns the intensity of channel ch, or 0 for an invalid channel.
func (p Point) Value(ch Channel) int {
	if !ch.Valid() {
		return 0
	}
	return p.Ch[ch.Index()]
}

// WithValue returns a copy of p with channel ch set to v.
func (p Point) WithValue(ch Channel, v int) Point {
	if ch.Valid() {
		p.Ch[ch.Index()] = v
	}
	return p
}

// Hour returns the hour part of the point time.
func (p Point) Hour() int {
	return p.Time / 60
}

// Minute returns the minute part of the point time.
func (p Point) Minute() int {
	return p.Time % 60
}

// Clamp returns p with time in [0,1439] and intensities in [0,100].
func (p Point) Clamp() Point {
	p.Time = ClampTime(p.Time)
	for i := range p.Ch {
		p.Ch[i] = ClampIntensity(p.Ch[i])
	}
	return p
}

// ClampTime clamps a minute-of-day to [0,1439].
func ClampTime(minute int) int {
	return Clamp(minute, 0, LastMinute)
}

// ClampIntensity clamps an intensity to [0,100].
func ClampIntensity(v int) int {
	return Clamp(v, 0, MaxIntensity)
}

// Clamp limits v to [lo,hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
