package program

import (
	"fmt"
)

// Mode is the device operating mode.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeManual || m == ModeAuto
}

// Intensity is a fixed four-channel output used in manual mode.
type Intensity struct {
	Ch1 int `yaml:"ch1" json:"ch1"`
	Ch2 int `yaml:"ch2" json:"ch2"`
	Ch3 int `yaml:"ch3" json:"ch3"`
	Ch4 int `yaml:"ch4" json:"ch4"`
}

// IntensityOf returns the channel values of p as an Intensity.
func IntensityOf(p Point) Intensity {
	return Intensity{Ch1: p.Ch[0], Ch2: p.Ch[1], Ch3: p.Ch[2], Ch4: p.Ch[3]}
}

// Validate checks that every channel is within [0,100].
func (i Intensity) Validate() error {
	for idx, v := range []int{i.Ch1, i.Ch2, i.Ch3, i.Ch4} {
		if v < 0 || v > MaxIntensity {
			return &ValidationError{Field: fmt.Sprintf("ch%d", idx+1), Value: v}
		}
	}
	return nil
}

// ProgramPoint is the serialized form of a point. Time is split into hour and
// minute, intensities are integer percentages.
type ProgramPoint struct {
	Index  int `yaml:"index" json:"index"`
	Hour   int `yaml:"hour" json:"hour"`
	Minute int `yaml:"minute" json:"minute"`
	Ch1    int `yaml:"ch1" json:"ch1"`
	Ch2    int `yaml:"ch2" json:"ch2"`
	Ch3    int `yaml:"ch3" json:"ch3"`
	Ch4    int `yaml:"ch4" json:"ch4"`
}

// Point converts pp into a Point, clamping out-of-range fields.
func (pp ProgramPoint) Point() Point {
	return NewPoint(pp.Hour*60+pp.Minute, pp.Ch1, pp.Ch2, pp.Ch3, pp.Ch4).Clamp()
}

// Program is a full day schedule.
type Program struct {
	Points []ProgramPoint `yaml:"points" json:"points"`
}

// FromPoints builds a program from points, sorted by time and indexed from 1.
func FromPoints(points []Point) Program {
	sorted := Canonical(points)
	prog := Program{Points: make([]ProgramPoint, 0, len(sorted))}
	for i, p := range sorted {
		p = p.Clamp()
		prog.Points = append(prog.Points, ProgramPoint{
			Index:  i + 1,
			Hour:   p.Hour(),
			Minute: p.Minute(),
			Ch1:    p.Ch[0],
			Ch2:    p.Ch[1],
			Ch3:    p.Ch[2],
			Ch4:    p.Ch[3],
		})
	}
	return prog
}

// ToPoints converts the program into time-sorted points.
func (p Program) ToPoints() []Point {
	points := make([]Point, 0, len(p.Points))
	for _, pp := range p.Points {
		points = append(points, pp.Point())
	}
	return Canonical(points)
}

// Validate checks every point against the device limits.
func (p Program) Validate() error {
	for i, pp := range p.Points {
		checks := []struct {
			field    string
			value    int
			min, max int
		}{
			{"index", pp.Index, 1, 255},
			{"hour", pp.Hour, 0, 23},
			{"minute", pp.Minute, 0, 59},
			{"ch1", pp.Ch1, 0, MaxIntensity},
			{"ch2", pp.Ch2, 0, MaxIntensity},
			{"ch3", pp.Ch3, 0, MaxIntensity},
			{"ch4", pp.Ch4, 0, MaxIntensity},
		}
		for _, c := range checks {
			if c.value < c.min || c.value > c.max {
				return &ValidationError{Point: i + 1, Field: c.field, Value: c.value}
			}
		}
	}
	return nil
}
