package program

import "math"

// Time snap granularities offered by the editor.
const (
	SnapFine   = 5
	SnapCoarse = 15
	// ValueStep is the intensity snap step in percent.
	ValueStep = 5
)

// SnapTime rounds minute to the nearest multiple of step and clamps it to [0,1439].
func SnapTime(minute float64, step int) int {
	if step <= 0 {
		step = 1
	}
	if math.IsNaN(minute) {
		minute = 0
	}
	snapped := math.Round(minute/float64(step)) * float64(step)
	return ClampTime(int(snapped))
}

// SnapValue rounds v to the nearest multiple of step and clamps it to [0,100].
func SnapValue(v, step int) int {
	if step <= 0 {
		return ClampIntensity(v)
	}
	snapped := math.Round(float64(v)/float64(step)) * float64(step)
	return ClampIntensity(int(snapped))
}

// RoundIntensity rounds a continuous value to an integer intensity in [0,100].
func RoundIntensity(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return ClampIntensity(int(math.Round(v)))
}
