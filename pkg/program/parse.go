package program

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseClock parses "HH:MM" into a minute-of-day. Missing or non-numeric parts
// count as 0 and the result is clamped to [0,1439].
func ParseClock(s string) int {
	hh, mm, _ := strings.Cut(strings.TrimSpace(s), ":")
	return ClampTime(atoi(hh)*60 + atoi(mm))
}

// FormatClock formats a minute-of-day as "HH:MM".
func FormatClock(minute int) string {
	minute = ClampTime(minute)
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseIntensity parses an intensity percentage, defaulting to 0 on bad input.
func ParseIntensity(s string) int {
	return ClampIntensity(atoi(s))
}

func atoi(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(Clamp(f, math.MinInt32, math.MaxInt32))
}
