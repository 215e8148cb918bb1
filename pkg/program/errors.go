package program

import "fmt"

// ValidationError reports a field outside its allowed range.
type ValidationError struct {
	Point int // 1-based point position, 0 when not applicable
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	if e.Point > 0 {
		return fmt.Sprintf("point %d: %s out of range: %d", e.Point, e.Field, e.Value)
	}
	return fmt.Sprintf("%s out of range: %d", e.Field, e.Value)
}
