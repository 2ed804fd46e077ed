package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
