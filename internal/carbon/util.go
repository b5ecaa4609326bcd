package carbon

import (
	"fmt"
	"math"
)

// RoundUp rounds value up to the given number of decimals:
// ceil(value × 10^decimals) / 10^decimals.
//
// This is round-up, not round-to-nearest. Negative values therefore move
// toward zero (RoundUp(-1.25, 1) == -1.2).
func RoundUp(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Ceil(value*multiplier) / multiplier
}

// formatFloat formats a float for display.
// If the float is an integer, it is formatted as an integer.
// Otherwise, it is formatted with 2 decimal places.
func formatFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
