// Package units renders raw impact magnitudes as scaled, human-readable
// strings ("1.5 kWh/an", "24.5 kgCO2e").
package units

import (
	"strconv"
	"strings"

	"github.com/rshade/cloudconso/internal/carbon"
)

// DefaultDecimals is the number of decimals used for per-component values.
const DefaultDecimals = 2

// massPrefix selects the mass ladder when a base unit starts with it.
const massPrefix = "CO2"

// Prefix is one step of a unit ladder.
type Prefix struct {
	Scale  float64
	Symbol string
}

// SILadder is used for energy units. Steps are sorted by ascending scale.
var SILadder = []Prefix{
	{Scale: 1, Symbol: ""},
	{Scale: 1e3, Symbol: "k"},
	{Scale: 1e6, Symbol: "M"},
	{Scale: 1e9, Symbol: "G"},
	{Scale: 1e12, Symbol: "T"},
}

// MassLadder is used for CO2 units; the base value is in grams.
var MassLadder = []Prefix{
	{Scale: 1, Symbol: "g"},
	{Scale: 1e3, Symbol: "kg"},
	{Scale: 1e6, Symbol: "T"},
	{Scale: 1e9, Symbol: "kT"},
	{Scale: 1e12, Symbol: "MT"},
}

// LadderFor returns the ladder matching a base unit.
func LadderFor(baseUnit string) []Prefix {
	if strings.HasPrefix(baseUnit, massPrefix) {
		return MassLadder
	}
	return SILadder
}

// Scale picks the largest ladder step whose scale does not exceed |value|,
// falling back to the smallest step, and returns value expressed in it.
func Scale(value float64, ladder []Prefix) (float64, Prefix) {
	abs := value
	if abs < 0 {
		abs = -abs
	}

	step := ladder[0]
	for _, p := range ladder[1:] {
		if p.Scale > abs {
			break
		}
		step = p
	}
	return value / step.Scale, step
}

// FormatUnit formats value with the best prefix for baseUnit, rounded up to
// decimals places. The sign is kept; only the magnitude selects the prefix.
//
//	FormatUnit(1500, "Wh/an", 1) == "1.5 kWh/an"
//	FormatUnit(0, "CO2e", 1)     == "0 gCO2e"
func FormatUnit(value float64, baseUnit string, decimals int) string {
	scaled, prefix := Scale(value, LadderFor(baseUnit))
	return FormatNumber(carbon.RoundUp(scaled, decimals)) + " " + prefix.Symbol + baseUnit
}

// FormatNumber renders a number in its shortest decimal form without an
// exponent. Negative zero is rendered as "0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
