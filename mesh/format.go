package mesh

import (
	"strconv"
	"strings"
)

// DefaultDecimals is the decimal count used for coordinate and float
// material output when the caller does not configure one.
const DefaultDecimals = 8

// Material is one material value attached to an element. The 2DM format
// allows both integer indices and floating point values (BASEMENT 3.x stores
// element centroid elevation here), so a material remembers which of the two
// it was parsed or constructed as.
type Material struct {
	value   float64
	isFloat bool
}

// IntMaterial builds an integer material index.
func IntMaterial(v int) Material { return Material{value: float64(v)} }

// FloatMaterial builds a floating point material value.
func FloatMaterial(v float64) Material { return Material{value: v, isFloat: true} }

// IsFloat reports whether the material carries a floating point value.
func (m Material) IsFloat() bool { return m.isFloat }

// Int returns the material as an integer index. Only meaningful when
// IsFloat reports false.
func (m Material) Int() int { return int(m.value) }

// Float64 returns the material value as a float.
func (m Material) Float64() float64 { return m.value }

// Format renders the material: integers as bare integers, floats in the
// same sign-aligned scientific notation as coordinates.
func (m Material) Format(decimals int) string {
	if m.isFloat {
		return FormatFloat(m.value, decimals)
	}
	return strconv.Itoa(int(m.value))
}

// FormatFloat renders a float in normalized scientific notation with the
// given decimal count. A leading space is reserved for the sign column so
// positive and negative values align in fixed width output:
//
//	FormatFloat(1, 6)  == " 1.000000e+00"
//	FormatFloat(-1, 6) == "-1.000000e+00"
func FormatFloat(v float64, decimals int) string {
	if decimals < 0 {
		decimals = DefaultDecimals
	}
	s := strconv.FormatFloat(v, 'e', decimals, 64)
	if v >= 0 {
		return " " + s
	}
	return s
}

func itoa(v int) string { return strconv.Itoa(v) }

// quoteName wraps a node string name in double quotes when it contains
// whitespace, so it re-reads as a single token without warnings.
func quoteName(name string) string {
	if strings.ContainsAny(name, " \t") {
		return `"` + name + `"`
	}
	return name
}
