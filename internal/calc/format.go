package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel display strings for non-finite results.
const (
	DisplayNaN         = "NaN"
	DisplayInfinity    = "Infinity"
	DisplayNegInfinity = "-Infinity"
)

// Plain notation is used for magnitudes in [plainMin, plainMax).
const (
	plainMin = 1e-6
	plainMax = 1e21
)

// FormatNumber renders v as display text using the shortest decimal that
// round-trips. Magnitudes in [1e-6, 1e21) are written in plain notation,
// everything else as "<mantissa>e<sign><exponent>" (e.g. "1e+21", "1.5e-7").
// Negative zero renders as "0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return DisplayNaN
	case math.IsInf(v, 1):
		return DisplayInfinity
	case math.IsInf(v, -1):
		return DisplayNegInfinity
	case v == 0:
		return "0"
	}

	if abs := math.Abs(v); abs >= plainMin && abs < plainMax {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// strconv pads the exponent to two digits ("1.5e-07").
	mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// ParseDisplay parses display text back to a number. A trailing decimal
// point is accepted ("5." is 5) as are the sentinel spellings.
func ParseDisplay(s string) (float64, error) {
	switch s {
	case DisplayNaN:
		return math.NaN(), nil
	case DisplayInfinity:
		return math.Inf(1), nil
	case DisplayNegInfinity:
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse display %q: %w", s, err)
	}
	return v, nil
}

// IsSentinel reports whether display shows a non-finite result.
func IsSentinel(display string) bool {
	switch display {
	case DisplayNaN, DisplayInfinity, DisplayNegInfinity:
		return true
	}
	return false
}

// editable reports whether more digits can be appended to display: it must
// be a plain decimal literal, not a sentinel or exponent form.
func editable(display string) bool {
	for i := 0; i < len(display); i++ {
		c := display[i]
		if (c < '0' || c > '9') && c != '.' && c != '-' {
			return false
		}
	}
	return true
}
