package csvfile

import (
	"math"
	"strconv"
	"strings"

	"yase/internal/domain"
)

// FormatVectors renders vectors as a nested list, e.g. [[0.0, 1.5], [2.0]].
// Numbers use the shortest representation that round-trips, always with a
// decimal point or exponent so they read back as floats.
func FormatVectors(vectors []domain.Vector) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vectors {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for j, x := range v {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatFloat(x))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// FormatFloat formats one component. Decimal notation is used for exponents
// in [-4, 16), scientific notation otherwise.
func FormatFloat(x float32) string {
	f := float64(x)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(f))))
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
