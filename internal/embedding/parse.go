package embedding

import (
	"errors"
	"strconv"

	"github.com/x448/float16"
)

// parseField converts one numeric field. ok is false for anything that is not
// a number; values outside the float32 range saturate to infinity.
func parseField(s string) (v float16.Float16, ok bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return float16.Fromfloat32(float32(f)), true
}
