package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseInterval parses a confidence-interval descriptor into the offsets
// added to the score.
//
//	"V"     -> high = V, low = -V
//	"A / B" -> high = A, low = B (taken literally, no sign inference)
func ParseInterval(s string) (high, low float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrInvalidInterval)
	}
	if !strings.Contains(s, "/") {
		v, err := parseOffset(s)
		if err != nil {
			return 0, 0, err
		}
		return v, -v, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q has %d parts", ErrInvalidInterval, s, len(parts))
	}
	if high, err = parseOffset(parts[0]); err != nil {
		return 0, 0, err
	}
	if low, err = parseOffset(parts[1]); err != nil {
		return 0, 0, err
	}
	return high, low, nil
}

func parseOffset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInterval, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidInterval, s)
	}
	return v, nil
}
