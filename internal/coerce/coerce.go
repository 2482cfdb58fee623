package coerce

import (
	"math"
	"strconv"
	"strings"
)

// Int extracts the leading integer component of raw with truncation toward
// zero: leading whitespace is skipped, an optional sign and a decimal token
// are consumed, and the fractional part plus any trailing content are
// discarded. When no integer digits are present the result is 0, so ".9",
// "abc", and "" all coerce to zero. Magnitudes beyond the int64 range
// saturate at the range boundaries. Exponent notation is not recognised;
// "1e3" yields 1.
func Int(raw string) int64 {
	s := strings.TrimSpace(raw)

	i := 0
	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := s[start:i]
	if digits == "" {
		return 0
	}

	token := digits
	if negative {
		token = "-" + digits
	}

	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		// Only a range error is possible for a pure digit string.
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return value
}

// IntString formats Int(raw) as a base-10 literal. The result is never empty
// and never contains a fractional part, which is what the engine requires for
// its timing flags.
func IntString(raw string) string {
	return strconv.FormatInt(Int(raw), 10)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
