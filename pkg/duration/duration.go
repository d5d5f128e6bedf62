package duration

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingUnit is returned when the value has no unit suffix.
	ErrMissingUnit = errors.New("duration unit is missing")
	// ErrInvalidNumber is returned when the magnitude is empty or out of range.
	ErrInvalidNumber = errors.New("duration magnitude is not a valid number")
	// ErrInvalidUnit is returned when the suffix is not ns, us, ms, s or m.
	ErrInvalidUnit = errors.New("duration unit is invalid")
)

var units = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
}

// Parse converts s into a time.Duration. The magnitude is everything before
// the first non-digit character and the unit is everything from it onward.
// No whitespace, sign or fraction is accepted.
func Parse(s string) (time.Duration, error) {
	idx := strings.IndexFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if idx < 0 {
		return 0, ErrMissingUnit
	}

	num, unit := s[:idx], s[idx:]

	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}

	scale, ok := units[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	if n > uint64(math.MaxInt64/int64(scale)) {
		rangeErr := &strconv.NumError{Func: "ParseUint", Num: num, Err: strconv.ErrRange}
		return 0, fmt.Errorf("%w: %w", ErrInvalidNumber, rangeErr)
	}

	return time.Duration(n) * scale, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) time.Duration {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
