package request

import "fmt"

// StatusRange is the half-open status code range [Lower, Upper).
type StatusRange struct {
	Lower int `validate:"gte=0"`
	Upper int `validate:"gtfield=Lower"`
}

// Range returns the range [lower, upper).
func Range(lower, upper int) StatusRange {
	return StatusRange{Lower: lower, Upper: upper}
}

// Contains reports whether code falls in the range.
func (r StatusRange) Contains(code int) bool {
	return r.Lower <= code && code < r.Upper
}

func (r StatusRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Lower, r.Upper)
}

// MatchRejection returns the first range in ranges containing code.
func MatchRejection(ranges []StatusRange, code int) (StatusRange, bool) {
	for _, r := range ranges {
		if r.Contains(code) {
			return r, true
		}
	}
	return StatusRange{}, false
}
