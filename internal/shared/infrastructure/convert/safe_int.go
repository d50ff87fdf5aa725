// Package convert narrows integers read from configuration into the
// fixed-width types driver and breaker settings take.
package convert

import "math"

// IntToInt32Clamped saturates v into the int32 range.
func IntToInt32Clamped(v int) int32 {
	return int32(max(math.MinInt32, min(math.MaxInt32, v)))
}

// IntToUint32Clamped saturates v into the uint32 range.
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
