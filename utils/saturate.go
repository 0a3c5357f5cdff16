// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// ClampInt32 narrows v to the int32 range, saturating at the extremes instead of
// wrapping.
func ClampInt32(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	} else if v < math.MinInt32 {
		return math.MinInt32
	}

	return int32(v)
}

// SaturatingAdd32 returns a+b clamped to the int32 range.
func SaturatingAdd32(a, b int32) int32 {
	return ClampInt32(int64(a) + int64(b))
}

// ClampRange clamps v to [lo, hi].
func ClampRange(v, lo, hi int64) int64 {
	if v > hi {
		return hi
	} else if v < lo {
		return lo
	}

	return v
}

// ClampUnit clamps x to [-1, 1]. NaN maps to 0.
func ClampUnit(x float64) float64 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	} else if x != x {
		return 0
	}

	return x
}
