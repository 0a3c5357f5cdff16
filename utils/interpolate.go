// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// LinearInterpolate blends y0 and y1 with the fixed-point weight frac/scale, where
// frac is the distance from y0 (0 <= frac <= scale). The result always lies between
// y0 and y1, so it cannot overflow.
func LinearInterpolate(y0, y1 int32, frac, scale int64) int32 {
	if frac <= 0 {
		return y0
	}
	if frac >= scale {
		return y1
	}

	return int32((int64(y1)*frac + int64(y0)*(scale-frac)) / scale)
}

// ApplyGain scales v by gain and saturates to the int32 range.
func ApplyGain(v int32, gain float64) int32 {
	if gain == 1 {
		return v
	}

	f := float64(v) * gain
	if f >= math.MaxInt32 {
		return math.MaxInt32
	} else if f <= math.MinInt32 {
		return math.MinInt32
	}

	return int32(f)
}
