// SPDX-License-Identifier: EPL-2.0

// Package utils holds the small integer helpers shared by the codec, the channel
// mapper and the mixer: saturating arithmetic on the 32-bit full-scale sample domain
// and fixed-point linear interpolation.
//
// All helpers are pure and allocation free.
package utils
