// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math/bits"

	"github.com/ik5/audmix/utils"
)

// Frame holds one sample per channel in the 32-bit full-scale domain.
type Frame [MaxChannels]int32

// MapChannels rewrites the first nbIn channels of v, laid out as inLayout, into nbOut
// channels laid out as outLayout. A zero layout means DefaultLayout for the count.
// forced marks inLayout as authoritative for mono sources.
//
// Channels the output has no position for are folded into front left/right:
// center, LFE, back center and top positions are split between both sides,
// left-side positions go left and right-side ones go right. Sums saturate.
//
// MapChannels does not allocate.
func MapChannels(v *Frame, nbIn int, inLayout ChannelLayout, forced bool, nbOut int, outLayout ChannelLayout) {
	nbIn = min(max(nbIn, 0), MaxChannels)
	nbOut = min(max(nbOut, 0), MaxChannels)
	if nbIn == 0 || nbOut == 0 {
		clear(v[:])
		return
	}
	if outLayout == 0 {
		outLayout = DefaultLayout(nbOut)
	}

	switch {
	case nbIn == 1:
		monoUpmix(v, inLayout, forced, nbOut, outLayout)
	case nbIn == 2 && nbOut == 1:
		v[0] = int32((int64(v[0]) + int64(v[1])) / 2)
	case nbIn == nbOut:
	default:
		if inLayout == 0 {
			inLayout = DefaultLayout(nbIn)
		}
		redistribute(v, nbIn, inLayout, nbOut, outLayout)
	}

	clear(v[nbOut:])
}

func monoUpmix(v *Frame, inLayout ChannelLayout, forced bool, nbOut int, outLayout ChannelLayout) {
	s := v[0]
	clear(v[:nbOut])

	if nbOut == 1 {
		v[0] = s
		return
	}

	if nbOut == 2 {
		if forced && inLayout != 0 && inLayout != ChFrontLeft {
			if p := outLayout.Position(lowestPosition(inLayout)); p >= 0 && p < 2 {
				v[p] = s
				return
			}
		}
		v[0], v[1] = s, s
		return
	}

	if p := outLayout.Position(ChFrontCenter); p >= 0 && p < nbOut {
		v[p] = s
		return
	}
	v[0], v[1] = s, s
}

func redistribute(v *Frame, nbIn int, inLayout ChannelLayout, nbOut int, outLayout ChannelLayout) {
	in := *v
	clear(v[:])

	left, right := 0, 1
	if nbOut == 1 {
		right = 0
	}

	layout := inLayout & layoutAllBits
	for i := 0; i < nbIn && layout != 0; i++ {
		pos := lowestPosition(layout)
		layout &^= pos
		s := in[i]

		if p := outLayout.Position(pos); p >= 0 && p < nbOut {
			v[p] = utils.SaturatingAdd32(v[p], s)
			continue
		}

		switch pos {
		case ChBackLeft, ChSideLeft, ChLeftCenter:
			v[left] = utils.SaturatingAdd32(v[left], s)
		case ChBackRight, ChSideRight, ChRightCenter:
			v[right] = utils.SaturatingAdd32(v[right], s)
		case ChFrontLeft:
			v[left] = utils.SaturatingAdd32(v[left], s)
		case ChFrontRight:
			v[right] = utils.SaturatingAdd32(v[right], s)
		default:
			if left == right {
				v[left] = utils.SaturatingAdd32(v[left], s)
				continue
			}
			half := s / 2
			v[left] = utils.SaturatingAdd32(v[left], half)
			v[right] = utils.SaturatingAdd32(v[right], half)
		}
	}
}

func lowestPosition(l ChannelLayout) ChannelLayout {
	if l == 0 {
		return 0
	}

	return ChannelLayout(1) << bits.TrailingZeros64(uint64(l))
}
