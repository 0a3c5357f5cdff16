// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxChannels is the largest channel count a frame may carry.
const MaxChannels = 24

// ChannelLayout is a bitmask of speaker positions. Channels of a frame are stored in
// increasing bit order of the positions present in the layout.
type ChannelLayout uint64

const (
	ChFrontLeft ChannelLayout = 1 << iota
	ChFrontRight
	ChFrontCenter
	ChLFE
	ChBackLeft
	ChBackRight
	ChLeftCenter
	ChRightCenter
	ChBackCenter
	ChSideLeft
	ChSideRight
	ChTopCenter
	ChTopFrontLeft
	ChTopFrontCenter
	ChTopFrontRight
	ChTopBackLeft
	ChTopBackCenter
	ChTopBackRight
)

// numPositions is the number of defined speaker positions.
const numPositions = 18

const (
	LayoutMono    = ChFrontLeft
	LayoutStereo  = ChFrontLeft | ChFrontRight
	Layout3_0     = LayoutStereo | ChFrontCenter
	LayoutQuad    = LayoutStereo | ChBackLeft | ChBackRight
	Layout5_0     = Layout3_0 | ChBackLeft | ChBackRight
	Layout5_1     = Layout5_0 | ChLFE
	Layout6_1     = Layout5_1 | ChBackCenter
	Layout7_1     = Layout5_1 | ChSideLeft | ChSideRight
	layoutAllBits = ChannelLayout(1)<<numPositions - 1
)

var positionNames = [numPositions]string{
	"FL", "FR", "FC", "LFE", "BL", "BR", "FLC", "FRC", "BC",
	"SL", "SR", "TC", "TFL", "TFC", "TFR", "TBL", "TBC", "TBR",
}

// Count returns the number of speaker positions in the layout.
func (l ChannelLayout) Count() int { return bits.OnesCount64(uint64(l & layoutAllBits)) }

// Has reports whether every position of p is present in l.
func (l ChannelLayout) Has(p ChannelLayout) bool { return p != 0 && l&p == p }

// Position returns the channel index of the single position p within l, or -1 when
// p is not part of l.
func (l ChannelLayout) Position(p ChannelLayout) int {
	if p == 0 || l&p == 0 {
		return -1
	}

	return bits.OnesCount64(uint64(l & (p - 1)))
}

func (l ChannelLayout) String() string {
	if l == 0 {
		return "unknown"
	}

	names := make([]string, 0, l.Count())
	for i := range numPositions {
		if l&(1<<i) != 0 {
			names = append(names, positionNames[i])
		}
	}

	return strings.Join(names, "+")
}

// DefaultLayout returns the conventional layout for a channel count: mono is
// front-left, 6 is 5.1, 8 is 7.1, counts with no convention take the first
// positions in bit order. Counts above the number of known positions return 0.
func DefaultLayout(channels int) ChannelLayout {
	switch channels {
	case 1:
		return LayoutMono
	case 2:
		return LayoutStereo
	case 3:
		return Layout3_0
	case 4:
		return LayoutQuad
	case 5:
		return Layout5_0
	case 6:
		return Layout5_1
	case 7:
		return Layout6_1
	case 8:
		return Layout7_1
	}
	if channels <= 0 || channels > numPositions {
		return 0
	}

	return ChannelLayout(1)<<channels - 1
}

// ChannelsForLayout returns the channel count implied by a layout.
func ChannelsForLayout(l ChannelLayout) int { return l.Count() }

var namedLayouts = map[string]ChannelLayout{
	"mono":   LayoutMono,
	"stereo": LayoutStereo,
	"3.0":    Layout3_0,
	"quad":   LayoutQuad,
	"5.0":    Layout5_0,
	"5.1":    Layout5_1,
	"6.1":    Layout6_1,
	"7.1":    Layout7_1,
}

// ParseChannelLayout reads a layout written by String ("FL+FR+LFE") or one of the
// common names mono, stereo, 3.0, quad, 5.0, 5.1, 6.1 and 7.1. Case is ignored.
func ParseChannelLayout(s string) (ChannelLayout, error) {
	s = strings.TrimSpace(s)
	if l, ok := namedLayouts[strings.ToLower(s)]; ok {
		return l, nil
	}

	var l ChannelLayout
next:
	for _, name := range strings.Split(s, "+") {
		name = strings.ToUpper(strings.TrimSpace(name))
		for i, pos := range positionNames {
			if pos == name {
				l |= 1 << i
				continue next
			}
		}

		return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}

	return l, nil
}
