// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audmix/utils"
)

// Scale factors from each integer width to the 32-bit full-scale domain. Each is
// 2^(32-bits) - 1 so that decode followed by encode in the same format is exact.
const (
	scale8  = 1<<24 - 1
	scale16 = 1<<16 - 1
	scale24 = 1<<8 - 1

	fullScale = float64(math.MaxInt32)
)

var (
	nativeOrder  binary.ByteOrder = binary.NativeEndian
	swappedOrder binary.ByteOrder
)

func init() {
	if hostIsLittleEndian {
		swappedOrder = binary.BigEndian
	} else {
		swappedOrder = binary.LittleEndian
	}
}

func byteOrder(swapped bool) binary.ByteOrder {
	if swapped {
		return swappedOrder
	}

	return nativeOrder
}

// sampleOffset returns the byte offset of (sample, channel) or -1 when it lies outside
// buf.
func sampleOffset(buf []byte, info formatInfo, channels, sample, channel, planarStride int) int {
	bps := info.bits / 8
	if bps == 0 || channels <= 0 || sample < 0 || channel < 0 || channel >= channels {
		return -1
	}

	var off int
	if info.planar {
		if planarStride <= 0 {
			planarStride = len(buf) / channels
		}
		off = channel*planarStride + sample*bps
	} else {
		off = (sample*channels + channel) * bps
	}
	if off+bps > len(buf) {
		return -1
	}

	return off
}

// Decode reads one sample of format f from buf and returns it in the 32-bit
// full-scale domain. sample is the frame index and channel the channel within that
// frame. For planar formats planarStride is the size in bytes of one channel plane;
// 0 means len(buf)/channels.
//
// Unknown formats and out-of-range positions decode to 0.
func Decode(buf []byte, f SampleFormat, channels, sample, channel, planarStride int) int32 {
	info := f.info()
	off := sampleOffset(buf, info, channels, sample, channel, planarStride)
	if off < 0 {
		return 0
	}
	b := buf[off:]
	order := byteOrder(info.swapped)

	switch info.base {
	case FormatU8:
		return (int32(b[0]) - 128) * scale8
	case FormatS8:
		return int32(int8(b[0])) * scale8
	case FormatS16:
		return int32(int16(order.Uint16(b))) * scale16
	case FormatS24:
		return read24(b, info.swapped == hostIsLittleEndian) * scale24
	case FormatS32:
		return int32(order.Uint32(b))
	case FormatFLT:
		return floatToFullScale(float64(math.Float32frombits(order.Uint32(b))))
	case FormatDBL:
		return floatToFullScale(math.Float64frombits(order.Uint64(b)))
	}

	return 0
}

// Encode writes v, a full-scale sample, into buf as format f at (sample, channel).
// Values are scaled down and clamped to the target's range before narrowing.
// Unknown formats and out-of-range positions are ignored.
func Encode(buf []byte, f SampleFormat, channels, sample, channel, planarStride int, v int32) {
	info := f.info()
	off := sampleOffset(buf, info, channels, sample, channel, planarStride)
	if off < 0 {
		return
	}
	b := buf[off:]
	order := byteOrder(info.swapped)

	switch info.base {
	case FormatU8:
		b[0] = uint8(utils.ClampRange(int64(v/scale8), math.MinInt8, math.MaxInt8) + 128)
	case FormatS8:
		b[0] = uint8(int8(utils.ClampRange(int64(v/scale8), math.MinInt8, math.MaxInt8)))
	case FormatS16:
		s := utils.ClampRange(int64(v/scale16), math.MinInt16, math.MaxInt16)
		order.PutUint16(b, uint16(int16(s)))
	case FormatS24:
		write24(b, info.swapped == hostIsLittleEndian, int32(utils.ClampRange(int64(v/scale24), minInt24, maxInt24)))
	case FormatS32:
		order.PutUint32(b, uint32(v))
	case FormatFLT:
		order.PutUint32(b, math.Float32bits(float32(float64(v)/fullScale)))
	case FormatDBL:
		order.PutUint64(b, math.Float64bits(float64(v)/fullScale))
	}
}

const (
	maxInt24 = 1<<23 - 1
	minInt24 = -1 << 23
)

func read24(b []byte, bigEndian bool) int32 {
	var u uint32
	if bigEndian {
		u = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	} else {
		u = uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	}

	// sign-extend from bit 23
	return int32(u<<8) >> 8
}

func write24(b []byte, bigEndian bool, v int32) {
	u := uint32(v)
	if bigEndian {
		b[0], b[1], b[2] = byte(u>>16), byte(u>>8), byte(u)
	} else {
		b[0], b[1], b[2] = byte(u), byte(u>>8), byte(u>>16)
	}
}

func floatToFullScale(x float64) int32 {
	return int32(utils.ClampUnit(x) * fullScale)
}

// DecodeFrame decodes every channel of one frame into dst and returns the number of
// channels written.
func DecodeFrame(dst *Frame, buf []byte, f SampleFormat, channels, sample, planarStride int) int {
	channels = min(channels, MaxChannels)
	for c := range channels {
		dst[c] = Decode(buf, f, channels, sample, c, planarStride)
	}

	return channels
}

// EncodeFrame writes the first channels entries of src as one frame of format f.
func EncodeFrame(buf []byte, f SampleFormat, channels, sample, planarStride int, src *Frame) {
	channels = min(channels, MaxChannels)
	for c := range channels {
		Encode(buf, f, channels, sample, c, planarStride, src[c])
	}
}

// FromBitDepth converts a signed integer sample of the given width (8, 16, 24 or
// 32) to the 32-bit full-scale domain. Values outside the width are clamped;
// unknown widths give 0.
func FromBitDepth(v int, bits int) int32 {
	switch bits {
	case 8:
		return int32(utils.ClampRange(int64(v), math.MinInt8, math.MaxInt8)) * scale8
	case 16:
		return int32(utils.ClampRange(int64(v), math.MinInt16, math.MaxInt16)) * scale16
	case 24:
		return int32(utils.ClampRange(int64(v), minInt24, maxInt24)) * scale24
	case 32:
		return utils.ClampInt32(int64(v))
	}

	return 0
}

// ToBitDepth is the inverse of FromBitDepth, rounding toward zero like Encode.
func ToBitDepth(v int32, bits int) int {
	switch bits {
	case 8:
		return int(utils.ClampRange(int64(v/scale8), math.MinInt8, math.MaxInt8))
	case 16:
		return int(utils.ClampRange(int64(v/scale16), math.MinInt16, math.MaxInt16))
	case 24:
		return int(utils.ClampRange(int64(v/scale24), minInt24, maxInt24))
	case 32:
		return int(v)
	}

	return 0
}
