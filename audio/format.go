// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// SampleFormat identifies how a sample is laid out in a raw byte buffer: its width,
// whether it is an integer or a float, whether channels are interleaved or planar,
// and whether its byte order matches the running host.
type SampleFormat uint8

const (
	// FormatUnknown decodes to silence.
	FormatUnknown SampleFormat = iota

	FormatU8  // unsigned 8-bit, interleaved
	FormatS8  // signed 8-bit, interleaved
	FormatS16 // signed 16-bit, interleaved, host order
	FormatS24 // signed 24-bit packed, interleaved, host order
	FormatS32 // signed 32-bit, interleaved, host order
	FormatFLT // 32-bit float, interleaved, host order
	FormatDBL // 64-bit float, interleaved, host order

	FormatU8P
	FormatS8P
	FormatS16P
	FormatS24P
	FormatS32P
	FormatFLTP
	FormatDBLP

	FormatS16Swap
	FormatS24Swap
	FormatS32Swap
	FormatFLTSwap
	FormatDBLSwap

	numFormats
)

type formatInfo struct {
	name    string
	bits    int
	planar  bool
	swapped bool
	float   bool
	// rank orders formats by fidelity; byte order and arrangement do not matter.
	rank int
	// base is the native interleaved variant.
	base SampleFormat
	// planarOf / swappedOf are the arrangement and byte-order siblings.
	planarOf  SampleFormat
	swappedOf SampleFormat
}

var formats = [numFormats]formatInfo{
	FormatUnknown: {name: "unknown"},

	FormatU8:  {name: "u8", bits: 8, rank: 1, base: FormatU8, planarOf: FormatU8P, swappedOf: FormatU8},
	FormatS8:  {name: "s8", bits: 8, rank: 2, base: FormatS8, planarOf: FormatS8P, swappedOf: FormatS8},
	FormatS16: {name: "s16", bits: 16, rank: 3, base: FormatS16, planarOf: FormatS16P, swappedOf: FormatS16Swap},
	FormatS24: {name: "s24", bits: 24, rank: 4, base: FormatS24, planarOf: FormatS24P, swappedOf: FormatS24Swap},
	FormatS32: {name: "s32", bits: 32, rank: 5, base: FormatS32, planarOf: FormatS32P, swappedOf: FormatS32Swap},
	FormatFLT: {name: "flt", bits: 32, float: true, rank: 6, base: FormatFLT, planarOf: FormatFLTP, swappedOf: FormatFLTSwap},
	FormatDBL: {name: "dbl", bits: 64, float: true, rank: 7, base: FormatDBL, planarOf: FormatDBLP, swappedOf: FormatDBLSwap},

	FormatU8P:  {name: "u8p", bits: 8, planar: true, rank: 1, base: FormatU8, planarOf: FormatU8P},
	FormatS8P:  {name: "s8p", bits: 8, planar: true, rank: 2, base: FormatS8, planarOf: FormatS8P},
	FormatS16P: {name: "s16p", bits: 16, planar: true, rank: 3, base: FormatS16, planarOf: FormatS16P},
	FormatS24P: {name: "s24p", bits: 24, planar: true, rank: 4, base: FormatS24, planarOf: FormatS24P},
	FormatS32P: {name: "s32p", bits: 32, planar: true, rank: 5, base: FormatS32, planarOf: FormatS32P},
	FormatFLTP: {name: "fltp", bits: 32, planar: true, float: true, rank: 6, base: FormatFLT, planarOf: FormatFLTP},
	FormatDBLP: {name: "dblp", bits: 64, planar: true, float: true, rank: 7, base: FormatDBL, planarOf: FormatDBLP},

	FormatS16Swap: {name: "s16swap", bits: 16, swapped: true, rank: 3, base: FormatS16, swappedOf: FormatS16},
	FormatS24Swap: {name: "s24swap", bits: 24, swapped: true, rank: 4, base: FormatS24, swappedOf: FormatS24},
	FormatS32Swap: {name: "s32swap", bits: 32, swapped: true, rank: 5, base: FormatS32, swappedOf: FormatS32},
	FormatFLTSwap: {name: "fltswap", bits: 32, swapped: true, float: true, rank: 6, base: FormatFLT, swappedOf: FormatFLT},
	FormatDBLSwap: {name: "dblswap", bits: 64, swapped: true, float: true, rank: 7, base: FormatDBL, swappedOf: FormatDBL},
}

func (f SampleFormat) info() formatInfo {
	if f >= numFormats {
		return formats[FormatUnknown]
	}

	return formats[f]
}

// Valid reports whether f is a known format.
func (f SampleFormat) Valid() bool { return f != FormatUnknown && f < numFormats }

// BitDepth returns the width of one sample in bits, 0 for an unknown format.
func (f SampleFormat) BitDepth() int { return f.info().bits }

// BytesPerSample returns the width of one sample in bytes.
func (f SampleFormat) BytesPerSample() int { return f.info().bits / 8 }

// IsPlanar reports whether channels are stored as contiguous planes.
func (f SampleFormat) IsPlanar() bool { return f.info().planar }

// IsSwapped reports whether the byte order differs from the running host.
func (f SampleFormat) IsSwapped() bool { return f.info().swapped }

// IsFloat reports whether samples are IEEE floats.
func (f SampleFormat) IsFloat() bool { return f.info().float }

// Rank orders formats by fidelity (higher is better). Arrangement and byte order do
// not affect the rank.
func (f SampleFormat) Rank() int { return f.info().rank }

// Interleaved returns the native interleaved variant of f.
func (f SampleFormat) Interleaved() SampleFormat { return f.info().base }

// Planar returns the planar variant of f, or f's base when no planar variant exists.
func (f SampleFormat) Planar() SampleFormat {
	if p := f.info().planarOf; p != FormatUnknown {
		return p
	}

	return f.info().base.info().planarOf
}

// Swapped returns the variant of f with the opposite byte order. Formats without a
// byte order (8-bit, planar) are returned unchanged.
func (f SampleFormat) Swapped() SampleFormat {
	if s := f.info().swappedOf; s != FormatUnknown {
		return s
	}

	return f
}

func (f SampleFormat) String() string {
	if f >= numFormats {
		return fmt.Sprintf("SampleFormat(%d)", uint8(f))
	}

	return formats[f].name
}

// ParseSampleFormat maps a format name as returned by String (case insensitive) back
// to its SampleFormat.
func ParseSampleFormat(s string) (SampleFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f := FormatU8; f < numFormats; f++ {
		if formats[f].name == s {
			return f, nil
		}
	}

	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Formats lists every known sample format.
func Formats() []SampleFormat {
	out := make([]SampleFormat, 0, numFormats-1)
	for f := FormatU8; f < numFormats; f++ {
		out = append(out, f)
	}

	return out
}

var hostIsLittleEndian = func() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)

	return b[0] == 1
}()

// LittleEndianFormat returns the interleaved integer format able to carry
// little-endian PCM of the given bit depth on this host: the native variant on
// little-endian hosts, the swapped one otherwise. 8-bit maps to FormatU8 like WAV.
func LittleEndianFormat(bits int) SampleFormat {
	return endianFormat(bits, hostIsLittleEndian)
}

// BigEndianFormat is LittleEndianFormat for big-endian PCM (AIFF). 8-bit maps to
// FormatS8.
func BigEndianFormat(bits int) SampleFormat {
	if bits == 8 {
		return FormatS8
	}

	return endianFormat(bits, !hostIsLittleEndian)
}

// LittleEndianFloatFormat returns the float format for little-endian IEEE data of
// the given width (32 or 64).
func LittleEndianFloatFormat(bits int) SampleFormat {
	var f SampleFormat
	switch bits {
	case 32:
		f = FormatFLT
	case 64:
		f = FormatDBL
	default:
		return FormatUnknown
	}
	if !hostIsLittleEndian {
		f = f.Swapped()
	}

	return f
}

func endianFormat(bits int, native bool) SampleFormat {
	var f SampleFormat
	switch bits {
	case 8:
		return FormatU8
	case 16:
		f = FormatS16
	case 24:
		f = FormatS24
	case 32:
		f = FormatS32
	default:
		return FormatUnknown
	}
	if !native {
		f = f.Swapped()
	}

	return f
}
