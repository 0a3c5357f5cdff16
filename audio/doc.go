// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the building blocks shared by decoders and the mixer:
//   - SampleFormat, the closed set of raw PCM layouts
//   - the sample codec (Decode/Encode) to and from a common 32-bit domain
//   - ChannelLayout and the channel mapper (MapChannels)
//   - the Source interface and the decoder Registry
//
// # Sample Formats
//
// A SampleFormat names the width of a sample, integer or float, interleaved or
// planar, and native or swapped byte order:
//
//	FormatU8 FormatS8 FormatS16 FormatS24 FormatS32 FormatFLT FormatDBL
//	FormatU8P ... FormatDBLP            // planar
//	FormatS16Swap ... FormatDBLSwap     // opposite byte order
//
// LittleEndianFormat and BigEndianFormat pick the variant matching a file's byte
// order on the running host.
//
// # Full-Scale Samples
//
// Decode maps every format onto signed 32-bit integers covering the whole int32
// range: a 16-bit sample is multiplied by 65535, a 24-bit one by 255, floats are
// clamped to [-1, 1] and scaled by math.MaxInt32. Encode divides by the same factor
// and clamps, so decoding then encoding in one format is lossless for integers.
//
// Unknown formats decode to silence and are ignored by Encode.
//
// # Channel Layouts
//
// A ChannelLayout is a bitmask of speaker positions. The channels of a frame follow
// the order of the bits set in its layout. MapChannels converts one Frame between
// layouts: mono is duplicated or sent to the center, stereo to mono is averaged and
// positions missing from a smaller layout are folded into front left/right.
//
// # Source Interface
//
// The Source interface is implemented by every decoder:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    Format() SampleFormat
//	    Layout() ChannelLayout
//	    Read(p []byte) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Read returns whole interleaved frames in Format.
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForFile("music.wav")
//
// # Error Handling
//
// Read returns io.EOF when no more data is available:
//
//	for {
//	    n, err := source.Read(buf)
//	    // process buf[:n]
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	}
package audio
