// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
// # Supported Formats
//
//   - Uncompressed PCM at 8, 16, 24 and 32 bits
//   - Any channel count and sample rate
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("audio.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer source.Close()
//
//	buf := make([]byte, source.BufSize())
//	n, err := source.Read(buf)
//
// # Output Format
//
// Samples are delivered big-endian, the way AIFF stores them, so Format reports
// the swapped integer format on little-endian hosts (s16be and friends). 8-bit
// AIFF is signed and comes out as s8. The mixer converts on the fly.
//
// # Error Handling
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: sample width other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: no usable COMM chunk
//
// # Limitations
//
// AIFF writing and AIFF-C compression are not supported. Inputs that are not
// seekable are read into memory first since the decoder needs to seek.
package aiff
