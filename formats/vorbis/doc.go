// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder produces float samples, which the source hands out as
// native-endian 32-bit float PCM (audio.FormatFLT). Reads always hold whole
// frames; a buffer too small for one frame fails with io.ErrShortBuffer.
//
// Only stereo streams report a channel layout. Vorbis orders surround channels
// differently from the bitmask order, so other counts report none and the mixer
// falls back to its default layout for the channel count.
//
//	file, _ := os.Open("audio.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer source.Close()
package vorbis
