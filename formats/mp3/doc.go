// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
//
// # Decoding MP3 Files
//
//	file, _ := os.Open("audio.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
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
// go-mp3 always produces 16-bit little-endian stereo, mono files included. The
// source reports that format with a front left/right layout and passes the
// decoder bytes through.
//
// # Limitations
//
// MP3 writing is not supported. Read may return a partial frame when the decoder
// does; the track package carries such bytes over to the next read.
package mp3
