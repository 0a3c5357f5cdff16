// SPDX-License-Identifier: EPL-2.0

// Package track adapts decoded audio streams to the mixer.
//
// A Track reads blocks of raw PCM from an audio.Source and hands them to the
// mixer through the fetch/release contract of mixer.Producer. Bytes are only
// dropped once the mixer releases them, so a block can be consumed across several
// mix cycles. A partial frame at the end of a read is kept for the next one.
//
// Basic usage:
//
//	f, _ := os.Open("voice.wav")
//	src, _ := wav.Decoder{}.Decode(f)
//
//	t := track.New(src, track.WithVolume(0.8))
//	defer t.Close()
//
//	m := mixer.New()
//	m.Attach(t)
//
// Read errors end the track; Err reports them. A Read returning no data and no
// error marks the track as buffering until the next successful read.
package track
