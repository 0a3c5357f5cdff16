// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audmix/audio"
)

// defaultBufFrames is the preferred read size in frames.
const defaultBufFrames = 1024

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// source delivers the decoded floats as native-endian 32-bit float PCM.
type source struct {
	dec        oggReader
	c          io.Closer
	sampleRate int
	channels   int
	values     []float32
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int { return s.channels }
func (s *source) Format() audio.SampleFormat { return audio.FormatFLT }
func (s *source) Layout() audio.ChannelLayout { return layoutFor(s.channels) }
func (s *source) BufSize() int { return defaultBufFrames * s.channels * 4 }

func (s *source) Close() error {
	if s.c == nil {
		return nil
	}

	return s.c.Close()
}

func (s *source) Read(p []byte) (int, error) {
	// Read returns values, not frames, and always a multiple of the channel count
	want := len(p) / 4 / s.channels * s.channels
	if want == 0 {
		return 0, io.ErrShortBuffer
	}
	if cap(s.values) < want {
		s.values = make([]float32, want)
	}
	s.values = s.values[:want]

	n, err := s.dec.Read(s.values)
	for i, v := range s.values[:n] {
		binary.NativeEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}

	if err != nil && err != io.EOF {
		return 4 * n, fmt.Errorf("vorbis read: %w", err)
	}

	return 4 * n, err
}

// layoutFor only names stereo. Vorbis orders surround channels differently
// from the canonical bit order, so other counts are left to the mixer default.
func layoutFor(channels int) audio.ChannelLayout {
	if channels == 2 {
		return audio.LayoutStereo
	}

	return 0
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	src := &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}
	if c, ok := r.(io.Closer); ok {
		src.c = c
	}

	return src, nil
}
