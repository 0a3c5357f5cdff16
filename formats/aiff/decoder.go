// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/audio"
)

// defaultBufFrames is the preferred read size in frames.
const defaultBufFrames = 1024

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source. Samples come out
// big-endian like they are stored in the file.
type source struct {
	dec        aiffReader
	c          io.Closer
	sampleRate int
	channels   int
	bitDepth   int
	format     audio.SampleFormat
	intBuf     *goaudio.IntBuffer
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int { return s.channels }
func (s *source) Format() audio.SampleFormat { return s.format }
func (s *source) Layout() audio.ChannelLayout { return 0 }
func (s *source) BufSize() int { return defaultBufFrames * s.channels * s.format.BytesPerSample() }

func (s *source) Close() error {
	if s.c == nil {
		return nil
	}

	return s.c.Close()
}

func (s *source) Read(p []byte) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	bps := s.format.BytesPerSample()
	samples := len(p) / (bps * s.channels) * s.channels
	if samples == 0 {
		return 0, io.ErrShortBuffer
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < samples {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, samples),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:samples]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i, v := range s.intBuf.Data[:n] {
		audio.Encode(p, s.format, s.channels, i/s.channels, i%s.channels, 0, audio.FromBitDepth(v, s.bitDepth))
	}

	switch {
	case errors.Is(err, io.EOF):
		s.eof = true
	case err != nil:
		return n * bps, fmt.Errorf("aiff read: %w", err)
	case n < samples:
		// short read means the sound data chunk is exhausted
		s.eof = true
	}
	if s.eof && n == 0 {
		return 0, io.EOF
	}

	return n * bps, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	bits := int(dec.BitDepth)
	f := audio.BigEndianFormat(bits)
	if f == audio.FormatUnknown {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src := &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bits,
		format:     f,
	}
	if c, ok := r.(io.Closer); ok {
		src.c = c
	}

	return src, nil
}
