// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmix/audio"
)

// WAVE_FORMAT tags from the fmt chunk.
const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

// defaultBufFrames is the preferred read size in frames.
const defaultBufFrames = 1024

type wavSource struct {
	r          io.Reader
	c          io.Closer
	sampleRate int
	channels   int
	format     audio.SampleFormat
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int { return s.channels }
func (s *wavSource) Format() audio.SampleFormat { return s.format }
func (s *wavSource) Layout() audio.ChannelLayout { return 0 }
func (s *wavSource) BufSize() int { return defaultBufFrames * s.channels * s.format.BytesPerSample() }

func (s *wavSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("wav read: %w", err)
	}

	return n, err
}

func (s *wavSource) Close() error {
	if s.c == nil {
		return nil
	}

	return s.c.Close()
}

// Decoder reads RIFF/WAVE files holding integer PCM (8 to 32 bits) or IEEE
// float (32 or 64 bits). Samples are passed through in their stored format.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("wav: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	d := gowav.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrNotWavFile
	}

	format, err := sampleFormat(int(d.WavAudioFormat), int(d.BitDepth))
	if err != nil {
		return nil, err
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}
	if d.PCMChunk == nil {
		return nil, ErrNoPCMData
	}

	src := &wavSource{
		r:          io.LimitReader(d.PCMChunk.R, int64(d.PCMSize)),
		sampleRate: int(d.SampleRate),
		channels:   int(d.NumChans),
		format:     format,
	}
	if c, ok := r.(io.Closer); ok {
		src.c = c
	}

	return src, nil
}

// sampleFormat maps a fmt chunk encoding tag and bit depth to a sample format.
func sampleFormat(tag, bits int) (audio.SampleFormat, error) {
	var f audio.SampleFormat
	switch tag {
	case formatPCM, formatExtensible:
		f = audio.LittleEndianFormat(bits)
	case formatFloat:
		f = audio.LittleEndianFloatFormat(bits)
	default:
		return audio.FormatUnknown, fmt.Errorf("%w: tag %#x", ErrUnsupportedEncoding, tag)
	}

	if f == audio.FormatUnknown {
		return audio.FormatUnknown, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	return f, nil
}
