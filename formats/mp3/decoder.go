// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmix/audio"
)

// defaultBufSize is the preferred read size in bytes, 1152 stereo frames (one
// MPEG-1 layer 3 frame).
const defaultBufSize = 1152 * 4

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// source passes the decoder output through. go-mp3 always produces 16-bit
// little-endian stereo.
type source struct {
	dec        mp3Reader
	c          io.Closer
	sampleRate int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int { return 2 }
func (s *source) Format() audio.SampleFormat { return audio.LittleEndianFormat(16) }
func (s *source) Layout() audio.ChannelLayout { return audio.LayoutStereo }
func (s *source) BufSize() int { return defaultBufSize }

func (s *source) Read(p []byte) (int, error) {
	n, err := s.dec.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("mp3 read: %w", err)
	}

	return n, err
}

func (s *source) Close() error {
	if s.c == nil {
		return nil
	}

	return s.c.Close()
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	src := &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
	}
	if c, ok := r.(io.Closer); ok {
		src.c = c
	}

	return src, nil
}
