// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmix/audio"
)

// Writer encodes interleaved PCM bytes into a WAV file. Integer formats keep
// their width; float formats are stored as 32-bit integer PCM since the encoder
// has no IEEE float support.
type Writer struct {
	enc      *gowav.Encoder
	format   audio.SampleFormat
	channels int
	bits     int
	ba       int

	pending []byte
	buf     goaudio.IntBuffer
	frames  int64
	closed  bool
}

// NewWriter starts a WAV file on w for PCM in format f. Planar formats are not
// accepted.
func NewWriter(w io.WriteSeeker, rate, channels int, f audio.SampleFormat) (*Writer, error) {
	if !f.Valid() || f.IsPlanar() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("wav writer: %w: %d", audio.ErrInvalidChannels, channels)
	}

	bits := f.BitDepth()
	if f.IsFloat() {
		bits = 32
	}

	return &Writer{
		enc:      gowav.NewEncoder(w, rate, bits, channels, formatPCM),
		format:   f,
		channels: channels,
		bits:     bits,
		ba:       channels * f.BytesPerSample(),
		buf: goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: bits,
		},
	}, nil
}

// Write encodes the complete frames of p. A trailing partial frame is held until
// the next call.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}

	data := p
	if len(w.pending) > 0 {
		data = append(w.pending, p...)
	}
	frames := len(data) / w.ba
	if frames == 0 {
		w.pending = append(w.pending[:0], data...)
		return len(p), nil
	}

	w.buf.Data = w.buf.Data[:0]
	for i := range frames {
		for c := range w.channels {
			v := audio.ToBitDepth(audio.Decode(data, w.format, w.channels, i, c, 0), w.bits)
			if w.bits == 8 {
				v += 128
			}
			w.buf.Data = append(w.buf.Data, v)
		}
	}
	if err := w.enc.Write(&w.buf); err != nil {
		return 0, fmt.Errorf("wav write: %w", err)
	}
	w.frames += int64(frames)
	w.pending = append(w.pending[:0], data[frames*w.ba:]...)

	return len(p), nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int64 { return w.frames }

// Close writes the final chunk sizes. A trailing partial frame is dropped. It
// does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.frames == 0 {
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(&w.buf); err != nil {
			return fmt.Errorf("wav write: %w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}

	return nil
}
