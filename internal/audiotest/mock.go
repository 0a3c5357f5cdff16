// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audmix/audio"
)

// MockSource is a test helper that generates audio data for testing.
// It implements audio.Source and encodes a waveform in any interleaved format.
type MockSource struct {
	sampleRate  int
	channels    int
	format      audio.SampleFormat
	layout      audio.ChannelLayout
	totalFrames int // Total frames to generate
	generated   int // Frames generated so far
	waveform    func(frame int, channel int) float64
	closed      bool
}

// NewMockSource creates a new mock audio source.
// waveform returns values in [-1, 1] given frame index and channel.
func NewMockSource(sampleRate, channels, totalFrames int, format audio.SampleFormat, waveform func(frame int, channel int) float64) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		format:      format,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a 16-bit mock source that generates silence.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, audio.FormatS16, func(int, int) float64 {
		return 0
	})
}

// NewSineSource creates a 16-bit mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, audio.FormatS16, func(frame int, _ int) float64 {
		t := float64(frame) / float64(sampleRate)
		return math.Sin(2 * math.Pi * frequency * t)
	})
}

// NewConstantSource creates a 16-bit mock source with a constant value.
func NewConstantSource(sampleRate, channels, totalFrames int, value float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, audio.FormatS16, func(int, int) float64 {
		return value
	})
}

// SetLayout sets the layout reported by Layout.
func (m *MockSource) SetLayout(l audio.ChannelLayout) { m.layout = l }

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int { return m.channels }
func (m *MockSource) Format() audio.SampleFormat { return m.format }
func (m *MockSource) Layout() audio.ChannelLayout { return m.layout }
func (m *MockSource) BufSize() int { return 4096 }
func (m *MockSource) Close() error { m.closed = true; return nil }
func (m *MockSource) Closed() bool { return m.closed }
func (m *MockSource) Remaining() int { return m.totalFrames - m.generated }

// Reset resets the generated frame counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) Read(p []byte) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	ba := m.channels * m.format.BytesPerSample()
	if ba == 0 {
		return 0, audio.ErrUnknownFormat
	}
	framesToWrite := min(len(p)/ba, m.totalFrames-m.generated)

	for frame := range framesToWrite {
		for ch := range m.channels {
			v := FullScale(m.waveform(m.generated+frame, ch))
			audio.Encode(p, m.format, m.channels, frame, ch, 0, v)
		}
	}

	m.generated += framesToWrite
	n := framesToWrite * ba

	if m.generated >= m.totalFrames {
		return n, io.EOF
	}

	return n, nil
}

// FullScale converts a value in [-1, 1] to the 32-bit full-scale domain.
func FullScale(v float64) int32 {
	v = max(-1, min(1, v))
	return int32(v * math.MaxInt32)
}

// PCM encodes frames generated by gen, in full-scale values, as format f. Planar
// formats are laid out plane after plane.
func PCM(f audio.SampleFormat, channels, frames int, gen func(frame, channel int) int32) []byte {
	bps := f.BytesPerSample()
	buf := make([]byte, frames*channels*bps)
	stride := 0
	if f.IsPlanar() {
		stride = frames * bps
	}
	for i := range frames {
		for c := range channels {
			audio.Encode(buf, f, channels, i, c, stride, gen(i, c))
		}
	}

	return buf
}

// Tone returns frames of a sine wave at freq Hz and amplitude amp (0..1), identical
// on every channel.
func Tone(f audio.SampleFormat, rate, channels, frames int, freq, amp float64) []byte {
	return PCM(f, channels, frames, func(i, _ int) int32 {
		return FullScale(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	})
}

// Constant returns frames whose every sample is the full-scale value v.
func Constant(f audio.SampleFormat, channels, frames int, v int32) []byte {
	return PCM(f, channels, frames, func(int, int) int32 { return v })
}
