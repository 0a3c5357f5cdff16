// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// mockSource is a test helper returning a fixed S16 buffer.
type mockSource struct {
	sampleRate int
	channels   int
	data       []byte
}

// newSilentSource creates a mock source holding frames of silence.
func newSilentSource(sampleRate, channels, frames int) *mockSource {
	return &mockSource{
		sampleRate: sampleRate,
		channels:   channels,
		data:       make([]byte, frames*channels*2),
	}
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int { return m.channels }
func (m *mockSource) Format() SampleFormat { return FormatS16 }
func (m *mockSource) Layout() ChannelLayout { return DefaultLayout(m.channels) }
func (m *mockSource) BufSize() int { return 4096 }
func (m *mockSource) Close() error { return nil }

func (m *mockSource) Read(p []byte) (int, error) {
	if len(m.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.data)
	m.data = m.data[n:]

	return n, nil
}
