// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate   int
	samples      []int16 // interleaved stereo PCM
	offset       int
	returnErrors bool
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range n {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(m.samples[m.offset+i]))
	}
	m.offset += n

	return 2 * n, nil
}

func newMockSource(rate int, samples []int16) *source {
	return &source{
		dec:        &mockMP3Reader{sampleRate: rate, samples: samples},
		sampleRate: rate,
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not MP3 data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte{}))
	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newMockSource(44100, nil)

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.Format() != audio.LittleEndianFormat(16) {
		t.Errorf("Format() = %s, want %s", src.Format(), audio.LittleEndianFormat(16))
	}
	if src.Layout() != audio.LayoutStereo {
		t.Errorf("Layout() = %s, want stereo", src.Layout())
	}
	if src.BufSize()%audio.BlockAlign(src) != 0 {
		t.Errorf("BufSize() = %d is not a whole number of frames", src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_Read(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768, 1}
	src := newMockSource(22050, samples)

	buf := make([]byte, 64)
	n, err := src.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 12 {
		t.Fatalf("Read() = %d bytes, want 12", n)
	}

	for i, s := range samples {
		got := audio.Decode(buf[:n], src.Format(), 2, i/2, i%2, 0)
		if want := audio.FromBitDepth(int(s), 16); got != want {
			t.Errorf("sample %d = %d, want %d", i, got, want)
		}
	}

	if n, err := src.Read(buf); n != 0 || err != io.EOF {
		t.Errorf("Read() at end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_SmallReads(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16(i)
	}
	src := newMockSource(44100, samples)

	var got []byte
	buf := make([]byte, 6)
	for {
		n, err := src.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if len(got) != 2000 {
		t.Fatalf("read %d bytes, want 2000", len(got))
	}
	for i := range samples {
		if v := int16(binary.LittleEndian.Uint16(got[2*i:])); v != samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, v, samples[i])
		}
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := newMockSource(44100, nil)
	src.dec.(*mockMP3Reader).returnErrors = true

	if _, err := src.Read(make([]byte, 16)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Read() error = %v, want ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_Read(b *testing.B) {
	samples := make([]int16, 44100*2)
	buf := make([]byte, defaultBufSize)

	b.ReportAllocs()

	for b.Loop() {
		src := newMockSource(44100, samples)
		for {
			if _, err := src.Read(buf); err != nil {
				break
			}
		}
	}
}
