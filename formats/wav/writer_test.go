// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmix/audio"
)

// writeFile runs fn against a Writer on a temporary file and returns the file
// contents after Close.
func writeFile(t *testing.T, rate, channels int, f audio.SampleFormat, fn func(w *Writer)) []byte {
	t.Helper()

	name := filepath.Join(t.TempDir(), "out.wav")
	fh, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	w, err := NewWriter(fh, rate, channels, f)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	fn(w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}

	return data
}

func TestWriter_RoundTrip16(t *testing.T) {
	t.Parallel()

	want := pcm16(-1000, 1000, -500, 500, 0, 0, 32767, math.MinInt16)
	data := writeFile(t, 16000, 2, audio.LittleEndianFormat(16), func(w *Writer) {
		if _, err := w.Write(want); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	})

	if len(data) != 44+len(want) {
		t.Errorf("file size = %d, want %d", len(data), 44+len(want))
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(want)) {
		t.Errorf("data chunk size = %d, want %d", got, len(want))
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != uint32(len(data)-8) {
		t.Errorf("RIFF size = %d, want %d", got, len(data)-8)
	}

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 16000 || src.Channels() != 2 {
		t.Errorf("decoded %d Hz / %d ch, want 16000 Hz / 2 ch", src.SampleRate(), src.Channels())
	}
	got, _ := io.ReadAll(src)
	if !bytes.Equal(got, want) {
		t.Errorf("decoded %v, want %v", got, want)
	}
}

func TestWriter_PartialFrames(t *testing.T) {
	t.Parallel()

	want := pcm16(1, 2, 3, 4, 5, 6)
	var w0 *Writer
	data := writeFile(t, 8000, 2, audio.LittleEndianFormat(16), func(w *Writer) {
		w0 = w
		for _, chunk := range [][]byte{want[:3], want[3:5], want[5:11], want[11:]} {
			if n, err := w.Write(chunk); err != nil || n != len(chunk) {
				t.Fatalf("Write() = (%d, %v), want (%d, nil)", n, err, len(chunk))
			}
		}
	})

	if w0.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", w0.Frames())
	}
	if !bytes.Equal(data[44:], want) {
		t.Errorf("data = %v, want %v", data[44:], want)
	}
}

func TestWriter_Empty(t *testing.T) {
	t.Parallel()

	data := writeFile(t, 8000, 1, audio.LittleEndianFormat(16), func(*Writer) {})
	if len(data) != 44 {
		t.Errorf("empty file size = %d, want 44", len(data))
	}
	if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Decode(empty) error = %v", err)
	}
}

func TestWriter_Widths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       audio.SampleFormat
		wantBits int
	}{
		{"u8", audio.FormatU8, 8},
		{"s8", audio.FormatS8, 8},
		{"s24", audio.LittleEndianFormat(24), 24},
		{"s32", audio.LittleEndianFormat(32), 32},
		{"float", audio.FormatFLT, 32},
		{"double", audio.FormatDBL, 32},
	}

	values := []int32{0, math.MaxInt32 / 2, math.MinInt32 / 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := make([]byte, len(values)*tt.in.BytesPerSample())
			for i, v := range values {
				audio.Encode(in, tt.in, 1, i, 0, 0, v)
			}

			data := writeFile(t, 8000, 1, tt.in, func(w *Writer) {
				if _, err := w.Write(in); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			})

			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.Format().BitDepth() != tt.wantBits {
				t.Errorf("stored bit depth = %d, want %d", src.Format().BitDepth(), tt.wantBits)
			}

			out, _ := io.ReadAll(src)
			for i := range values {
				want := audio.Decode(in, tt.in, 1, i, 0, 0)
				got := audio.Decode(out, src.Format(), 1, i, 0, 0)
				if math.Abs(float64(got)-float64(want)) > float64(int64(math.MaxInt32)>>(tt.wantBits-1)) {
					t.Errorf("sample %d = %d, want about %d", i, got, want)
				}
			}
		})
	}
}

func TestWriter_Rejects(t *testing.T) {
	t.Parallel()

	fh, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	if _, err := NewWriter(fh, 8000, 2, audio.FormatS16P); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("NewWriter(planar) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := NewWriter(fh, 8000, 2, audio.FormatUnknown); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("NewWriter(unknown) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := NewWriter(fh, 8000, 0, audio.FormatS16); !errors.Is(err, audio.ErrInvalidChannels) {
		t.Errorf("NewWriter(0 channels) error = %v, want ErrInvalidChannels", err)
	}
}

func TestWriter_WriteAfterClose(t *testing.T) {
	t.Parallel()

	fh, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()

	w, _ := NewWriter(fh, 8000, 1, audio.FormatS16)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := w.Write(pcm16(1)); err == nil {
		t.Error("Write() after Close succeeded")
	}
}
