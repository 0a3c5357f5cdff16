// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

// Example_codec decodes a 16-bit sample into the full-scale domain and writes it
// back as 24-bit.
func Example_codec() {
	in := make([]byte, 2)
	audio.Encode(in, audio.FormatS16, 1, 0, 0, 0, 1000*65535)

	v := audio.Decode(in, audio.FormatS16, 1, 0, 0, 0)
	fmt.Printf("full scale: %d\n", v)

	out := make([]byte, 3)
	audio.Encode(out, audio.FormatS24, 1, 0, 0, 0, v)
	fmt.Printf("as s24: %d\n", audio.Decode(out, audio.FormatS24, 1, 0, 0, 0)/255)
	// Output:
	// full scale: 65535000
	// as s24: 257000
}

// Example_mapChannels downmixes one 5.1 frame to stereo.
func Example_mapChannels() {
	f := audio.Frame{100, 200, 1000, 0, 10, 20}
	audio.MapChannels(&f, 6, audio.Layout5_1, false, 2, audio.LayoutStereo)

	fmt.Println(f[0], f[1])
	// Output:
	// 610 720
}

// Example_layout shows layout positions.
func Example_layout() {
	l := audio.Layout5_1
	fmt.Println(l, l.Count(), l.Position(audio.ChLFE))
	// Output:
	// FL+FR+FC+LFE+BL+BR 6 3
}

// mockDecoder is a simple decoder for testing the registry.
type mockDecoder struct{}

func (m mockDecoder) Decode(r io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(16000, 1, 1000, 440.0), nil
}

// Example_registry demonstrates the format registry.
func Example_registry() {
	// Create a new registry
	registry := audio.NewRegistry()

	// Register a decoder
	registry.Register("mock", mockDecoder{})

	// Retrieve the decoder
	decoder, ok := registry.Get("mock")
	if !ok {
		fmt.Println("Decoder not found")
		return
	}

	fmt.Printf("Retrieved decoder: %T\n", decoder)

	// Try to get an unregistered format
	_, ok = registry.Get("unknown")
	if !ok {
		fmt.Println("Unknown format not found in registry")
	}
	// Output:
	// Retrieved decoder: audio_test.mockDecoder
	// Unknown format not found in registry
}

// Example_source reads a raw source to the end.
func Example_source() {
	source := audiotest.NewSineSource(16000, 2, 1000, 440.0)

	buf := make([]byte, 1024)
	total := 0
	for {
		n, err := source.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("Error reading: %v\n", err)
			return
		}
	}

	fmt.Printf("format %s, %d frames\n", source.Format(), total/audio.BlockAlign(source))
	// Output:
	// format s16, 1000 frames
}
