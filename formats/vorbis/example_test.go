// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

// ExampleDecoder_Decode shows how to decode an Ogg Vorbis file.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.ogg")
	if err != nil {
		log.Fatal(err)
	}

	src, err := vorbis.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	fmt.Printf("Decoded Ogg Vorbis: %d Hz, %d channels, %s\n",
		src.SampleRate(), src.Channels(), src.Format())
}

// ExampleDecoder_Decode_convertToWav copies the decoded PCM into a WAV file.
func ExampleDecoder_Decode_convertToWav() {
	in, err := os.Open("input.ogg")
	if err != nil {
		log.Fatal(err)
	}

	src, err := vorbis.Decoder{}.Decode(in)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	out, err := os.Create("output.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	w, err := wav.NewWriter(out, src.SampleRate(), src.Channels(), src.Format())
	if err != nil {
		log.Fatal(err)
	}

	if _, err := io.CopyBuffer(w, src, make([]byte, src.BufSize())); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %d frames\n", w.Frames())
}
