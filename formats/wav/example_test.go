// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/wav"
)

// Example_roundTrip writes a file and decodes it back.
func Example_roundTrip() {
	f, err := os.CreateTemp("", "example-*.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	w, err := wav.NewWriter(f, 16000, 1, audio.FormatS16)
	if err != nil {
		log.Fatal(err)
	}

	pcm := make([]byte, 2*5)
	for i, v := range []int32{-1000, -500, 0, 500, 1000} {
		audio.Encode(pcm, audio.FormatS16, 1, i, 0, 0, audio.FromBitDepth(int(v), 16))
	}
	if _, err := w.Write(pcm); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		log.Fatal(err)
	}
	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	data, _ := io.ReadAll(src)
	recovered := make([]int, len(data)/2)
	for i := range recovered {
		recovered[i] = audio.ToBitDepth(audio.Decode(data, src.Format(), 1, i, 0, 0), 16)
	}

	fmt.Printf("%d Hz, %d ch, %s\n", src.SampleRate(), src.Channels(), src.Format())
	fmt.Println(recovered)
	// Output:
	// 16000 Hz, 1 ch, s16
	// [-1000 -500 0 500 1000]
}

// Example_errorNotWAV shows handling of invalid WAV files.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file")))
	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	}
	// Output: Detected: Not a valid WAV file
}

// Example_streamingRead reads a file in fixed-size chunks.
func Example_streamingRead() {
	f, err := os.Open("input.wav")
	if err != nil {
		log.Fatal(err)
	}

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	buf := make([]byte, src.BufSize())
	var total int
	for {
		n, err := src.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Read %d frames\n", total/audio.BlockAlign(src))
}
