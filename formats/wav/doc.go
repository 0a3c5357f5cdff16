// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// It uses github.com/go-audio/wav for chunk parsing and for writing headers.
//
// # Supported Formats
//
// Decoding:
//   - Integer PCM at 8 (unsigned), 16, 24 and 32 bits
//   - IEEE float at 32 and 64 bits
//   - WAVE_FORMAT_EXTENSIBLE files carrying integer PCM
//
// Samples are passed through untouched: Format reports the stored encoding and
// Read returns the bytes of the data chunk.
//
// # Decoding WAV Files
//
//	file, _ := os.Open("audio.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	defer source.Close()
//
//	buf := make([]byte, source.BufSize())
//	n, err := source.Read(buf)
//
// # Writing WAV Files
//
// A Writer takes interleaved PCM bytes in any non-planar sample format:
//
//	file, _ := os.Create("output.wav")
//	w, _ := wav.NewWriter(file, 48000, 2, audio.FormatS16)
//	w.Write(pcm)
//	w.Close()
//
// Integer formats keep their width. Float input is stored as 32-bit integer PCM.
// The sizes in the header are patched on Close, so the target must be seekable.
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrUnsupportedEncoding: compressed or otherwise unknown encodings
//   - ErrUnsupportedBitDepth: widths the encoding does not allow
//   - ErrNoPCMData: no data chunk follows the header
//   - ErrUnsupportedFormat: the Writer cannot store the requested format
package wav
