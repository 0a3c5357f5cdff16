// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Source is a decoded PCM stream delivered as raw bytes in its native sample format.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// Format of the bytes returned by Read.
	Format() SampleFormat
	// Layout of the channels, 0 when the stream does not say.
	Layout() ChannelLayout
	// Read fills p with interleaved frames and returns the number of bytes written.
	// When n == 0 with err == io.EOF, the stream is finished.
	Read(p []byte) (n int, err error)

	// BufSize is the preferred read size in bytes.
	BufSize() int

	// Close releases any resources.
	Close() error
}

// BlockAlign returns the size in bytes of one frame of s.
func BlockAlign(s Source) int {
	return s.Channels() * s.Format().BytesPerSample()
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// ForFile returns the decoder registered for the extension of name.
func (r *Registry) ForFile(name string) (Decoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if d, ok := r.Get(ext); ok {
		return d, nil
	}

	return nil, fmt.Errorf("%w for %q", ErrNoDecoder, name)
}

// Keys lists the registered format keys in sorted order.
func (r *Registry) Keys() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
