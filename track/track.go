// SPDX-License-Identifier: EPL-2.0

package track

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/mixer"
)

// Track plays an audio.Source through a mixer. It implements mixer.Producer.
type Track struct {
	mu sync.Mutex

	src audio.Source
	ba  int

	cfg    mixer.SourceConfig
	forced audio.ChannelLayout

	// buf[start:end] is pending, buf[end:tail] is a partial frame waiting for
	// the rest of its bytes.
	buf   []byte
	start int
	end   int
	tail  int

	eos       bool
	buffering bool
	err       error
	closed    bool

	muted bool
	speed float64
	gains []float64
}

// New wraps src. Reads are sized from src.BufSize unless WithBlockFrames is given.
func New(src audio.Source, opts ...Option) *Track {
	o := options{speed: 1}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Track{
		src:    src,
		forced: o.forced,
		muted:  o.muted,
		speed:  o.speed,
		gains:  slices.Clone(o.gains),
	}
	t.refresh()

	size := src.BufSize()
	if o.blockFrames > 0 {
		size = o.blockFrames * t.ba
	}
	if t.ba > 0 {
		size = max(size-size%t.ba, t.ba)
	}
	t.buf = make([]byte, max(size, 1))

	return t
}

// refresh rebuilds the configuration from the source.
func (t *Track) refresh() {
	t.ba = audio.BlockAlign(t.src)
	t.cfg = mixer.SourceConfig{
		SampleRate: t.src.SampleRate(),
		Channels:   t.src.Channels(),
		Format:     t.src.Format(),
		Layout:     t.src.Layout(),
	}
	if t.forced != 0 {
		t.cfg.Layout = t.forced
		t.cfg.Forced = true
	}
}

func (t *Track) FetchFrame(time.Duration) ([]byte, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start == t.end {
		t.fill()
	}
	if t.start == t.end {
		return nil, 0, false
	}

	return t.buf[t.start:t.end], 0, true
}

// fill reads the next block, keeping any partial frame left by the previous one.
func (t *Track) fill() {
	if t.eos || t.closed {
		return
	}

	carry := copy(t.buf, t.buf[t.end:t.tail])
	t.start, t.end, t.tail = 0, 0, carry

	for {
		n, err := t.src.Read(t.buf[t.tail:])
		t.tail += n
		if t.ba > 0 {
			t.end = t.tail - t.tail%t.ba
		} else {
			t.end = t.tail
		}

		switch {
		case errors.Is(err, io.EOF):
			t.eos = true
			t.end = t.tail
			return
		case err != nil:
			t.eos = true
			t.err = fmt.Errorf("track read: %w", err)
			t.end = t.tail
			return
		case n == 0:
			t.buffering = true
			return
		}
		t.buffering = false

		if t.end > 0 || t.tail == len(t.buf) {
			return
		}
	}
}

func (t *Track) ReleaseFrame(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.start = min(t.start+max(n, 0), t.end)
}

func (t *Track) Config(forceRefresh bool) (mixer.SourceConfig, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if forceRefresh {
		t.refresh()
	}

	return t.cfg, true
}

func (t *Track) Speed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.speed
}

// ChannelVolume fills gains from SetVolume. A single volume applies to every
// channel.
func (t *Track) ChannelVolume(gains []float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	custom := false
	for i := range gains {
		switch {
		case len(t.gains) == 1:
			gains[i] = t.gains[0]
		case i < len(t.gains):
			gains[i] = t.gains[i]
		default:
			gains[i] = 1
		}
		if gains[i] != 1 {
			custom = true
		}
	}

	return custom
}

func (t *Track) IsMuted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.muted
}

func (t *Track) IsBuffering() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.buffering && !t.eos
}

func (t *Track) IsEOS() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return (t.eos || t.closed) && t.start == t.end
}

// SetMuted mutes the track. A muted track keeps being consumed.
func (t *Track) SetMuted(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.muted = v
}

// SetSpeed sets the playback rate, 1 being normal and 0 pausing the track.
func (t *Track) SetSpeed(s float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.speed = s
}

// SetVolume sets per-channel gains. One value applies to all channels; no value
// restores unity.
func (t *Track) SetVolume(gains ...float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gains = slices.Clone(gains)
}

// SetForcedLayout makes l the authoritative channel layout. 0 returns to the
// layout reported by the source. The mixer picks the change up on its next cycle.
func (t *Track) SetForcedLayout(l audio.ChannelLayout) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.forced = l
	t.refresh()
}

// Err returns the read error that ended the track, if any.
func (t *Track) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// Close closes the source. The track reports end of stream afterwards.
func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.start, t.end, t.tail = 0, 0, 0

	if err := t.src.Close(); err != nil {
		return fmt.Errorf("track close: %w", err)
	}

	return nil
}
