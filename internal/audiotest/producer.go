// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"
	"time"

	"github.com/ik5/audmix/mixer"
)

// MockProducer is a scriptable mixer.Producer holding its whole stream in memory.
// It records how the mixer fetches and releases data.
type MockProducer struct {
	mu sync.Mutex

	cfg     mixer.SourceConfig
	invalid bool
	data    []byte
	chunk   int

	speed     float64
	gains     []float64
	muted     bool
	buffering bool
	hold      bool

	outstanding bool

	fetches    int
	releases   int
	released   int
	violations int
	lastDelay  time.Duration

	// OnRelease runs after every ReleaseFrame with the producer unlocked.
	OnRelease func(p *MockProducer, n int)
}

// NewMockProducer returns a producer delivering data, encoded as described by cfg.
func NewMockProducer(cfg mixer.SourceConfig, data []byte) *MockProducer {
	return &MockProducer{
		cfg:   cfg,
		data:  data,
		speed: 1,
	}
}

// SetChunk limits the bytes returned by a single FetchFrame. 0 means no limit.
func (p *MockProducer) SetChunk(n int) { p.mu.Lock(); p.chunk = n; p.mu.Unlock() }

func (p *MockProducer) SetSpeed(s float64) { p.mu.Lock(); p.speed = s; p.mu.Unlock() }

func (p *MockProducer) SetMuted(v bool) { p.mu.Lock(); p.muted = v; p.mu.Unlock() }

// SetBuffering makes an empty producer report buffering instead of end of stream.
func (p *MockProducer) SetBuffering(v bool) { p.mu.Lock(); p.buffering = v; p.mu.Unlock() }

// SetHold makes FetchFrame return nothing while data is still pending, so the
// producer is neither buffering nor at end of stream.
func (p *MockProducer) SetHold(v bool) { p.mu.Lock(); p.hold = v; p.mu.Unlock() }

// SetGains sets per-channel gains; nil restores unity.
func (p *MockProducer) SetGains(g ...float64) { p.mu.Lock(); p.gains = g; p.mu.Unlock() }

// SetInvalid makes Config report the producer as reconfiguring.
func (p *MockProducer) SetInvalid(v bool) { p.mu.Lock(); p.invalid = v; p.mu.Unlock() }

// SetConfig changes the reported configuration and replaces the pending data.
func (p *MockProducer) SetConfig(cfg mixer.SourceConfig, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cfg = cfg
	p.data = data
}

// Append queues more data.
func (p *MockProducer) Append(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data = append(p.data, data...)
}

// Pending returns the number of bytes not yet released.
func (p *MockProducer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.data)
}

// Fetches counts successful FetchFrame calls.
func (p *MockProducer) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fetches
}

// Releases counts ReleaseFrame calls.
func (p *MockProducer) Releases() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.releases
}

// Released is the total number of bytes released.
func (p *MockProducer) Released() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.released
}

// Violations counts fetches made while a previous fetch was not released, and
// releases without a fetch.
func (p *MockProducer) Violations() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.violations
}

// LastDelay is the delay passed to the last FetchFrame.
func (p *MockProducer) LastDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastDelay
}

func (p *MockProducer) FetchFrame(delay time.Duration) ([]byte, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastDelay = delay
	if len(p.data) == 0 || p.hold {
		return nil, 0, false
	}
	if p.outstanding {
		p.violations++
	}
	p.outstanding = true
	p.fetches++

	if p.cfg.Format.IsPlanar() {
		return p.data, len(p.data) / p.cfg.Channels, true
	}

	n := len(p.data)
	if p.chunk > 0 {
		n = min(n, p.chunk)
	}

	return p.data[:n], 0, true
}

func (p *MockProducer) ReleaseFrame(n int) {
	p.mu.Lock()
	if !p.outstanding {
		p.violations++
	}
	p.outstanding = false
	p.releases++
	n = min(max(n, 0), len(p.data))
	p.released += n
	if p.cfg.Format.IsPlanar() {
		p.dropPlanar(n)
	} else {
		p.data = p.data[n:]
	}
	hook := p.OnRelease
	p.mu.Unlock()

	if hook != nil {
		hook(p, n)
	}
}

// dropPlanar removes the first n/blockAlign frames from every plane.
func (p *MockProducer) dropPlanar(n int) {
	bps := p.cfg.Format.BytesPerSample()
	ch := p.cfg.Channels
	frames := len(p.data) / (bps * ch)
	k := min(n/(bps*ch), frames)
	if k == 0 {
		return
	}

	rest := frames - k
	out := make([]byte, 0, rest*bps*ch)
	for c := range ch {
		plane := p.data[c*frames*bps : (c+1)*frames*bps]
		out = append(out, plane[k*bps:]...)
	}
	p.data = out
}

func (p *MockProducer) Config(bool) (mixer.SourceConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cfg, !p.invalid
}

func (p *MockProducer) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.speed
}

func (p *MockProducer) ChannelVolume(gains []float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	custom := false
	for i := range gains {
		gains[i] = 1
		if i < len(p.gains) {
			gains[i] = p.gains[i]
		}
		if gains[i] != 1 {
			custom = true
		}
	}

	return custom
}

func (p *MockProducer) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.muted
}

func (p *MockProducer) IsBuffering() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.data) == 0 && p.buffering
}

func (p *MockProducer) IsEOS() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.data) == 0 && !p.buffering
}
