// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// Mixer sums the attached producers into one output stream.
type Mixer struct {
	mu sync.Mutex

	slots []*slot

	cfg            Config
	forcedChannels bool
	mustReconfig   bool
	maxSpeed       float64

	// acc grows to the largest output seen and never shrinks.
	acc []int32

	device  Device
	log     logr.Logger
	metrics *Metrics

	empty     bool
	buffering bool
	allEOS    bool
}

// New creates a Mixer with the default output configuration.
func New(opts ...Option) *Mixer {
	m := &Mixer{
		cfg:   DefaultConfig(),
		log:   logr.Discard(),
		empty: true,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Close detaches every producer.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots = nil
	m.empty = true
	m.buffering = false
	m.allEOS = false
	m.metrics.setSources(0)
}

// Batch runs fn with the mixer locked. The Batch is only valid inside fn.
func (m *Mixer) Batch(fn func(b *Batch)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&Batch{m: m})
}

// Attach adds p to the mix and schedules a reconfiguration. Attaching a producer
// twice is a no-op.
func (m *Mixer) Attach(p Producer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.attach(p)
}

// Detach removes p. The output configuration is kept.
func (m *Mixer) Detach(p Producer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detach(p)
}

// Has reports whether p is attached.
func (m *Mixer) Has(p Producer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.index(p) >= 0
}

// Count returns the number of attached producers.
func (m *Mixer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.slots)
}

// ForceChannels pins the output channel count to n.
func (m *Mixer) ForceChannels(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.forceChannels(n)
}

// SetMaxSpeed sets the playback-rate ceiling above which sources play silence.
// 0 disables the ceiling.
func (m *Mixer) SetMaxSpeed(s float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxSpeed = s
}

// Config returns the output configuration.
func (m *Mixer) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cfg
}

// SetConfig overrides the output configuration. Mono and stereo outputs get the
// front layouts; a pinned channel count is kept.
func (m *Mixer) SetConfig(c Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.setConfig(c)
}

// BlockAlign is the size in bytes of one output frame.
func (m *Mixer) BlockAlign() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cfg.BlockAlign()
}

// MustReconfig reports whether a reconfiguration is pending.
func (m *Mixer) MustReconfig() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mustReconfig
}

// Reconfigure runs a pending reconfiguration now and reports whether the output
// configuration changed (always when a Device is bound).
func (m *Mixer) Reconfigure() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.reconfig()
}

// Empty reports whether no producer is attached.
func (m *Mixer) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.empty
}

// Buffering reports whether an unmuted producer ran out of data without reaching
// its end during the last Produce.
func (m *Mixer) Buffering() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.buffering
}

// AllEOS reports whether every attached producer has reached its end.
func (m *Mixer) AllEOS() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.allEOS
}

// Produce fills dst with mixed output and returns the number of bytes written, always
// a whole number of output frames. dst is zeroed first. latency is the delay of the
// output ahead of dst and is passed to the producers.
//
// Produce returns 0 when the output configuration just changed, when nothing is
// attached and when no producer had data.
func (m *Mixer) Produce(dst []byte, latency time.Duration) int {
	clear(dst)

	m.mu.Lock()
	defer m.mu.Unlock()

	n, fast := m.produce(dst, latency)
	m.metrics.produced(n, fast)
	if m.buffering {
		m.metrics.buffering()
	}

	return n
}

func (m *Mixer) produce(dst []byte, latency time.Duration) (int, int) {
	if m.reconfig() {
		return 0, 0
	}
	if len(m.slots) == 0 {
		m.updateFlags()
		return 0, 0
	}

	if !m.checkSnapshots() {
		m.reconfig()
		return 0, 0
	}

	fast, done := m.fastPath(dst, latency)
	if done {
		return fast, fast
	}
	latency += m.cfg.Duration(fast)

	return fast + m.mix(dst[fast:], latency), fast
}

// checkSnapshots refreshes every slot for this cycle. It returns false when a
// producer reports a configuration other than the cached one; producers that are
// reconfiguring sit this cycle out.
func (m *Mixer) checkSnapshots() bool {
	stable := true
	for _, s := range m.slots {
		cfg, ok := s.src.Config(false)
		if !ok || !cfg.valid() {
			s.active = false
			m.mustReconfig = true
			continue
		}
		s.active = true
		if !s.hasCfg || cfg != s.cfg {
			m.log.V(1).Info("source configuration changed", "from", s.cfg, "to", cfg)
			m.mustReconfig = true
			stable = false
		}
	}

	return stable
}

// lone returns the only producer that plays this cycle. Producers skipping the
// cycle (reconfiguring or at speed 0) do not count.
func (m *Mixer) lone() *slot {
	var found *slot
	for _, s := range m.slots {
		if !s.active || s.src.Speed() == 0 {
			continue
		}
		if found != nil {
			return nil
		}
		found = s
	}

	return found
}

// fastPath copies raw bytes from a lone producer whose format is the output format.
// done is false when the path does not apply or was abandoned after n bytes.
func (m *Mixer) fastPath(dst []byte, latency time.Duration) (n int, done bool) {
	if m.forcedChannels {
		return 0, false
	}
	s := m.lone()
	if s == nil || !s.matches(m.cfg) || s.cfg.Format.IsPlanar() {
		return 0, false
	}
	s.refresh()
	if s.speed != 1 || s.custom || s.overCeiling(m.maxSpeed) {
		return 0, false
	}

	ba := m.cfg.BlockAlign()
	room := len(dst) - len(dst)%ba
	s.eos, s.buffering = false, false
	for n < room {
		data, _, ok := s.src.FetchFrame(latency)
		if !ok || len(data) == 0 {
			s.eos = s.src.IsEOS()
			s.buffering = !s.eos && s.src.IsBuffering()
			m.log.V(2).Info("not enough input data", "missing", room-n)
			break
		}
		size := min(len(data), room-n)
		size -= size % ba
		if !s.muted {
			copy(dst[n:], data[:size])
		}
		s.src.ReleaseFrame(size)
		n += size
		latency += m.cfg.Duration(size)
		if size == 0 {
			break
		}

		cfg, ok := s.src.Config(false)
		if !ok || !cfg.valid() {
			m.mustReconfig = true
			m.updateFlags()
			return n, true
		}
		if cfg != s.cfg {
			m.log.V(1).Info("source changed during direct copy", "from", s.cfg, "to", cfg, "copied", n)
			s.adopt(cfg)
			m.mustReconfig = true
			return n, n == room
		}
	}
	m.updateFlags()

	return n, true
}

// mix runs the general path over dst and returns the bytes written.
func (m *Mixer) mix(dst []byte, latency time.Duration) int {
	out := m.cfg
	ba := out.BlockAlign()
	frames := len(dst) / ba
	if frames == 0 {
		m.updateFlags()
		return 0
	}

	if need := frames * out.Channels; len(m.acc) < need {
		m.acc = make([]int32, need)
	}
	acc := m.acc[:frames*out.Channels]
	clear(acc)

	active := 0
	for _, s := range m.slots {
		if !s.active {
			continue
		}
		s.refresh()
		s.begin(frames, out)
		if s.active {
			active++
		}
	}
	if active == 0 {
		m.updateFlags()
		return 0
	}

	// Fetch from every slot, then release, so that slots sharing one producer
	// never see a buffer that moved under them.
	delay := latency
	for {
		pending := 0
		for _, s := range m.slots {
			if !s.needsData() {
				continue
			}
			s.fill(m.maxSpeed, delay)
			if s.needsData() {
				pending++
			}
		}
		for _, s := range m.slots {
			s.release()
		}
		if pending == 0 {
			break
		}
		delay = 0
	}

	written := 0
	for _, s := range m.slots {
		if !s.active || s.written == 0 {
			continue
		}
		m.metrics.silenced(s.silenced)
		for i, v := range s.buf[:s.written*out.Channels] {
			acc[i] = utils.SaturatingAdd32(acc[i], v)
		}
		written = max(written, s.written)
	}
	m.updateFlags()
	if written == 0 {
		return 0
	}

	stride := 0
	if out.Format.IsPlanar() {
		stride = written * out.Format.BytesPerSample()
	}
	for i := range written {
		for c := range out.Channels {
			audio.Encode(dst, out.Format, out.Channels, i, c, stride, acc[i*out.Channels+c])
		}
	}

	return written * ba
}

func (m *Mixer) updateFlags() {
	m.empty = len(m.slots) == 0
	m.buffering = false
	m.allEOS = !m.empty
	for _, s := range m.slots {
		if s.buffering && !s.muted {
			m.buffering = true
		}
		if !s.eos {
			m.allEOS = false
		}
	}
}

func (m *Mixer) index(p Producer) int {
	return slices.IndexFunc(m.slots, func(s *slot) bool { return s.src == p })
}

func (m *Mixer) attach(p Producer) error {
	if p == nil {
		return ErrNilProducer
	}
	if m.index(p) >= 0 {
		return nil
	}

	m.slots = append(m.slots, newSlot(p))
	m.mustReconfig = true
	m.empty = false
	m.allEOS = false
	m.metrics.setSources(len(m.slots))
	m.log.V(1).Info("source attached", "sources", len(m.slots))

	return nil
}

func (m *Mixer) detach(p Producer) {
	i := m.index(p)
	if i < 0 {
		return
	}

	m.slots = slices.Delete(m.slots, i, i+1)
	m.updateFlags()
	m.metrics.setSources(len(m.slots))
	m.log.V(1).Info("source detached", "sources", len(m.slots))
}

func (m *Mixer) forceChannels(n int) error {
	if n <= 0 || n > audio.MaxChannels {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, audio.ErrInvalidChannels, n)
	}

	m.forcedChannels = true
	if m.cfg.Channels != n {
		m.cfg.Channels = n
		m.cfg.Layout = outputLayout(n, 0)
		m.resetSlots()
	}

	return nil
}

func (m *Mixer) setConfig(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if m.forcedChannels {
		c.Channels = m.cfg.Channels
	}
	c.Layout = outputLayout(c.Channels, c.Layout)
	c = m.negotiate(c)
	if c == m.cfg {
		return nil
	}

	m.log.V(1).Info("output configuration set", "from", m.cfg, "to", c)
	m.cfg = c
	m.resetSlots()

	return nil
}

func (m *Mixer) resetSlots() {
	for _, s := range m.slots {
		s.reset()
	}
}

// negotiate lets the bound device adjust want.
func (m *Mixer) negotiate(want Config) Config {
	if m.device == nil {
		return want
	}

	got, err := m.device.NegotiateConfig(want)
	if err != nil {
		m.log.Error(err, "device rejected output configuration", "config", want)
		return want
	}
	if err := got.Validate(); err != nil {
		m.log.Error(err, "device returned an invalid configuration", "config", got)
		return want
	}
	if m.forcedChannels {
		got.Channels = want.Channels
	}
	got.Layout = outputLayout(got.Channels, got.Layout)

	return got
}
