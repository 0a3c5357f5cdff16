// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audmix/audio"
)

// fakeProducer plays an endless stream of silence.
type fakeProducer struct {
	cfg   SourceConfig
	speed float64
	chunk int
	eos   bool
}

func newFakeProducer(rate, channels int) *fakeProducer {
	return &fakeProducer{
		cfg:   SourceConfig{SampleRate: rate, Channels: channels, Format: audio.FormatS16},
		speed: 1,
		chunk: 4096,
	}
}

func (p *fakeProducer) FetchFrame(time.Duration) ([]byte, int, bool) {
	if p.eos {
		return nil, 0, false
	}
	return make([]byte, p.chunk), 0, true
}

func (p *fakeProducer) ReleaseFrame(int) {}
func (p *fakeProducer) Config(bool) (SourceConfig, bool) { return p.cfg, true }
func (p *fakeProducer) Speed() float64 { return p.speed }
func (p *fakeProducer) ChannelVolume([]float64) bool { return false }
func (p *fakeProducer) IsMuted() bool { return false }
func (p *fakeProducer) IsBuffering() bool { return false }
func (p *fakeProducer) IsEOS() bool { return p.eos }

func TestMixer_BuffersNeverShrink(t *testing.T) {
	m := New()
	require.NoError(t, m.ForceChannels(2))
	p := newFakeProducer(44100, 1)
	require.NoError(t, m.Attach(p))

	require.Equal(t, 4000, m.Produce(make([]byte, 4000), 0))
	accLen := len(m.acc)
	bufLen := len(m.slots[0].buf)
	require.Equal(t, 2000, accLen)
	require.Equal(t, 2000, bufLen)

	require.Equal(t, 40, m.Produce(make([]byte, 40), 0))
	require.Len(t, m.acc, accLen)
	require.Len(t, m.slots[0].buf, bufLen)
}

func TestMixer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	met := NewMetrics(reg, "test")
	m := New(WithMetrics(met), WithMaxSpeed(1.5))

	p := newFakeProducer(44100, 2)
	require.NoError(t, m.Attach(p))
	require.InDelta(t, 1, testutil.ToFloat64(met.sources), 0)

	// fast path
	require.Equal(t, 400, m.Produce(make([]byte, 400), 0))
	require.InDelta(t, 400, testutil.ToFloat64(met.fastPathBytes), 0)

	// speed ceiling
	p.speed = 2
	require.Equal(t, 400, m.Produce(make([]byte, 400), 0))
	require.InDelta(t, 100, testutil.ToFloat64(met.silencedFrames), 0)

	// reconfiguration to 48 kHz
	p.cfg.SampleRate = 48000
	require.Zero(t, m.Produce(make([]byte, 400), 0))
	require.InDelta(t, 1, testutil.ToFloat64(met.reconfigs), 0)

	require.InDelta(t, 3, testutil.ToFloat64(met.produceCalls), 0)
	require.InDelta(t, 800, testutil.ToFloat64(met.bytesProduced), 0)

	m.Detach(p)
	require.InDelta(t, 0, testutil.ToFloat64(met.sources), 0)

	// a second set of collectors under the same namespace reuses the first
	again := NewMetrics(reg, "test")
	require.Same(t, met.produceCalls, again.produceCalls)
}

func TestMetrics_Nil(t *testing.T) {
	var met *Metrics
	met.produced(10, 10)
	met.reconfigured()
	met.silenced(3)
	met.buffering()
	met.setSources(2)

	require.NotNil(t, NewMetrics(nil, "x"))
}

func TestSlot_PositionsStayBounded(t *testing.T) {
	dev := FixedDevice{Config: Config{SampleRate: 48000, Channels: 2, Format: audio.FormatS16}}
	m := New(WithDevice(dev))
	p := newFakeProducer(44100, 2)
	require.NoError(t, m.Attach(p))

	buf := make([]byte, 480*4)
	require.Zero(t, m.Produce(buf, 0))
	for range 300 {
		require.Equal(t, len(buf), m.Produce(buf, 0))
	}

	s := m.slots[0]
	require.LessOrEqual(t, s.outPos, 2*s.outRate)
	require.LessOrEqual(t, s.inPos, 2*s.scaledRate)
}

func TestSlot_FrameCount(t *testing.T) {
	s := newSlot(newFakeProducer(44100, 2))

	s.adopt(SourceConfig{SampleRate: 44100, Channels: 2, Format: audio.FormatS16})
	s.setup(44100)
	require.Equal(t, 2, s.frameCount(make([]byte, 11), 0))
	require.Equal(t, 11, s.consumedBytes(make([]byte, 11), 2, 2))
	require.Equal(t, 4, s.consumedBytes(make([]byte, 11), 1, 2))

	s.adopt(SourceConfig{SampleRate: 44100, Channels: 2, Format: audio.FormatS16P})
	s.setup(44100)
	require.Equal(t, 4, s.frameCount(make([]byte, 16), 0))
	require.Equal(t, 3, s.frameCount(make([]byte, 16), 10))
	require.Zero(t, s.frameCount(make([]byte, 4), 10))
	require.Equal(t, 16, s.consumedBytes(make([]byte, 16), 4, 4))
}

func TestConfig_Durations(t *testing.T) {
	c := DefaultConfig()
	require.Equal(t, 1764, c.BytesFor(10*time.Millisecond))
	require.Equal(t, 10*time.Millisecond, c.Duration(1764))
	require.Zero(t, Config{}.Duration(100))
	require.Equal(t, "44100Hz/2ch/s16/FL+FR", c.String())
}
