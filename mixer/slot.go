// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// fracScale is the resolution of the interpolation weight.
const fracScale = 1000

const (
	ratioUnknown = iota
	ratioAligned
	ratioUnaligned
)

// slot is the per-producer resampling state.
type slot struct {
	src Producer

	cfg    SourceConfig
	hasCfg bool

	// refreshed every cycle
	active bool
	muted  bool
	speed  float64
	custom bool
	gains  [audio.MaxChannels]float64

	outChannels int
	outLayout   audio.ChannelLayout

	// buf holds frames*outChannels samples; it grows and never shrinks.
	buf     []int32
	frames  int
	written int

	inPos        int64 // absolute index of the first frame of the current producer buffer
	outPos       int64
	scaledRate   int64
	outRate      int64
	ratioAligned int
	bytesPerFrm  int

	hasPrev bool
	prev    audio.Frame

	fetched bool
	used    int
	stalled bool

	eos       bool
	buffering bool
	silenced  int
}

func newSlot(p Producer) *slot {
	return &slot{src: p}
}

// reset forces the resampler to be set up again before the next use.
func (s *slot) reset() {
	s.ratioAligned = ratioUnknown
	s.hasPrev = false
	clear(s.prev[:])
}

// adopt replaces the cached snapshot.
func (s *slot) adopt(cfg SourceConfig) {
	if s.hasCfg && s.cfg == cfg {
		return
	}
	s.cfg = cfg
	s.hasCfg = true
	s.reset()
}

// matches reports whether the snapshot can be copied to out byte for byte.
func (s *slot) matches(out Config) bool {
	return s.hasCfg &&
		s.cfg.SampleRate == out.SampleRate &&
		s.cfg.Channels == out.Channels &&
		s.cfg.Format == out.Format
}

// refresh reads the per-cycle producer state.
func (s *slot) refresh() {
	s.muted = s.src.IsMuted()
	s.speed = math.Abs(s.src.Speed())
	for i := range s.gains {
		s.gains[i] = 1
	}
	n := min(max(s.cfg.Channels, 1), audio.MaxChannels)
	s.custom = s.src.ChannelVolume(s.gains[:n])
}

// begin prepares the slot to write frames output frames for out.
func (s *slot) begin(frames int, out Config) {
	need := frames * out.Channels
	if len(s.buf) < need {
		s.buf = make([]int32, need)
	}
	s.frames = frames
	s.written = 0
	s.fetched = false
	s.used = 0
	s.stalled = false
	s.silenced = 0
	s.outChannels = out.Channels
	s.outLayout = out.Layout

	s.setup(out.SampleRate)
	s.active = s.scaledRate > 0
}

// setup recomputes the rate ratio when it is unknown or the speed changed.
func (s *slot) setup(outRate int) {
	scaled := int64(math.Round(float64(s.cfg.SampleRate) * s.speed))
	if s.ratioAligned != ratioUnknown && scaled == s.scaledRate && int64(outRate) == s.outRate {
		return
	}

	s.scaledRate = scaled
	s.outRate = int64(outRate)
	s.inPos, s.outPos = 0, 0
	s.bytesPerFrm = s.cfg.Channels * s.cfg.Format.BytesPerSample()
	if scaled > 0 && scaled%s.outRate == 0 {
		s.ratioAligned = ratioAligned
		s.hasPrev = false
	} else {
		s.ratioAligned = ratioUnaligned
	}
}

func (s *slot) needsData() bool {
	return s.active && !s.stalled && s.written < s.frames
}

// fill runs one fetch of the resampling loop. The fetched buffer is released by
// release once every slot of the round has been filled.
func (s *slot) fill(maxSpeed float64, delay time.Duration) {
	data, stride, ok := s.src.FetchFrame(delay)
	if !ok || len(data) == 0 {
		if s.hasPrev && s.written < s.frames {
			s.emit(&s.prev, s.silent(maxSpeed))
			s.outPos++
			s.hasPrev = false
		}
		s.eos = s.src.IsEOS()
		s.buffering = !s.eos && s.src.IsBuffering()
		s.stalled = true
		return
	}
	s.eos, s.buffering = false, false
	s.fetched = true

	if s.bytesPerFrm == 0 {
		// undecodable format
		s.used = len(data)
		s.stalled = true
		return
	}

	f := s.cfg.Format
	ch := s.cfg.Channels
	nIn := s.frameCount(data, stride)
	switch nIn {
	case 0:
		s.used = len(data)
		return
	case 1:
		audio.DecodeFrame(&s.prev, data, f, ch, 0, stride)
		s.hasPrev = true
		s.used = s.consumedBytes(data, 1, 1)
		s.inPos++
		s.wrap()
		return
	}

	silent := s.silent(maxSpeed)
	n := int64(nIn)
	var cur, next audio.Frame
	for s.written < s.frames {
		num := s.outPos * s.scaledRate
		idx := num / s.outRate
		frac := (num % s.outRate) * fracScale / s.outRate
		rel := idx - s.inPos

		if rel >= n || (frac != 0 && rel+1 >= n) {
			audio.DecodeFrame(&s.prev, data, f, ch, nIn-1, stride)
			s.hasPrev = s.ratioAligned == ratioUnaligned
			s.used = s.consumedBytes(data, nIn, nIn)
			s.inPos += n
			s.wrap()
			return
		}

		if !silent {
			switch {
			case rel < 0 && s.hasPrev:
				cur = s.prev
			case rel < 0:
				audio.DecodeFrame(&cur, data, f, ch, 0, stride)
			default:
				audio.DecodeFrame(&cur, data, f, ch, int(rel), stride)
			}
			if frac != 0 {
				audio.DecodeFrame(&next, data, f, ch, int(rel+1), stride)
				for c := range ch {
					cur[c] = utils.LinearInterpolate(cur[c], next[c], frac, fracScale)
				}
			}
		}
		s.emit(&cur, silent)
		s.outPos++
		s.wrap()
	}

	idx := s.outPos * s.scaledRate / s.outRate
	consumed := utils.ClampRange(idx-s.inPos, 0, n)
	s.used = s.consumedBytes(data, int(consumed), nIn)
	s.inPos += consumed
	s.wrap()
}

// release hands the consumed byte count of the current fetch back to the producer.
func (s *slot) release() {
	if !s.fetched {
		return
	}
	s.src.ReleaseFrame(s.used)
	s.fetched = false
	s.used = 0
}

func (s *slot) silent(maxSpeed float64) bool {
	return s.muted || s.overCeiling(maxSpeed)
}

func (s *slot) overCeiling(maxSpeed float64) bool {
	return maxSpeed > 0 && s.speed > maxSpeed
}

// emit writes one source frame, after gain and channel mapping, as the next output
// frame.
func (s *slot) emit(in *audio.Frame, silent bool) {
	off := s.written * s.outChannels
	dst := s.buf[off : off+s.outChannels]
	s.written++

	if silent {
		clear(dst)
		if !s.muted {
			s.silenced++
		}
		return
	}

	v := *in
	if s.custom && !s.cfg.Forced {
		for c := range min(s.cfg.Channels, audio.MaxChannels) {
			v[c] = utils.ApplyGain(v[c], s.gains[c])
		}
	}
	audio.MapChannels(&v, s.cfg.Channels, s.cfg.Layout, s.cfg.Forced, s.outChannels, s.outLayout)
	copy(dst, v[:s.outChannels])
}

// wrap keeps both position counters bounded. Subtracting one period from each
// leaves every derived index and weight unchanged.
func (s *slot) wrap() {
	if s.outPos > s.outRate && s.inPos > s.scaledRate {
		s.outPos -= s.outRate
		s.inPos -= s.scaledRate
	}
}

func (s *slot) frameCount(data []byte, stride int) int {
	if !s.cfg.Format.IsPlanar() {
		return len(data) / s.bytesPerFrm
	}

	ch := s.cfg.Channels
	if stride <= 0 {
		stride = len(data) / ch
	}
	n := (len(data) - (ch-1)*stride) / s.cfg.Format.BytesPerSample()

	return max(n, 0)
}

// consumedBytes converts consumed frames to the release count. A fully consumed
// interleaved buffer releases trailing partial bytes too.
func (s *slot) consumedBytes(data []byte, consumed, total int) int {
	if consumed == total && !s.cfg.Format.IsPlanar() {
		return len(data)
	}

	return consumed * s.bytesPerFrm
}
