// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/ik5/audmix/audio"

// reconfig recomputes the output configuration from the attached producers when a
// reconfiguration is pending. It reports whether the output configuration changed;
// with a bound Device any pass that picked up a new producer configuration counts
// as a change so the device can reopen its sink.
func (m *Mixer) reconfig() bool {
	if len(m.slots) == 0 || !m.mustReconfig {
		return false
	}

	var (
		numInit  int
		adopted  bool
		rate     int
		format   audio.SampleFormat
		channels int
		union    audio.ChannelLayout
	)
	for _, s := range m.slots {
		cfg, ok := s.src.Config(true)
		if !ok || !cfg.valid() {
			continue
		}
		numInit++
		if !s.hasCfg || s.cfg != cfg {
			s.adopt(cfg)
			adopted = true
		}

		rate = max(rate, cfg.SampleRate)
		if cfg.Format.Rank() > format.Rank() {
			format = cfg.Format.Interleaved()
		}

		n := cfg.Channels
		layout := cfg.Layout
		if cfg.Forced && layout != 0 {
			n = layout.Count()
		}
		if layout == 0 {
			layout = audio.DefaultLayout(cfg.Channels)
		}
		union |= layout
		channels = max(channels, n)
	}
	if numInit == 0 {
		return false
	}

	want := m.cfg
	want.SampleRate = rate
	if format.Valid() {
		want.Format = format
	}
	if !m.forcedChannels {
		switch {
		case channels > 2 && union.Count() >= channels:
			want.Channels = min(union.Count(), audio.MaxChannels)
			want.Layout = union
		case channels > 2:
			want.Channels = channels
			want.Layout = audio.DefaultLayout(channels)
		default:
			want.Channels = channels
			want.Layout = outputLayout(channels, 0)
		}
	}
	want = m.negotiate(want)

	changed := want != m.cfg
	if changed {
		m.log.V(1).Info("output reconfigured", "from", m.cfg, "to", want)
		m.cfg = want
		m.resetSlots()
		m.metrics.reconfigured()
	}
	if numInit == len(m.slots) {
		m.mustReconfig = false
	}

	return changed || (m.device != nil && adopted)
}
