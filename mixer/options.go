// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/go-logr/logr"

// Option configures a Mixer.
type Option func(*Mixer)

// WithLogger sets the logger. Attach, detach and reconfiguration are logged at V(1),
// starved sources at V(2).
func WithLogger(l logr.Logger) Option {
	return func(m *Mixer) { m.log = l }
}

// WithDevice binds the output sink that negotiates every output configuration.
func WithDevice(d Device) Option {
	return func(m *Mixer) { m.device = d }
}

// WithMetrics reports mixer activity to met.
func WithMetrics(met *Metrics) Option {
	return func(m *Mixer) { m.metrics = met }
}

// WithMaxSpeed sets the playback-rate ceiling. 0 disables it.
func WithMaxSpeed(s float64) Option {
	return func(m *Mixer) { m.maxSpeed = s }
}

// WithConfig sets the initial output configuration. Invalid configurations are
// ignored.
func WithConfig(c Config) Option {
	return func(m *Mixer) {
		if c.Validate() == nil {
			c.Layout = outputLayout(c.Channels, c.Layout)
			m.cfg = c
		}
	}
}
