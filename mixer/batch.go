// SPDX-License-Identifier: EPL-2.0

package mixer

// Batch exposes the mixer operations to a function running under Mixer.Batch.
type Batch struct {
	m *Mixer
}

func (b *Batch) Attach(p Producer) error { return b.m.attach(p) }

func (b *Batch) Detach(p Producer) { b.m.detach(p) }

func (b *Batch) Has(p Producer) bool { return b.m.index(p) >= 0 }

func (b *Batch) Count() int { return len(b.m.slots) }

func (b *Batch) ForceChannels(n int) error { return b.m.forceChannels(n) }

func (b *Batch) SetMaxSpeed(s float64) { b.m.maxSpeed = s }

func (b *Batch) Config() Config { return b.m.cfg }

func (b *Batch) SetConfig(c Config) error { return b.m.setConfig(c) }
