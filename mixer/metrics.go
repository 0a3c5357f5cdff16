// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Mixer reports to. A nil *Metrics
// records nothing.
type Metrics struct {
	produceCalls    prometheus.Counter
	bytesProduced   prometheus.Counter
	fastPathBytes   prometheus.Counter
	reconfigs       prometheus.Counter
	silencedFrames  prometheus.Counter
	bufferingCycles prometheus.Counter
	sources         prometheus.Gauge
}

// NewMetrics creates the mixer collectors under namespace and registers them with
// reg. Collectors already registered by another Metrics are reused. reg may be nil.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{}

	m.produceCalls = mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "produce_calls_total",
		Help:      "Number of output buffers requested",
	}))
	m.bytesProduced = mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "produced_bytes_total",
		Help:      "Bytes written to output buffers",
	}))
	m.fastPathBytes = mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "fast_path_bytes_total",
		Help:      "Bytes copied directly from a single source matching the output",
	}))
	m.reconfigs = mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "reconfigurations_total",
		Help:      "Reconfiguration passes that changed the output configuration",
	}))
	m.silencedFrames = mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "silenced_frames_total",
		Help:      "Frames replaced by silence because a source exceeded the speed ceiling",
	}))
	m.bufferingCycles = mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "buffering_cycles_total",
		Help:      "Produce calls during which at least one source was buffering",
	}))
	m.sources = mustRegister(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "mixer",
		Name:      "sources",
		Help:      "Number of attached sources",
	}))

	return m
}

func mustRegister[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	err := reg.Register(c)
	if err != nil {
		var e prometheus.AlreadyRegisteredError
		if errors.As(err, &e) {
			return e.ExistingCollector.(T)
		}
		panic(err)
	}

	return c
}

func (m *Metrics) produced(n, fast int) {
	if m == nil {
		return
	}
	m.produceCalls.Inc()
	m.bytesProduced.Add(float64(n))
	m.fastPathBytes.Add(float64(fast))
}

func (m *Metrics) reconfigured() {
	if m == nil {
		return
	}
	m.reconfigs.Inc()
}

func (m *Metrics) silenced(frames int) {
	if m == nil || frames == 0 {
		return
	}
	m.silencedFrames.Add(float64(frames))
}

func (m *Metrics) buffering() {
	if m == nil {
		return
	}
	m.bufferingCycles.Inc()
}

func (m *Metrics) setSources(n int) {
	if m == nil {
		return
	}
	m.sources.Set(float64(n))
}
