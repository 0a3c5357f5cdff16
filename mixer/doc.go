// SPDX-License-Identifier: EPL-2.0

// Package mixer sums any number of independently clocked PCM producers into one
// output buffer.
//
// Each attached Producer is pulled on demand, resampled to the output rate by linear
// interpolation, remapped to the output channel layout and accumulated with
// saturating arithmetic. The result is encoded into the output sample format:
//
//	m := mixer.New(mixer.WithLogger(logger))
//	m.Attach(track)
//
//	buf := make([]byte, 1920)
//	for {
//	    n := m.Produce(buf, 0)
//	    // n == 0 right after a reconfiguration, call again
//	    sink.Write(buf[:n])
//	}
//
// # Reconfiguration
//
// Attaching a producer, or a producer reporting a new configuration, marks the
// mixer for reconfiguration. On the next Produce the output rate becomes the highest
// source rate, the output format the highest fidelity source format and the channel
// layout the union of the source layouts (unless ForceChannels pinned it). A Device
// bound with WithDevice may adjust that candidate. A Produce that changes the output
// configuration returns 0 bytes; callers read Config and retry.
//
// # Concurrency
//
// A single mutex guards the mixer. Every method takes it for its duration, so Attach
// and Detach may be called while another goroutine is inside Produce. Use Batch to
// group several calls atomically.
package mixer
