// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"

	"github.com/ik5/audmix/mixer"
)

// Mixdown pulls mixed output from m a block at a time and writes it to w, the way
// a playback callback would. It stops when every producer reached its end, when
// nothing is attached, or after too many idle cycles, and returns the number of
// bytes written.
//
// The bytes follow m.Config(), which may change while sources come and go. Bind
// a mixer.Device to m when w expects a fixed format.
func Mixdown(ctx context.Context, m *mixer.Mixer, w io.Writer, opts ...MixdownOption) (int64, error) {
	o := mixdownOptions{
		block:   DefaultBlockDuration,
		maxIdle: DefaultMaxIdle,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.block <= 0 {
		o.block = DefaultBlockDuration
	}

	var latency time.Duration
	var tick <-chan time.Time
	if o.realtime {
		ticker := time.NewTicker(o.block)
		defer ticker.Stop()
		tick = ticker.C
		latency = o.block
	}

	var (
		buf   []byte
		total int64
		idle  int
	)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if m.Empty() {
			o.log.V(1).Info("mixdown finished", "reason", "empty", "bytes", total)
			return total, nil
		}

		size := max(m.Config().BytesFor(o.block), m.BlockAlign())
		if cap(buf) < size {
			buf = make([]byte, size)
		}
		buf = buf[:size]

		n := m.Produce(buf, latency)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return total, fmt.Errorf("mixdown write: %w", err)
			}
			total += int64(n)
		}

		if m.AllEOS() {
			o.log.V(1).Info("mixdown finished", "reason", "end of stream", "bytes", total)
			return total, nil
		}

		switch {
		case n > 0, m.Buffering():
			idle = 0
		default:
			idle++
		}
		if o.maxIdle > 0 && idle >= o.maxIdle {
			o.log.V(1).Info("mixdown finished", "reason", "idle", "cycles", idle, "bytes", total)
			return total, nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-tick:
			}
		}
	}
}
