// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"time"

	"github.com/go-logr/logr"
)

const (
	// DefaultBlockDuration is the amount of output produced per cycle.
	DefaultBlockDuration = 10 * time.Millisecond
	// DefaultMaxIdle is the number of silent cycles Mixdown tolerates.
	DefaultMaxIdle = 100
)

type mixdownOptions struct {
	block    time.Duration
	maxIdle  int
	realtime bool
	log      logr.Logger
}

// MixdownOption configures Mixdown.
type MixdownOption func(*mixdownOptions)

// WithBlockDuration sets how much output each cycle produces.
func WithBlockDuration(d time.Duration) MixdownOption {
	return func(o *mixdownOptions) { o.block = d }
}

// WithMaxIdle stops Mixdown after n consecutive cycles that produced nothing
// while no producer was buffering. 0 never stops on idle.
func WithMaxIdle(n int) MixdownOption {
	return func(o *mixdownOptions) { o.maxIdle = n }
}

// WithRealtime paces cycles at the block duration instead of running as fast
// as the producers allow.
func WithRealtime() MixdownOption {
	return func(o *mixdownOptions) { o.realtime = true }
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l logr.Logger) MixdownOption {
	return func(o *mixdownOptions) { o.log = l }
}
