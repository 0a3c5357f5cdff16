// SPDX-License-Identifier: EPL-2.0

package track

import "github.com/ik5/audmix/audio"

type options struct {
	blockFrames int
	forced      audio.ChannelLayout
	muted       bool
	speed       float64
	gains       []float64
}

// Option configures a Track.
type Option func(*options)

// WithBlockFrames sets how many frames are read from the source at once.
func WithBlockFrames(n int) Option {
	return func(o *options) { o.blockFrames = n }
}

// WithForcedLayout starts the track with a forced channel layout.
func WithForcedLayout(l audio.ChannelLayout) Option {
	return func(o *options) { o.forced = l }
}

// WithMuted starts the track muted.
func WithMuted() Option {
	return func(o *options) { o.muted = true }
}

// WithSpeed sets the initial playback rate.
func WithSpeed(s float64) Option {
	return func(o *options) { o.speed = s }
}

// WithVolume sets the initial per-channel gains.
func WithVolume(gains ...float64) Option {
	return func(o *options) { o.gains = gains }
}
