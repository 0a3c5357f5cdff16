// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"time"

	"github.com/ik5/audmix/audio"
)

// SourceConfig is what a Producer reports about the bytes it delivers.
type SourceConfig struct {
	SampleRate int
	Channels   int
	Format     audio.SampleFormat
	Layout     audio.ChannelLayout
	// Forced marks Layout as authoritative: no gain/pan and no guessing of positions.
	Forced bool
}

func (c SourceConfig) valid() bool {
	return c.SampleRate > 0 && c.Channels > 0 && c.Channels <= audio.MaxChannels
}

// Producer is a pull-based PCM source. The mixer calls it from the goroutine that
// runs Produce.
type Producer interface {
	// FetchFrame returns the pending bytes. For planar formats planarStride is the
	// distance in bytes between two channel planes, 0 meaning len(data)/channels.
	// ok is false when no data is available; IsEOS and IsBuffering tell why.
	// delay is the output latency ahead of the first sample the mixer will use.
	FetchFrame(delay time.Duration) (data []byte, planarStride int, ok bool)
	// ReleaseFrame is called exactly once after every successful FetchFrame with
	// the number of bytes consumed.
	ReleaseFrame(n int)
	// Config reports the current configuration. ok false means the producer is
	// reconfiguring and must be skipped.
	Config(forceRefresh bool) (cfg SourceConfig, ok bool)
	// Speed is the playback rate, 1 being normal. Its sign is ignored.
	Speed() float64
	// ChannelVolume fills gains, one per source channel, and reports whether
	// any of them is not 1.
	ChannelVolume(gains []float64) bool
	IsMuted() bool
	IsBuffering() bool
	IsEOS() bool
}
