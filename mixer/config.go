// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"time"

	"github.com/ik5/audmix/audio"
)

// Config is an output configuration.
type Config struct {
	SampleRate int
	Channels   int
	Format     audio.SampleFormat
	Layout     audio.ChannelLayout
}

// DefaultConfig is the configuration of a new Mixer: 44.1 kHz stereo 16-bit.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   2,
		Format:     audio.FormatS16,
		Layout:     audio.LayoutStereo,
	}
}

// Validate reports why c cannot be used as an output configuration. Errors wrap
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrZeroSampleRate)
	case c.Channels > audio.MaxChannels:
		return fmt.Errorf("%w: %w: %d > %d", ErrInvalidConfig, ErrTooManyChannels, c.Channels, audio.MaxChannels)
	case c.Channels <= 0:
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, audio.ErrInvalidChannels, c.Channels)
	case !c.Format.Valid():
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, audio.ErrUnknownFormat, c.Format)
	}

	return nil
}

// BlockAlign is the size in bytes of one output frame.
func (c Config) BlockAlign() int { return c.Channels * c.Format.BytesPerSample() }

// BytesFor returns the whole-frame byte count covering d of output.
func (c Config) BytesFor(d time.Duration) int {
	frames := int(int64(c.SampleRate) * int64(d) / int64(time.Second))
	return frames * c.BlockAlign()
}

// Duration returns the play time of n output bytes.
func (c Config) Duration(n int) time.Duration {
	ba := c.BlockAlign()
	if ba == 0 || c.SampleRate <= 0 {
		return 0
	}

	return time.Duration(int64(n/ba) * int64(time.Second) / int64(c.SampleRate))
}

func (c Config) String() string {
	return fmt.Sprintf("%dHz/%dch/%s/%s", c.SampleRate, c.Channels, c.Format, c.Layout)
}

// outputLayout derives the layout the mixer uses for a channel count: mono and
// stereo are fixed, wider outputs keep the requested layout.
func outputLayout(channels int, requested audio.ChannelLayout) audio.ChannelLayout {
	switch {
	case channels == 1:
		return audio.LayoutMono
	case channels == 2:
		return audio.LayoutStereo
	case requested != 0:
		return requested
	}

	return audio.DefaultLayout(channels)
}
