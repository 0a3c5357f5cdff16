// SPDX-License-Identifier: EPL-2.0

// Package config reads the YAML mix description used by the audmix command.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/track"
)

// Config describes one mix.
type Config struct {
	Output   Output        `yaml:"output"`
	Block    time.Duration `yaml:"block"`     // default 10ms
	MaxSpeed float64       `yaml:"max_speed"` // 0 keeps the mixer default
	Realtime bool          `yaml:"realtime"`
	MaxIdle  int           `yaml:"max_idle"`
	Tracks   []Track       `yaml:"tracks"`
}

// Output is the output configuration. Zero fields keep the mixer defaults.
type Output struct {
	File       string `yaml:"file"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	Format     string `yaml:"format"` // sample format name, e.g. s16 or flt
}

// Track is one input of the mix.
type Track struct {
	File   string    `yaml:"file"`
	Volume []float64 `yaml:"volume"` // one value for every channel, or one per channel
	Muted  bool      `yaml:"muted"`
	Speed  *float64  `yaml:"speed"`  // default 1
	Layout string    `yaml:"layout"` // forced layout, e.g. "FC" or "stereo"
	Block  int       `yaml:"block_frames"`
}

// NewConfig parses a YAML body. An empty body gives the defaults.
func NewConfig(body string) (*Config, error) {
	conf := &Config{
		Block: 10 * time.Millisecond,
	}
	if body != "" {
		if err := yaml.Unmarshal([]byte(body), conf); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCouldNotParseConfig, err)
		}
	}

	return conf, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return NewConfig(string(body))
}

// Validate checks that the mix can run.
func (c *Config) Validate() error {
	if len(c.Tracks) == 0 {
		return ErrNoTracks
	}
	if _, err := c.MixerConfig(); err != nil {
		return err
	}
	for i, t := range c.Tracks {
		if _, err := t.Options(); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
	}

	return nil
}

// MixerConfig returns the output configuration, filling unset fields from
// mixer.DefaultConfig.
func (c *Config) MixerConfig() (mixer.Config, error) {
	out := mixer.DefaultConfig()
	if c.Output.SampleRate != 0 {
		out.SampleRate = c.Output.SampleRate
	}
	if c.Output.Channels != 0 {
		out.Channels = c.Output.Channels
		out.Layout = audio.DefaultLayout(out.Channels)
	}
	if c.Output.Format != "" {
		f, err := audio.ParseSampleFormat(c.Output.Format)
		if err != nil {
			return mixer.Config{}, err
		}
		out.Format = f
	}

	if err := out.Validate(); err != nil {
		return mixer.Config{}, err
	}

	return out, nil
}

// Options converts the track settings to track options.
func (t Track) Options() ([]track.Option, error) {
	if t.File == "" {
		return nil, fmt.Errorf("%w: no file", ErrInvalidTrack)
	}

	var opts []track.Option
	if len(t.Volume) > 0 {
		for _, v := range t.Volume {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative volume %g", ErrInvalidTrack, v)
			}
		}
		opts = append(opts, track.WithVolume(t.Volume...))
	}
	if t.Muted {
		opts = append(opts, track.WithMuted())
	}
	if t.Speed != nil {
		if *t.Speed < 0 {
			return nil, fmt.Errorf("%w: negative speed %g", ErrInvalidTrack, *t.Speed)
		}
		opts = append(opts, track.WithSpeed(*t.Speed))
	}
	if t.Layout != "" {
		l, err := audio.ParseChannelLayout(t.Layout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTrack, err)
		}
		opts = append(opts, track.WithForcedLayout(l))
	}
	if t.Block > 0 {
		opts = append(opts, track.WithBlockFrames(t.Block))
	}

	return opts, nil
}
