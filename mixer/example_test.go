// SPDX-License-Identifier: EPL-2.0

package mixer_test

import (
	"fmt"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/mixer"
)

func Example() {
	dev := mixer.FixedDevice{Config: mixer.Config{SampleRate: 48000, Channels: 2, Format: audio.FormatS16}}
	m := mixer.New(mixer.WithDevice(dev))
	defer m.Close()

	voice := audiotest.NewMockProducer(
		mixer.SourceConfig{SampleRate: 16000, Channels: 1, Format: audio.FormatS16},
		audiotest.Tone(audio.FormatS16, 16000, 1, 16000, 300, 0.5),
	)
	music := audiotest.NewMockProducer(
		mixer.SourceConfig{SampleRate: 44100, Channels: 2, Format: audio.FormatFLT},
		audiotest.Tone(audio.FormatFLT, 44100, 2, 44100, 440, 0.3),
	)
	_ = m.Attach(voice)
	_ = m.Attach(music)

	// The first call picks the output configuration and produces nothing.
	buf := make([]byte, dev.Config.BytesFor(20*time.Millisecond))
	fmt.Println(m.Produce(buf, 0))
	fmt.Println(m.Config())

	fmt.Println(m.Produce(buf, 0))

	// Output:
	// 0
	// 48000Hz/2ch/s16/FL+FR
	// 3840
}

func ExampleMixer_Batch() {
	m := mixer.New()

	a := audiotest.NewMockProducer(mixer.SourceConfig{SampleRate: 8000, Channels: 1, Format: audio.FormatU8}, nil)
	b := audiotest.NewMockProducer(mixer.SourceConfig{SampleRate: 22050, Channels: 1, Format: audio.FormatS16}, nil)

	m.Batch(func(bt *mixer.Batch) {
		_ = bt.Attach(a)
		_ = bt.Attach(b)
		_ = bt.ForceChannels(2)
	})

	m.Reconfigure()
	fmt.Println(m.Count(), m.Config())

	// Output:
	// 2 22050Hz/2ch/s16/FL+FR
}
