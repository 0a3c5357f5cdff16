// SPDX-License-Identifier: EPL-2.0

// Package audmix mixes several audio streams into one, in real time or as fast as
// the inputs can be decoded.
//
// The work is split across subpackages:
//   - audio: sample formats, channel layouts, the sample codec and the Source and
//     Decoder interfaces
//   - mixer: the mixing engine; producers are pulled, converted to a common output
//     configuration, resampled and summed with saturation
//   - track: adapts an audio.Source to the mixer's Producer contract and adds
//     volume, mute, speed and forced layouts
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders, plus a
//     WAV writer
//
// This package ties them together: DefaultRegistry knows every bundled decoder,
// OpenTrack turns a file name into a Track, and Mixdown drives a Mixer the way a
// sound card callback would.
//
// # Quick Start
//
//	reg := audmix.DefaultRegistry()
//	voice, _ := audmix.OpenTrack(reg, "voice.wav", track.WithVolume(1.2))
//	music, _ := audmix.OpenTrack(reg, "music.mp3", track.WithVolume(0.4))
//	defer voice.Close()
//	defer music.Close()
//
//	out := mixer.Config{SampleRate: 48000, Channels: 2, Format: audio.FormatS16}
//	m := mixer.New(mixer.WithDevice(mixer.FixedDevice{Config: out}))
//	m.Attach(voice)
//	m.Attach(music)
//
//	f, _ := os.Create("mix.wav")
//	w, _ := wav.NewWriter(f, out.SampleRate, out.Channels, out.Format)
//	audmix.Mixdown(ctx, m, w)
//	w.Close()
//
// # Pacing
//
// By default Mixdown runs as fast as possible. WithRealtime paces it at the block
// duration, which is what a live sink needs; the latency handed to producers is
// then one block.
package audmix
