// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/track"
)

func writeWAV(t *testing.T, name string, rate, channels int, data []byte) {
	t.Helper()

	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()

	w, err := wav.NewWriter(f, rate, channels, audio.FormatS16)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestDefaultRegistry(t *testing.T) {
	require.Equal(t, []string{"aif", "aiff", "mp3", "oga", "ogg", "wav", "wave"}, audmix.DefaultRegistry().Keys())
}

func TestOpenTrack(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tone.WAV")
	data := audiotest.Tone(audio.FormatS16, 16000, 1, 1600, 440, 0.5)
	writeWAV(t, name, 16000, 1, data)

	tr, err := audmix.OpenTrack(audmix.DefaultRegistry(), name, track.WithVolume(0.5))
	require.NoError(t, err)
	defer tr.Close()

	cfg, ok := tr.Config(false)
	require.True(t, ok)
	require.Equal(t, 16000, cfg.SampleRate)
	require.Equal(t, 1, cfg.Channels)

	got, _, ok := tr.FetchFrame(0)
	require.True(t, ok)
	require.Equal(t, data[:len(got)], got)
}

func TestOpenTrack_Errors(t *testing.T) {
	dir := t.TempDir()
	reg := audmix.DefaultRegistry()

	_, err := audmix.OpenTrack(reg, filepath.Join(dir, "song.flac"))
	require.ErrorIs(t, err, audio.ErrNoDecoder)

	_, err = audmix.OpenTrack(reg, filepath.Join(dir, "missing.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bogus := filepath.Join(dir, "bogus.wav")
	require.NoError(t, os.WriteFile(bogus, []byte("not a wav file at all"), 0o600))
	_, err = audmix.OpenTrack(reg, bogus)
	require.ErrorIs(t, err, wav.ErrNotWavFile)
}
