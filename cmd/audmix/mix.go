// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/track"
)

var errNoOutput = errors.New("no output file given")

func mixCommand() *cli.Command {
	return &cli.Command{
		Name:      "mix",
		Usage:     "mix inputs into one WAV file",
		ArgsUsage: "input...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML mix description",
				Sources: cli.EnvVars("AUDMIX_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output WAV file",
			},
			&cli.IntFlag{Name: "rate", Usage: "output sample rate in Hz"},
			&cli.IntFlag{Name: "channels", Usage: "output channel count"},
			&cli.StringFlag{Name: "format", Usage: "output sample format (u8, s16, s24, s32, flt, dbl)"},
			&cli.DurationFlag{Name: "block", Usage: "output produced per cycle"},
			&cli.FloatFlag{Name: "max-speed", Usage: "fastest playback rate before a track is silenced"},
			&cli.BoolFlag{Name: "realtime", Usage: "pace the mix at playback speed"},
			&cli.IntFlag{Name: "max-idle", Usage: "stop after this many cycles without output"},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve Prometheus metrics on this address",
				Sources: cli.EnvVars("AUDMIX_METRICS_ADDR"),
			},
		},
		Action: runMix,
	}
}

// loadConfig reads the optional config file and applies the command line on top.
func loadConfig(c *cli.Command) (*config.Config, error) {
	conf, err := config.NewConfig("")
	if path := c.String("config"); path != "" {
		conf, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("out") {
		conf.Output.File = c.String("out")
	}
	if c.IsSet("rate") {
		conf.Output.SampleRate = c.Int("rate")
	}
	if c.IsSet("channels") {
		conf.Output.Channels = c.Int("channels")
	}
	if c.IsSet("format") {
		conf.Output.Format = c.String("format")
	}
	if c.IsSet("block") {
		conf.Block = c.Duration("block")
	}
	if c.IsSet("max-speed") {
		conf.MaxSpeed = c.Float("max-speed")
	}
	if c.IsSet("max-idle") {
		conf.MaxIdle = c.Int("max-idle")
	}
	if c.Bool("realtime") {
		conf.Realtime = true
	}
	for _, name := range c.Args().Slice() {
		conf.Tracks = append(conf.Tracks, config.Track{File: name})
	}

	if conf.Output.File == "" {
		return nil, errNoOutput
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func newLogger(verbose bool) logr.Logger {
	if verbose {
		stdr.SetVerbosity(2)
	}

	return stdr.New(log.New(os.Stderr, "", log.LstdFlags))
}

func runMix(ctx context.Context, c *cli.Command) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(c.Bool("verbose"))

	out, err := conf.MixerConfig()
	if err != nil {
		return err
	}

	opts := []mixer.Option{
		mixer.WithLogger(logger.WithName("mixer")),
		mixer.WithDevice(mixer.FixedDevice{Config: out}),
	}
	if conf.MaxSpeed > 0 {
		opts = append(opts, mixer.WithMaxSpeed(conf.MaxSpeed))
	}
	if addr := c.String("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, mixer.WithMetrics(mixer.NewMetrics(reg, "audmix")))

		srv := serveMetrics(addr, reg, logger)
		defer srv.Close()
	}

	m := mixer.New(opts...)
	defer m.Close()

	reg := audmix.DefaultRegistry()
	for _, t := range conf.Tracks {
		topts, err := t.Options()
		if err != nil {
			return err
		}
		tr, err := audmix.OpenTrack(reg, t.File, topts...)
		if err != nil {
			return err
		}
		defer closeTrack(tr, t.File, logger)

		if err := m.Attach(tr); err != nil {
			return err
		}
	}

	f, err := os.Create(conf.Output.File)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, out.SampleRate, out.Channels, out.Format)
	if err != nil {
		return err
	}

	mopts := []audmix.MixdownOption{
		audmix.WithBlockDuration(conf.Block),
		audmix.WithLogger(logger.WithName("mixdown")),
	}
	if conf.Realtime {
		mopts = append(mopts, audmix.WithRealtime())
	}
	if conf.MaxIdle > 0 {
		mopts = append(mopts, audmix.WithMaxIdle(conf.MaxIdle))
	}

	start := time.Now()
	n, err := audmix.Mixdown(ctx, m, w, mopts...)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("mix written", "file", conf.Output.File, "config", out.String(),
		"length", out.Duration(int(n)), "took", time.Since(start))

	return nil
}

func closeTrack(tr *track.Track, name string, logger logr.Logger) {
	if err := tr.Err(); err != nil {
		logger.Error(err, "track ended early", "file", name)
	}
	if err := tr.Close(); err != nil {
		logger.Error(err, "close track", "file", name)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger logr.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "metrics server", "addr", addr)
		}
	}()

	return srv
}
