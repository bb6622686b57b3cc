// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Quadcount polls an LS7366R quadrature counter on a spidev bus and
// emits one sample line per interval, with the count rate derived from
// consecutive samples.
//
// Usage:
//
//	quadcount [-bus n] [-chip n] [-speed hz] [-bits n] [-quad n] [-interval d] [-v]
//
// Samples and metrics are printed to standard output in logfmt. The
// command runs until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/event"
	"golang.org/x/exp/event/adapter/logfmt"
	elogrus "golang.org/x/exp/event/adapter/logrus"

	"github.com/quadrature-io/ls7366r"
	"github.com/quadrature-io/ls7366r/spi"
)

var (
	bus      = flag.Int("bus", 0, "SPI bus number")
	chip     = flag.Int("chip", 0, "SPI chip select")
	speed    = flag.Int("speed", 1000000, "maximum SPI clock in Hz")
	bits     = flag.Int("bits", 32, "counter width in bits: 8, 16, 24 or 32")
	quad     = flag.Int("quad", 4, "quadrature multiplier: 0, 1, 2 or 4")
	interval = flag.Duration("interval", 500*time.Millisecond, "time between samples")
	verbose  = flag.Bool("v", false, "log every read at debug level")
)

var (
	samples   = event.NewCounter("samples", &event.MetricOptions{Description: "counter samples taken"})
	busErrors = event.NewCounter("bus_errors", &event.MetricOptions{Description: "failed counter reads"})
	readTime  = event.NewDuration("read_latency", &event.MetricOptions{Description: "time spent reading the counter"})
	position  = event.NewFloatGauge("position", &event.MetricOptions{Description: "last sampled count"})
)

// printer exports every event to a writer, one logfmt line each.
type printer struct {
	to io.Writer
	p  logfmt.Printer
}

func (h *printer) Event(ctx context.Context, ev *event.Event) context.Context {
	h.p.Event(h.to, ev)
	return ctx
}

func main() {
	flag.Parse()

	ctx := event.WithExporter(context.Background(), event.NewExporter(&printer{to: os.Stdout}, nil))

	logrus.SetFormatter(elogrus.NewFormatter())
	logrus.SetOutput(io.Discard)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.WithContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, err := spi.Open(&spi.DevFS{}, *bus, *chip, spi.Mode0, *speed)
	if err != nil {
		log.WithError(err).Fatal("opening SPI device")
	}
	defer dev.Close()

	enc := ls7366r.New(dev)
	if err := setup(enc); err != nil {
		log.WithError(err).Fatal("configuring counter")
	}
	log.WithField("device", fmt.Sprintf("/dev/spidev%d.%d", *bus, *chip)).
		WithField("bits", *bits).
		WithField("quad", *quad).
		Info("counting")

	run(ctx, enc)
	log.Info("stopped")
}

// setup brings the chip from its power-up state to the requested
// configuration.
func setup(enc *ls7366r.Device) error {
	if err := enc.Init(); err != nil {
		return err
	}
	if err := enc.SetBits(*bits); err != nil {
		return err
	}
	return enc.SetQuadrature(*quad)
}

// run samples the counter until ctx is canceled. Failed reads are
// counted and logged, not fatal: transient bus noise should not bring
// the sampler down.
func run(ctx context.Context, enc *ls7366r.Device) {
	tick := time.NewTicker(*interval)
	defer tick.Stop()

	var (
		last   int32
		lastAt time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			start := time.Now()
			counts, err := enc.Counts()
			readTime.Record(ctx, time.Since(start))
			if err != nil {
				busErrors.Record(ctx, 1)
				logrus.WithContext(ctx).WithError(err).Warn("counter read failed")
				continue
			}
			samples.Record(ctx, 1)
			position.Record(ctx, float64(counts))
			logrus.WithContext(ctx).WithField("counts", counts).Debug("read")

			labels := []event.Label{event.Int64("counts", int64(counts))}
			if !lastAt.IsZero() {
				rate := float64(counts-last) / now.Sub(lastAt).Seconds()
				labels = append(labels, event.Float64("rate", rate))
			}
			event.Log(ctx, "sample", labels...)
			last, lastAt = counts, now
		}
	}
}
