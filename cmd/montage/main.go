// Command montage renders YAML composition documents to video files or
// single-frame screenshots using an external ffmpeg-compatible encoder.
//
// Usage:
//
//	montage record -config composition.yaml -out movie.mp4
//	montage screenshot -config composition.yaml -at 2.5 -out frame.png
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/montage-av/montage"
	"github.com/montage-av/montage/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return 2
	}

	switch args[0] {
	case "record":
		return runRecord(args[1:])
	case "screenshot":
		return runScreenshot(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "montage: unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: montage <record|screenshot> [flags]")
}

func runRecord(args []string) int {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	configPath := fs.String("config", "composition.yaml", "path to the YAML composition document")
	outPath := fs.String("out", "", "destination file; its extension names the container format")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Parse(args)

	setupLogging(*verbose)

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "montage record: -out is required")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Error("Failed to load composition document")
		return 1
	}

	comp, err := config.Build(cfg)
	if err != nil {
		logrus.WithError(err).Error("Failed to build composition")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := &montage.RecordOptions{
		Start:       cfg.Record.Start,
		End:         cfg.Record.End,
		ImageFormat: cfg.Record.ImageFormat,
		Options:     cfg.Record.FFmpegOptions,
	}
	if err := comp.Record(ctx, *outPath, cfg.Record.FrameRate, cfg.Record.SampleRate, opts); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "runRecord",
			"path":     *outPath,
			"error":    err,
		}).Error("Recording failed")
		return 1
	}

	logrus.WithFields(logrus.Fields{
		"function": "runRecord",
		"path":     *outPath,
	}).Info("Recording complete")
	return 0
}

func runScreenshot(args []string) int {
	fs := flag.NewFlagSet("screenshot", flag.ExitOnError)
	configPath := fs.String("config", "composition.yaml", "path to the YAML composition document")
	outPath := fs.String("out", "", "destination image file (.png or .bmp)")
	at := fs.Float64("at", 0, "timeline instant to capture, in seconds")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Parse(args)

	setupLogging(*verbose)

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "montage screenshot: -out is required")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Error("Failed to load composition document")
		return 1
	}

	comp, err := config.Build(cfg)
	if err != nil {
		logrus.WithError(err).Error("Failed to build composition")
		return 1
	}

	if err := comp.Screenshot(*at, *outPath); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "runScreenshot",
			"path":     *outPath,
			"at":       *at,
			"error":    err,
		}).Error("Screenshot failed")
		return 1
	}

	logrus.WithFields(logrus.Fields{
		"function": "runScreenshot",
		"path":     *outPath,
		"at":       *at,
	}).Info("Screenshot written")
	return 0
}

func setupLogging(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
