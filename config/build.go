package config

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"

	"github.com/montage-av/montage"
	"github.com/montage-av/montage/node"
)

// Build constructs a composition from cfg: the canvas is created with the
// configured dimensions and background, then every declared node is
// instantiated and added in document order.
//
// Returns:
//   - *montage.Composition: the assembled composition
//   - error: canvas or node construction failure, or an unreadable source file
func Build(cfg *Config) (*montage.Composition, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Build",
		"width":    cfg.Canvas.Width,
		"height":   cfg.Canvas.Height,
		"nodes":    len(cfg.Nodes),
	}).Info("Building composition from config")

	opts := []montage.Option{}
	if cfg.Canvas.Background != "" {
		bg, err := ParseHexColor(cfg.Canvas.Background)
		if err != nil {
			return nil, fmt.Errorf("config: canvas background: %w", err)
		}
		opts = append(opts, montage.WithBackground(bg))
	}

	comp, err := montage.New(cfg.Canvas.Width, cfg.Canvas.Height, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: create composition: %w", err)
	}

	for i, nc := range cfg.Nodes {
		n, err := buildNode(nc)
		if err != nil {
			return nil, fmt.Errorf("config: nodes[%d]: %w", i, err)
		}
		comp.Add(n)
	}

	return comp, nil
}

func buildNode(nc NodeConfig) (node.Node, error) {
	switch nc.Kind {
	case KindSolid:
		c, err := ParseHexColor(nc.Color)
		if err != nil {
			return nil, err
		}
		return node.NewSolidColor(nc.Start, nc.End, videoConfig(nc), c)

	case KindStill:
		img, err := loadImage(nc.File)
		if err != nil {
			return nil, err
		}
		return node.NewStill(nc.Start, nc.End, videoConfig(nc), img)

	case KindTone:
		return node.NewTone(nc.Start, nc.End, audioConfig(nc), nc.Frequency, nc.Amplitude)

	case KindOpus:
		return node.NewOpusClip(nc.Start, nc.End, audioConfig(nc), nc.File)
	}
	return nil, fmt.Errorf("unknown kind %q", nc.Kind)
}

func videoConfig(nc NodeConfig) node.VideoConfig {
	return node.VideoConfig{
		X:      nc.X,
		Y:      nc.Y,
		Width:  nc.Width,
		Height: nc.Height,
	}
}

func audioConfig(nc NodeConfig) node.AudioConfig {
	return node.AudioConfig{
		SampleSize:  nc.SampleSize,
		SampleRate:  nc.SampleRate,
		Channels:    nc.Channels,
		OutputAudio: nc.Output,
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// ParseHexColor parses a "#rrggbb" or "#rrggbbaa" color string. Alpha
// defaults to opaque.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	if len(hex) == 8 {
		return color.RGBA{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: uint8(v),
		}, nil
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}
