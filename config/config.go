// Package config provides the YAML composition document schema, loader and
// builder for the montage engine.
//
// A composition document declares the canvas, the timeline nodes and the
// recording settings:
//
//	canvas:
//	  width: 640
//	  height: 360
//	  background: "#000000"
//	nodes:
//	  - kind: solid
//	    start: 0
//	    end: 5
//	    x: 10
//	    y: 10
//	    width: 320
//	    height: 180
//	    color: "#ff0000"
//	  - kind: tone
//	    start: 0
//	    end: 5
//	    frequency: 440
//	    amplitude: 0.5
//	    sample_rate: 44100
//	    sample_size: 16
//	    channels: 2
//	    output: true
//	record:
//	  frame_rate: 24
//	  sample_rate: 44100
//	  image_format: png
//	  ffmpeg_options: ["-b:a", "128k"]
//
// Unknown fields are rejected so typos fail loudly at load time.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeKind names a node constructor in a composition document.
type NodeKind string

const (
	KindSolid NodeKind = "solid"
	KindStill NodeKind = "still"
	KindTone  NodeKind = "tone"
	KindOpus  NodeKind = "opus"
)

// IsValid reports whether k is a recognized node kind.
func (k NodeKind) IsValid() bool {
	switch k {
	case KindSolid, KindStill, KindTone, KindOpus:
		return true
	}
	return false
}

// Config is the root of a composition document.
type Config struct {
	Canvas CanvasConfig `yaml:"canvas"`
	Nodes  []NodeConfig `yaml:"nodes"`
	Record RecordConfig `yaml:"record"`
}

// CanvasConfig declares the compositing canvas.
type CanvasConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"` // hex color, e.g. "#000000"
}

// NodeConfig declares one timeline node. Fields beyond kind/start/end are
// interpreted per kind; unused fields for a kind must be left at zero.
type NodeConfig struct {
	Kind  NodeKind `yaml:"kind"`
	Start float64  `yaml:"start"`
	End   float64  `yaml:"end"`

	// Video placement (solid, still).
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color"` // solid fill, hex

	// Audio format (tone, opus).
	SampleRate int  `yaml:"sample_rate"`
	SampleSize int  `yaml:"sample_size"`
	Channels   int  `yaml:"channels"`
	Output     bool `yaml:"output"`

	// Generator parameters.
	Frequency float64 `yaml:"frequency"` // tone
	Amplitude float64 `yaml:"amplitude"` // tone

	// Source file (still, opus).
	File string `yaml:"file"`
}

// RecordConfig declares the output settings of a recording run.
type RecordConfig struct {
	FrameRate     int      `yaml:"frame_rate"`
	SampleRate    int      `yaml:"sample_rate"`
	Start         float64  `yaml:"start"`
	End           float64  `yaml:"end"` // zero means the composition duration
	ImageFormat   string   `yaml:"image_format"`
	FFmpegOptions []string `yaml:"ffmpeg_options"`
}

// Load reads the YAML composition document at path and returns a validated
// Config. It is a convenience wrapper around LoadFromReader.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML composition document from r and validates
// the result. Useful in tests where documents are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. Rates must
// be positive integers: fractional rates cannot be represented on the
// unified capture clock.
func Validate(cfg *Config) error {
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		return fmt.Errorf("config: canvas %dx%d is invalid", cfg.Canvas.Width, cfg.Canvas.Height)
	}

	for i, n := range cfg.Nodes {
		if !n.Kind.IsValid() {
			return fmt.Errorf("config: nodes[%d]: unknown kind %q", i, n.Kind)
		}
		switch n.Kind {
		case KindStill, KindOpus:
			if n.File == "" {
				return fmt.Errorf("config: nodes[%d]: kind %q requires a file", i, n.Kind)
			}
		case KindTone:
			if n.Frequency <= 0 {
				return fmt.Errorf("config: nodes[%d]: tone requires a positive frequency", i)
			}
		}
	}

	if cfg.Record.FrameRate <= 0 || cfg.Record.SampleRate <= 0 {
		return fmt.Errorf("config: record rates %d/%d must be positive integers",
			cfg.Record.FrameRate, cfg.Record.SampleRate)
	}

	return nil
}
