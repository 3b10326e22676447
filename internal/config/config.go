// Package config holds the runtime settings of the demo commands. Values are
// layered: defaults, then an optional YAML file, then the environment; the
// commands apply their flags last.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bgs-showcase/internal/logger"
	"bgs-showcase/internal/version"
)

const (
	ModeVideo = "video"
	ModeImage = "image"

	DisplayWindow = "window"
	DisplayViewer = "viewer"
	DisplayRecord = "record"
	DisplayNone   = "none"
)

type Config struct {
	Mode           string        `yaml:"mode"`
	Video          string        `yaml:"video"`
	Frames         FramesConfig  `yaml:"frames"`
	Acquire        AcquireConfig `yaml:"acquire"`
	Display        DisplayConfig `yaml:"display"`
	ToolkitVersion string        `yaml:"toolkit_version"` // overrides the linked OpenCV version
	Only           []string      `yaml:"only"`            // restrict the sweep to these algorithms
	MetricsAddr    string        `yaml:"metrics_addr"`    // empty disables the metrics server
	LogLevel       string        `yaml:"log_level"`
}

type FramesConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
}

type AcquireConfig struct {
	RetryDelay  time.Duration `yaml:"retry_delay"`
	MaxAttempts int           `yaml:"max_attempts"` // 0 waits forever
}

type DisplayConfig struct {
	Kind      string        `yaml:"kind"`
	KeyDelay  time.Duration `yaml:"key_delay"`
	RecordDir string        `yaml:"record_dir"`
}

func Default() *Config {
	return &Config{
		Mode:  ModeVideo,
		Video: "dataset/video.avi",
		Frames: FramesConfig{
			Dir:     "dataset/frames",
			Pattern: "*.png",
		},
		Acquire: AcquireConfig{
			RetryDelay: time.Second,
		},
		Display: DisplayConfig{
			Kind:      DisplayWindow,
			KeyDelay:  10 * time.Millisecond,
			RecordDir: "output",
		},
		LogLevel: "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path and then the
// process environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays the BGS_* variables, LOG_LEVEL and DEBUG. DEBUG=1 only
// raises the level when LOG_LEVEL is unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("BGS_VIDEO", &c.Video)
	str("BGS_FRAMES_DIR", &c.Frames.Dir)
	str("BGS_MODE", &c.Mode)
	str("BGS_DISPLAY", &c.Display.Kind)
	str("BGS_TOOLKIT_VERSION", &c.ToolkitVersion)
	str("BGS_METRICS_ADDR", &c.MetricsAddr)

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	} else if v, ok := lookup("DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG=%q: %w", v, err)
		}
		if debug {
			c.LogLevel = "debug"
		}
	}
	return nil
}

// SetOnly parses a comma separated algorithm list, as given on the command
// line.
func (c *Config) SetOnly(list string) {
	c.Only = nil
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			c.Only = append(c.Only, name)
		}
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeVideo:
		if c.Video == "" {
			errs = append(errs, errors.New("video path is empty"))
		}
	case ModeImage:
		if c.Frames.Dir == "" {
			errs = append(errs, errors.New("frames dir is empty"))
		}
		if c.Frames.Pattern == "" {
			errs = append(errs, errors.New("frames pattern is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeVideo, ModeImage))
	}

	switch c.Display.Kind {
	case DisplayWindow, DisplayViewer, DisplayNone:
	case DisplayRecord:
		if c.Display.RecordDir == "" {
			errs = append(errs, errors.New("record dir is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown display %q", c.Display.Kind))
	}

	if c.Acquire.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("negative retry delay %s", c.Acquire.RetryDelay))
	}
	if c.Acquire.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("negative max attempts %d", c.Acquire.MaxAttempts))
	}
	if c.Display.KeyDelay < 0 {
		errs = append(errs, fmt.Errorf("negative key delay %s", c.Display.KeyDelay))
	}

	if c.ToolkitVersion != "" {
		if _, err := version.Parse(c.ToolkitVersion); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
