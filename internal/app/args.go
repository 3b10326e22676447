package app

import (
	"flag"
	"fmt"
	"io"

	"bgs-showcase/internal/config"
)

// ParseDemoArgs builds the bgs-demo configuration from its command line:
// an optional "image" argument, placed before or after the flags, plus
// flags that override the config file and the environment.
func ParseDemoArgs(name string, args []string, output io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	configPath := fs.String("config", "", "YAML config file")
	mode := fs.String("mode", "", "input mode: video or image")
	video := fs.String("video", "", "video file (video mode)")
	framesDir := fs.String("frames", "", "image directory (image mode)")
	displayKind := fs.String("display", "", "sink: window, viewer, record or none")
	recordDir := fs.String("record-dir", "", "output directory for -display record")
	only := fs.String("only", "", "comma separated algorithms to run")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	toolkitVersion := fs.String("toolkit-version", "", "pretend to link this OpenCV version")
	maxAttempts := fs.Int("max-attempts", -1, "give up opening the input after this many attempts (0 waits forever)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [image] [flags]\n", name)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// flag stops at the first positional argument, so flags after "image"
	// need a second pass.
	imageMode := false
	if fs.NArg() > 0 {
		if fs.Arg(0) != config.ModeImage {
			fs.Usage()
			return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
		imageMode = true
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return nil, err
		}
		if fs.NArg() > 0 {
			fs.Usage()
			return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	if imageMode {
		cfg.Mode = config.ModeImage
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Mode, *mode)
	set(&cfg.Video, *video)
	set(&cfg.Frames.Dir, *framesDir)
	set(&cfg.Display.Kind, *displayKind)
	set(&cfg.Display.RecordDir, *recordDir)
	set(&cfg.MetricsAddr, *metricsAddr)
	set(&cfg.ToolkitVersion, *toolkitVersion)
	if *only != "" {
		cfg.SetOnly(*only)
	}
	if *maxAttempts >= 0 {
		cfg.Acquire.MaxAttempts = *maxAttempts
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
