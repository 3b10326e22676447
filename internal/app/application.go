// Package app wires configuration, the algorithm registry, frame sources,
// sinks and metrics into a sweep.
package app

import (
	"context"
	"fmt"
	"time"

	"bgs-showcase/internal/algorithms"
	"bgs-showcase/internal/config"
	"bgs-showcase/internal/display"
	"bgs-showcase/internal/metrics"
	"bgs-showcase/internal/pipeline"
	"bgs-showcase/internal/shutdown"
	"bgs-showcase/internal/source"
)

const (
	AppName    = "BGS Showcase"
	AppVersion = "1.0.0"
)

// SinkCloser is a sink that owns native resources.
type SinkCloser interface {
	pipeline.Sink
	Close() error
}

// Viewer is a sink with its own event loop, which must own the main
// goroutine while the sweep runs elsewhere.
type Viewer interface {
	pipeline.Sink
	Run(onClose func())
	Quit()
}

// Toolkit is everything the application needs from the vision library.
// Keeping it injectable lets the wiring be exercised without OpenCV.
type Toolkit struct {
	Version    func() string
	Providers  algorithms.Providers
	OpenVideo  source.CaptureOpener
	ReadImage  source.Decoder
	WriteImage display.ImageWriter
	NewWindows func(inputTitle string, keyDelay time.Duration, log pipeline.Logger) SinkCloser
	NewViewer  func(title, inputTitle string, log pipeline.Logger) Viewer
}

type Application struct {
	cfg       *config.Config
	kit       Toolkit
	logger    pipeline.Logger
	shutdown  *shutdown.Manager
	collector *metrics.Collector
}

func NewApplication(ctx context.Context, cfg *config.Config, kit Toolkit, log pipeline.Logger) *Application {
	return &Application{
		cfg:       cfg,
		kit:       kit,
		logger:    log,
		shutdown:  shutdown.NewManager(ctx, log),
		collector: metrics.NewCollector(),
	}
}

// ToolkitVersion is the configured override, or the version of the linked
// library.
func (a *Application) ToolkitVersion() string {
	if a.cfg.ToolkitVersion != "" {
		return a.cfg.ToolkitVersion
	}
	return a.kit.Version()
}

// Descriptors resolves the algorithm list for the toolkit version, narrowed
// to the configured subset.
func (a *Application) Descriptors() ([]algorithms.Descriptor, error) {
	v := a.ToolkitVersion()
	all, err := algorithms.Available(v, a.kit.Providers)
	if err != nil {
		return nil, err
	}

	selected := algorithms.Filter(all, a.cfg.Only)
	if len(a.cfg.Only) > 0 && len(selected) < len(a.cfg.Only) {
		a.logger.Warning("Application", "some requested algorithms are not available for this toolkit version", map[string]interface{}{
			"requested": a.cfg.Only,
			"selected":  algorithms.Names(selected),
			"version":   v,
		})
	}
	return selected, nil
}

func (a *Application) inputTitle() string {
	if a.cfg.Mode == config.ModeImage {
		return display.TitleImage
	}
	return display.TitleVideo
}

// SourceFactory opens the configured video file or image directory for
// every run.
func (a *Application) SourceFactory() (pipeline.SourceFactory, error) {
	switch a.cfg.Mode {
	case config.ModeVideo:
		return source.VideoFactory(a.cfg.Video, a.kit.OpenVideo), nil
	case config.ModeImage:
		open, n, err := source.ImageSequenceFactory(a.cfg.Frames.Dir, a.cfg.Frames.Pattern, a.kit.ReadImage)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			a.logger.Warning("Application", "no images found", map[string]interface{}{
				"dir":     a.cfg.Frames.Dir,
				"pattern": a.cfg.Frames.Pattern,
			})
		}
		return open, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", a.cfg.Mode)
	}
}

// Sink builds the configured non-interactive or window sink. The viewer is
// handled by Run since it needs the main goroutine.
func (a *Application) Sink() (pipeline.Sink, error) {
	switch a.cfg.Display.Kind {
	case config.DisplayWindow:
		w := a.kit.NewWindows(a.inputTitle(), a.cfg.Display.KeyDelay, a.logger)
		a.shutdown.Register("windows", shutdown.Closer("windows", w.Close, a.logger))
		return w, nil
	case config.DisplayRecord:
		return display.NewRecorder(a.cfg.Display.RecordDir, a.kit.WriteImage, a.logger), nil
	case config.DisplayNone:
		return display.Discard{}, nil
	default:
		return nil, fmt.Errorf("display %q has no plain sink", a.cfg.Display.Kind)
	}
}

func (a *Application) Collector() *metrics.Collector {
	return a.collector
}

// Context is cancelled by SIGINT/SIGTERM, by closing the viewer, or once Run
// returns.
func (a *Application) Context() context.Context {
	return a.shutdown.Context()
}
