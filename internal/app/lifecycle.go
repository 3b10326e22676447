package app

import (
	"bgs-showcase/internal/algorithms"
	"bgs-showcase/internal/config"
	"bgs-showcase/internal/metrics"
	"bgs-showcase/internal/pipeline"
)

// Run sweeps every selected algorithm over the configured input and tears
// everything down before returning. Only setup failures are returned as
// errors; per-run failures are in the report.
func (a *Application) Run() (pipeline.Report, error) {
	defer a.shutdown.Shutdown()

	descriptors, err := a.Descriptors()
	if err != nil {
		return pipeline.Report{}, err
	}
	open, err := a.SourceFactory()
	if err != nil {
		return pipeline.Report{}, err
	}

	if a.cfg.MetricsAddr != "" {
		server := metrics.NewServer(a.cfg.MetricsAddr, a.collector, a.logger)
		if err := server.Start(); err != nil {
			return pipeline.Report{}, err
		}
		a.shutdown.Register("metrics", server)
	}

	stop := a.shutdown.Listen()
	defer stop()

	runner := pipeline.NewRunner(a.logger, pipeline.RunnerConfig{
		Retry: pipeline.RetryConfig{
			Delay:       a.cfg.Acquire.RetryDelay,
			MaxAttempts: a.cfg.Acquire.MaxAttempts,
		},
		Observer: a.collector,
	})
	sweep := pipeline.NewSweep(runner, a.logger)

	a.logger.Info("Application", "starting sweep", map[string]interface{}{
		"version":    AppVersion,
		"toolkit":    a.ToolkitVersion(),
		"mode":       a.cfg.Mode,
		"display":    a.cfg.Display.Kind,
		"algorithms": len(descriptors),
	})

	if a.cfg.Display.Kind == config.DisplayViewer {
		return a.runWithViewer(sweep, descriptors, open), nil
	}

	sink, err := a.Sink()
	if err != nil {
		return pipeline.Report{}, err
	}
	return sweep.Run(a.Context(), descriptors, open, sink), nil
}

// runWithViewer keeps the viewer's event loop on the calling goroutine and
// sweeps in the background. Closing the window cancels the sweep; a finished
// sweep closes the window.
func (a *Application) runWithViewer(sweep *pipeline.Sweep, descriptors []algorithms.Descriptor, open pipeline.SourceFactory) pipeline.Report {
	viewer := a.kit.NewViewer(AppName, a.inputTitle(), a.logger)

	var report pipeline.Report
	done := make(chan struct{})
	go func() {
		defer close(done)
		report = sweep.Run(a.Context(), descriptors, open, viewer)
		viewer.Quit()
	}()

	viewer.Run(a.shutdown.Cancel)
	a.shutdown.Cancel()
	<-done
	return report
}
