package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"bgs-showcase/internal/algorithms"
)

// Result is one entry of a sweep report.
type Result struct {
	RunID    string
	Outcome  Outcome
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Report collects the results of a sweep in run order.
type Report struct {
	Results     []Result
	Interrupted bool
}

func (r Report) count(match func(Result) bool) int {
	n := 0
	for _, res := range r.Results {
		if match(res) {
			n++
		}
	}
	return n
}

func (r Report) Completed() int {
	return r.count(func(res Result) bool { return !res.Skipped && res.Err == nil && res.Outcome.Reason == Exhausted })
}

func (r Report) Cancelled() int {
	return r.count(func(res Result) bool { return !res.Skipped && res.Outcome.Reason == Cancelled })
}

func (r Report) Failed() int {
	return r.count(func(res Result) bool { return !res.Skipped && res.Err != nil })
}

func (r Report) Skipped() int {
	return r.count(func(res Result) bool { return res.Skipped })
}

// Frames is the total number of frames processed across all runs.
func (r Report) Frames() int {
	total := 0
	for _, res := range r.Results {
		total += res.Outcome.Frames
	}
	return total
}

// Sweep runs every descriptor, in order, against a freshly opened source.
type Sweep struct {
	runner *Runner
	logger Logger
}

func NewSweep(runner *Runner, log Logger) *Sweep {
	return &Sweep{runner: runner, logger: log}
}

// Run processes each descriptor in turn. A failed or exit-key cancelled run
// does not stop the sweep; cancelling ctx does. Unlinked descriptors are
// reported as skipped.
func (s *Sweep) Run(ctx context.Context, descriptors []algorithms.Descriptor, open SourceFactory, sink Sink) Report {
	var report Report

	exit, _ := sink.(ExitNotifier)

	for _, d := range descriptors {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}

		res := s.runOne(ctx, d, open, sink, exit)
		report.Results = append(report.Results, res)
	}

	if ctx.Err() != nil {
		report.Interrupted = true
	}

	s.logger.Info("Sweep", "sweep finished", map[string]interface{}{
		"runs":        len(report.Results),
		"completed":   report.Completed(),
		"cancelled":   report.Cancelled(),
		"failed":      report.Failed(),
		"skipped":     report.Skipped(),
		"frames":      report.Frames(),
		"interrupted": report.Interrupted,
	})

	return report
}

func (s *Sweep) runOne(ctx context.Context, d algorithms.Descriptor, open SourceFactory, sink Sink, exit ExitNotifier) Result {
	res := Result{
		RunID:   uuid.NewString(),
		Outcome: Outcome{Algorithm: d.Name},
	}
	fields := func() map[string]interface{} {
		return map[string]interface{}{
			"algorithm": d.Name,
			"run_id":    res.RunID,
		}
	}

	alg, err := d.New()
	if err != nil {
		if errors.Is(err, algorithms.ErrNotLinked) {
			res.Skipped = true
			s.logger.Warning("Sweep", "algorithm not linked in this build, skipping", fields())
			return res
		}
		res.Err = err
		res.Outcome.Reason = AlgorithmError
		s.logger.Error("Sweep", err, fields())
		return res
	}
	defer func() {
		if c, ok := alg.(io.Closer); ok {
			if err := c.Close(); err != nil {
				f := fields()
				f["error"] = err.Error()
				s.logger.Warning("Sweep", "algorithm close failed", f)
			}
		}
	}()

	src, err := open()
	if err != nil {
		res.Err = &RunError{Algorithm: d.Name, Reason: SourceError, Err: err}
		res.Outcome.Reason = SourceError
		s.logger.Error("Sweep", res.Err, fields())
		return res
	}

	s.logger.Info("Sweep", "processing with", fields())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if exit != nil {
		exit.OnExit(cancel)
		defer exit.OnExit(nil)
	}

	started := time.Now()
	res.Outcome, res.Err = s.runner.Run(runCtx, d.Name, src, alg, sink)
	res.Duration = time.Since(started)

	f := fields()
	f["frames"] = res.Outcome.Frames
	f["reason"] = res.Outcome.Reason.String()
	f["duration_ms"] = res.Duration.Milliseconds()
	if res.Err != nil {
		s.logger.Error("Sweep", res.Err, f)
	} else {
		s.logger.Info("Sweep", "run finished", f)
	}

	return res
}
