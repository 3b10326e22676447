package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"bgs-showcase/internal/algorithms"
	"bgs-showcase/internal/models"
)

type RunnerConfig struct {
	Retry    RetryConfig
	Observer Observer
}

// Runner feeds the frames of one source through one algorithm instance and
// forwards input, mask and model of every frame to a sink. It is strictly
// sequential: one frame in flight, cancellation polled between steps.
type Runner struct {
	logger   Logger
	retry    RetryConfig
	observer Observer
}

func NewRunner(log Logger, cfg RunnerConfig) *Runner {
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	return &Runner{
		logger:   log,
		retry:    cfg.Retry,
		observer: cfg.Observer,
	}
}

// Run processes src until it is exhausted, ctx is cancelled or a step fails.
// Exhaustion and cancellation return a nil error; failures return a
// *RunError and stop the run at the failing frame. src is released before
// Run returns. alg stays owned by the caller.
func (r *Runner) Run(ctx context.Context, name string, src Source, alg algorithms.Algorithm, sink Sink) (out Outcome, err error) {
	out = Outcome{Algorithm: name}

	r.observer.RunStarted(name)
	defer func() {
		if relErr := src.Release(); relErr != nil {
			r.logger.Warning("Runner", "source release failed", map[string]interface{}{
				"algorithm": name,
				"error":     relErr.Error(),
			})
		}
		r.observer.RunFinished(name, out)
	}()

	if ra, ok := sink.(RunAware); ok {
		ra.BeginRun(name)
	}

	if err := r.acquire(ctx, name, src); err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			out.Reason = Cancelled
			return out, nil
		}
		out.Reason = SourceError
		return out, &RunError{Algorithm: name, Reason: SourceError, Err: err}
	}

	total := -1
	if sized, ok := src.(Sized); ok {
		total = sized.Len()
	}

	for index := 0; ; index++ {
		if ctx.Err() != nil {
			out.Reason = Cancelled
			return out, nil
		}

		started := time.Now()

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			out.Reason = Exhausted
			r.logger.Debug("Runner", "no more frames to read", map[string]interface{}{
				"algorithm": name,
				"frames":    out.Frames,
			})
			return out, nil
		}
		if err == nil && frame == nil {
			err = errors.New("source returned no frame")
		}
		if err != nil {
			out.Reason = SourceError
			return out, &RunError{Algorithm: name, Reason: SourceError, Frame: index + 1, Err: err}
		}

		if reason, err := r.step(frame, alg, sink); err != nil {
			out.Reason = reason
			return out, &RunError{Algorithm: name, Reason: reason, Frame: index + 1, Err: err}
		}

		if ctx.Err() != nil {
			out.Reason = Cancelled
			return out, nil
		}

		out.Frames++

		remaining := -1
		if total >= 0 {
			remaining = total - index
			r.logger.Info("Runner", "frames left", map[string]interface{}{
				"algorithm": name,
				"remaining": remaining,
			})
		}
		r.observer.FrameProcessed(name, index, time.Since(started), remaining)
	}
}

// step forwards one frame through the algorithm, in the fixed order input,
// mask, model. All three frames are released when it returns.
func (r *Runner) step(frame models.Frame, alg algorithms.Algorithm, sink Sink) (Reason, error) {
	defer release(frame)

	sink.Display(models.ChannelInput, frame)

	mask, err := alg.Apply(frame)
	if err != nil {
		return AlgorithmError, fmt.Errorf("apply: %w", err)
	}
	defer release(mask)
	sink.Display(models.ChannelMask, mask)

	model, err := alg.BackgroundModel()
	if err != nil {
		return AlgorithmError, fmt.Errorf("background model: %w", err)
	}
	defer release(model)
	sink.Display(models.ChannelModel, model)

	return 0, nil
}

func release(frame models.Frame) {
	if c, ok := frame.(io.Closer); ok && c != nil {
		c.Close()
	}
}
