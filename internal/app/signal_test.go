package app

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgs-showcase/internal/algorithms"
	"bgs-showcase/internal/config"
	"bgs-showcase/internal/logger"
	"bgs-showcase/internal/models"
	"bgs-showcase/internal/pipeline"
)

// interruptingAlgorithm raises SIGINT in the middle of its second step and
// keeps working for a while, as a slow native call would.
type interruptingAlgorithm struct {
	t       *testing.T
	applies int
}

func (a *interruptingAlgorithm) Apply(f models.Frame) (models.Frame, error) {
	a.applies++
	if a.applies == 2 {
		p, err := os.FindProcess(os.Getpid())
		require.NoError(a.t, err)
		require.NoError(a.t, p.Signal(os.Interrupt))
		time.Sleep(50 * time.Millisecond)
	}
	return f, nil
}

func (a *interruptingAlgorithm) BackgroundModel() (models.Frame, error) { return frame{}, nil }

type closeTrackingWindows struct {
	mu         sync.Mutex
	closed     bool
	shown      int
	afterClose int
}

func (w *closeTrackingWindows) Display(models.Channel, models.Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shown++
	if w.closed {
		w.afterClose++
	}
}

func (w *closeTrackingWindows) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestInterruptFinishesStepBeforeClosingWindows(t *testing.T) {
	kit, _, _ := fakeToolkit(10)
	kit.Providers = algorithms.Providers{
		"FrameDifference": func() (algorithms.Algorithm, error) {
			return &interruptingAlgorithm{t: t}, nil
		},
	}
	w := &closeTrackingWindows{}
	kit.NewWindows = func(string, time.Duration, pipeline.Logger) SinkCloser { return w }

	cfg := config.Default()
	cfg.Only = []string{"FrameDifference", "KNN"}

	report, err := NewApplication(context.Background(), cfg, kit, logger.Nop()).Run()
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	require.Len(t, report.Results, 1, "sweep stops after the interrupted run")
	assert.Equal(t, pipeline.Cancelled, report.Results[0].Outcome.Reason)
	assert.Equal(t, 1, report.Results[0].Outcome.Frames)

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.True(t, w.closed)
	assert.Equal(t, 6, w.shown, "interrupted step still completes its three images")
	assert.Zero(t, w.afterClose)
}
