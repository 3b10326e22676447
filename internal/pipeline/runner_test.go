package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgs-showcase/internal/logger"
	"bgs-showcase/internal/models"
)

func newTestRunner(obs Observer) *Runner {
	return NewRunner(logger.Nop(), RunnerConfig{
		Retry:    RetryConfig{Delay: time.Millisecond},
		Observer: obs,
	})
}

func TestRunExhaustsSource(t *testing.T) {
	src := &testSource{frames: 5}
	alg := &testAlgorithm{}
	sink := &recordingSink{}

	out, err := newTestRunner(nil).Run(context.Background(), "FrameDifference", src, alg, sink)
	require.NoError(t, err)

	assert.Equal(t, Outcome{Algorithm: "FrameDifference", Frames: 5, Reason: Exhausted}, out)
	assert.Equal(t, 5, alg.applies)
	assert.Equal(t, 5, alg.models)
	assert.Equal(t, 1, src.released)
	assert.Equal(t, []string{"FrameDifference"}, sink.begun)

	require.Len(t, sink.calls, 15)
	for i := 0; i < 5; i++ {
		assert.Equal(t, []sinkCall{
			{models.ChannelInput, i + 1},
			{models.ChannelMask, i + 1},
			{models.ChannelModel, i + 1},
		}, sink.calls[i*3:i*3+3])
	}

	for _, f := range src.handed {
		assert.True(t, f.closed, "input frame %d not released", f.id)
	}
}

func TestRunEmptySource(t *testing.T) {
	src := &testSource{}
	out, err := newTestRunner(nil).Run(context.Background(), "KNN", src, &testAlgorithm{}, &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Frames)
	assert.Equal(t, Exhausted, out.Reason)
	assert.Equal(t, 1, src.released)
}

func TestRunCancelledAfterFrameK(t *testing.T) {
	const k = 3
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &testSource{frames: 10}
	// Signalled once frame k has been fully processed.
	src.onNext = func(call int) {
		if call == k+1 {
			cancel()
		}
	}
	alg := &testAlgorithm{}

	out, err := newTestRunner(nil).Run(ctx, "ViBe", src, alg, &recordingSink{})
	require.NoError(t, err)

	assert.Equal(t, Cancelled, out.Reason)
	assert.Equal(t, k, out.Frames)
	assert.Equal(t, k+1, alg.applies)
	assert.Equal(t, k+1, alg.models)
	assert.Equal(t, k+1, src.nexts, "no frame pulled after cancellation was observed")
	assert.Equal(t, 1, src.released)
}

func TestRunCancelledFromSinkDuringStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	sink.onCall = func(c sinkCall) {
		if c.channel == models.ChannelModel && c.id == 2 {
			cancel()
		}
	}
	alg := &testAlgorithm{}

	out, err := newTestRunner(nil).Run(ctx, "KNN", &testSource{frames: 10}, alg, sink)
	require.NoError(t, err)

	// The poll after the model image sees the signal before frame 2 is counted.
	assert.Equal(t, Cancelled, out.Reason)
	assert.Equal(t, 1, out.Frames)
	assert.Equal(t, 2, alg.applies)
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &testSource{frames: 3}
	alg := &testAlgorithm{}
	out, err := newTestRunner(nil).Run(ctx, "KNN", src, alg, &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, Cancelled, out.Reason)
	assert.Zero(t, out.Frames)
	assert.Zero(t, alg.applies)
	assert.Equal(t, 1, src.released)
}

func TestRunApplyFailure(t *testing.T) {
	const k = 4
	src := &testSource{frames: 10}
	alg := &testAlgorithm{failApplyAt: k}
	sink := &recordingSink{}

	out, err := newTestRunner(nil).Run(context.Background(), "PAWCS", src, alg, sink)
	require.Error(t, err)

	assert.Equal(t, AlgorithmError, out.Reason)
	assert.Equal(t, k-1, out.Frames)
	assert.ErrorIs(t, err, errApply)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, k, runErr.Frame)
	assert.Equal(t, AlgorithmError, runErr.Reason)
	assert.Equal(t, "PAWCS", runErr.Algorithm)

	// Frame k's input reached the sink before the failure, nothing after.
	last := sink.calls[len(sink.calls)-1]
	assert.Equal(t, sinkCall{models.ChannelInput, k}, last)
	assert.Equal(t, k, src.nexts)
	assert.Equal(t, k-1, alg.models)
	assert.Equal(t, 1, src.released)
	assert.True(t, src.handed[k-1].closed)
}

func TestRunModelFailure(t *testing.T) {
	src := &testSource{frames: 10}
	alg := &testAlgorithm{failModelAt: 2}
	sink := &recordingSink{}

	out, err := newTestRunner(nil).Run(context.Background(), "LOBSTER", src, alg, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, errModel)
	assert.Equal(t, AlgorithmError, out.Reason)
	assert.Equal(t, 1, out.Frames)
	assert.Equal(t, sinkCall{models.ChannelMask, 2}, sink.calls[len(sink.calls)-1])
}

func TestRunSourceFailure(t *testing.T) {
	src := &testSource{frames: 10, failAt: 3}
	alg := &testAlgorithm{}

	out, err := newTestRunner(nil).Run(context.Background(), "KDE", src, alg, &recordingSink{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDecode)
	assert.Equal(t, SourceError, out.Reason)
	assert.Equal(t, 2, out.Frames)
	assert.Equal(t, 2, alg.applies)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, 3, runErr.Frame)
	assert.Contains(t, err.Error(), "source_error at frame 3")
}

func TestRunWaitsForSource(t *testing.T) {
	src := &testSource{frames: 2, readyAfter: 3}

	out, err := newTestRunner(nil).Run(context.Background(), "KNN", src, &testAlgorithm{}, &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, 3, src.opens)
	assert.Equal(t, 2, out.Frames)
}

func TestRunBoundedAcquisitionGivesUp(t *testing.T) {
	src := &testSource{frames: 2, readyAfter: 1 << 30}
	r := NewRunner(logger.Nop(), RunnerConfig{Retry: RetryConfig{Delay: time.Millisecond, MaxAttempts: 4}})
	alg := &testAlgorithm{}

	out, err := r.Run(context.Background(), "KNN", src, alg, &recordingSink{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotReady)
	assert.Equal(t, SourceError, out.Reason)
	assert.Equal(t, 4, src.opens)
	assert.Zero(t, alg.applies)
	assert.Equal(t, 1, src.released)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Zero(t, runErr.Frame)
}

func TestRunAcquisitionCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	src := &testSource{readyAfter: 1 << 30}
	out, err := newTestRunner(nil).Run(ctx, "KNN", src, &testAlgorithm{}, &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, Cancelled, out.Reason)
	assert.Zero(t, out.Frames)
	assert.Greater(t, src.opens, 1)
}

func TestRunReportsProgressForSizedSources(t *testing.T) {
	obs := &recordingObserver{}
	src := sizedSource{&testSource{frames: 3}}

	_, err := newTestRunner(obs).Run(context.Background(), "SigmaDelta", src, &testAlgorithm{}, &recordingSink{})
	require.NoError(t, err)

	require.Len(t, obs.events, 5)
	assert.Equal(t, "start", obs.events[0].kind)
	assert.Equal(t, []int{3, 2, 1}, []int{obs.events[1].remaining, obs.events[2].remaining, obs.events[3].remaining})
	assert.Equal(t, []int{0, 1, 2}, []int{obs.events[1].index, obs.events[2].index, obs.events[3].index})
	assert.Equal(t, "finish", obs.events[4].kind)
	assert.Equal(t, Outcome{Algorithm: "SigmaDelta", Frames: 3, Reason: Exhausted}, obs.events[4].outcome)
}

func TestRunUnknownLengthReportsMinusOne(t *testing.T) {
	obs := &recordingObserver{}
	_, err := newTestRunner(obs).Run(context.Background(), "KNN", &testSource{frames: 1}, &testAlgorithm{}, &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, -1, obs.events[1].remaining)
}

func TestReasonStrings(t *testing.T) {
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "source_error", SourceError.String())
	assert.Equal(t, "algorithm_error", AlgorithmError.String())
	assert.True(t, SourceError.Failed())
	assert.False(t, Cancelled.Failed())
}
