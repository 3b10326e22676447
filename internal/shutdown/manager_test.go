package shutdown

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgs-showcase/internal/logger"
)

func TestShutdownReverseOrderOnce(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	m.Register("windows", record("windows"))
	m.Register("metrics", record("metrics"))
	m.Register("closer", Closer("closer", func() error {
		record("closer")()
		return errors.New("already closed")
	}, logger.Nop()))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"closer", "metrics", "windows"}, order)
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	select {
	case <-m.Done():
	default:
		t.Fatal("done not closed")
	}
}

func TestShutdownTimeout(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	m.SetTimeout(10 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)
	ran := false
	m.Register("stuck", Func(func() { <-block }))
	m.Register("first", Func(func() {}))
	m.Register("ok", Func(func() { ran = true }))

	start := time.Now()
	m.Shutdown()
	assert.True(t, ran)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCancelLeavesComponents(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	called := false
	m.Register("c", Func(func() { called = true }))

	m.Cancel()
	require.Error(t, m.Context().Err())
	assert.False(t, called)
}

func TestParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, logger.Nop())
	cancel()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}

func TestListenStop(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	stop := m.Listen()
	stop()
	stop()
	assert.NoError(t, m.Context().Err())
}

func TestSignalCancelsWithoutTearingDown(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	var mu sync.Mutex
	called := false
	m.Register("windows", Func(func() {
		mu.Lock()
		defer mu.Unlock()
		called = true
	}))

	stop := m.Listen()
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(os.Interrupt))

	select {
	case <-m.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}

	mu.Lock()
	assert.False(t, called, "components stay up until Shutdown")
	mu.Unlock()
	select {
	case <-m.Done():
		t.Fatal("shutdown started by the signal")
	default:
	}

	m.Shutdown()
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, called)
}
