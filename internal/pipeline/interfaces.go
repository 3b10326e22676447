package pipeline

import (
	"bgs-showcase/internal/models"
)

// Source produces frames in order. Open may be called repeatedly until Ready
// reports true. Next returns io.EOF once the source is exhausted. Release is
// called exactly once, after the last use.
type Source interface {
	Open() error
	Ready() bool
	Next() (models.Frame, error)
	Release() error
}

// Sized is implemented by sources that know their length up front.
type Sized interface {
	Len() int
}

// SourceFactory opens a fresh source positioned at the first frame. Every
// run gets its own source; nothing is shared or cached between runs.
type SourceFactory func() (Source, error)

// Sink receives the three images of every step. Display has no result; a
// sink that cannot show an image deals with that itself.
type Sink interface {
	Display(channel models.Channel, frame models.Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(channel models.Channel, frame models.Frame)

func (f SinkFunc) Display(channel models.Channel, frame models.Frame) {
	f(channel, frame)
}

// RunAware sinks are told which algorithm the following frames belong to.
type RunAware interface {
	BeginRun(algorithm string)
}

// ExitNotifier sinks own an interactive exit trigger. The sweep binds it to
// the cancel function of the current run; nil unbinds.
type ExitNotifier interface {
	OnExit(fn func())
}
