package pipeline

import (
	"time"
)

// Common interfaces used across pipeline components
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Observer receives run and frame events, for metrics.
type Observer interface {
	RunStarted(algorithm string)
	// FrameProcessed is called after every completed step. remaining is -1
	// for sources of unknown length.
	FrameProcessed(algorithm string, index int, elapsed time.Duration, remaining int)
	RunFinished(algorithm string, outcome Outcome)
}

type NopObserver struct{}

func (NopObserver) RunStarted(string)                              {}
func (NopObserver) FrameProcessed(string, int, time.Duration, int) {}
func (NopObserver) RunFinished(string, Outcome)                    {}
