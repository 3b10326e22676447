package pipeline

import (
	"errors"
	"fmt"
)

// ErrSourceNotReady is returned when a bounded acquisition runs out of
// attempts.
var ErrSourceNotReady = errors.New("source not ready")

// Reason says why a run stopped.
type Reason int

const (
	Exhausted Reason = iota
	Cancelled
	SourceError
	AlgorithmError
)

func (r Reason) String() string {
	switch r {
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	case SourceError:
		return "source_error"
	case AlgorithmError:
		return "algorithm_error"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Failed reports whether r is one of the error reasons.
func (r Reason) Failed() bool {
	return r == SourceError || r == AlgorithmError
}

// Outcome summarises one run.
type Outcome struct {
	Algorithm string
	Frames    int
	Reason    Reason
}

// RunError carries the cause of a SourceError or AlgorithmError. Frame is the
// 1-based index of the frame being handled, 0 during acquisition.
type RunError struct {
	Algorithm string
	Reason    Reason
	Frame     int
	Err       error
}

func (e *RunError) Error() string {
	if e.Frame == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Algorithm, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s at frame %d: %v", e.Algorithm, e.Reason, e.Frame, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
