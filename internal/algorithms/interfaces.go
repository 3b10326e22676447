package algorithms

import (
	"errors"

	"bgs-showcase/internal/models"
)

// ErrNotLinked is returned by the constructor of a descriptor whose
// algorithm has no provider in this build.
var ErrNotLinked = errors.New("algorithm not linked")

// Algorithm is a background subtractor. Apply feeds one frame and returns the
// foreground mask; BackgroundModel returns the current background estimate.
// Instances hold model state across calls and must not be shared between
// pipelines. Implementations that own native resources also implement
// io.Closer.
type Algorithm interface {
	Apply(frame models.Frame) (models.Frame, error)
	BackgroundModel() (models.Frame, error)
}

// Constructor builds a fresh Algorithm instance.
type Constructor func() (Algorithm, error)

// Providers maps algorithm names to the constructors that can serve them.
type Providers map[string]Constructor

// Descriptor names an algorithm and carries the constructor for it.
type Descriptor struct {
	Name string
	New  Constructor

	linked bool
}

// Linked reports whether New is backed by a provider.
func (d Descriptor) Linked() bool {
	return d.linked
}
