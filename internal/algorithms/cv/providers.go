// Package cv links the algorithm names that OpenCV itself can serve to
// constructors built on gocv. Everything else in the registry stays
// unlinked.
package cv

import (
	"gocv.io/x/gocv"

	"bgs-showcase/internal/algorithms"
)

// Providers returns the constructors available in this build.
func Providers() algorithms.Providers {
	return algorithms.Providers{
		"FrameDifference": func() (algorithms.Algorithm, error) {
			return NewFrameDifference(), nil
		},
		"StaticFrameDifference": func() (algorithms.Algorithm, error) {
			return NewStaticFrameDifference(), nil
		},
		"MixtureOfGaussianV2": func() (algorithms.Algorithm, error) {
			return NewMOG2(), nil
		},
		"KNN": func() (algorithms.Algorithm, error) {
			return NewKNN(), nil
		},
	}
}

// ToolkitVersion is the version string of the OpenCV library gocv links
// against.
func ToolkitVersion() string {
	return gocv.OpenCVVersion()
}
