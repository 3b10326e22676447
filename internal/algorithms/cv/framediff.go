package cv

import (
	"fmt"

	"gocv.io/x/gocv"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/opencv/conversion"
	"bgs-showcase/internal/opencv/safe"
)

const defaultDiffThreshold = 15

// FrameDiff classifies a pixel as foreground when its grayscale absolute
// difference against a reference frame exceeds a threshold. With static set
// the reference is the first frame; otherwise it is the previous frame.
// The background model is the reference the last mask was computed against.
type FrameDiff struct {
	name      string
	threshold float32
	static    bool
	reference *safe.Mat
	model     *safe.Mat
}

// NewFrameDifference compares each frame with the one before it.
func NewFrameDifference() *FrameDiff {
	return &FrameDiff{name: "FrameDifference", threshold: defaultDiffThreshold}
}

// NewStaticFrameDifference compares each frame with the first one.
func NewStaticFrameDifference() *FrameDiff {
	return &FrameDiff{name: "StaticFrameDifference", threshold: defaultDiffThreshold, static: true}
}

func (d *FrameDiff) Apply(frame models.Frame) (models.Frame, error) {
	src, err := safe.FromFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}

	if d.reference == nil {
		ref, err := src.Clone()
		if err != nil {
			return nil, fmt.Errorf("%s: keep reference: %w", d.name, err)
		}
		d.reference = ref
		return safe.Adopt(gocv.Zeros(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1))
	}

	if err := safe.ValidateSameSize(src, d.reference, d.name); err != nil {
		return nil, err
	}

	delta := gocv.NewMat()
	gocv.AbsDiff(src.GetMat(), d.reference.GetMat(), &delta)
	deltaMat, err := safe.Adopt(delta)
	if err != nil {
		return nil, fmt.Errorf("%s: absdiff: %w", d.name, err)
	}
	defer deltaMat.Close()

	gray, err := conversion.ConvertToGrayscale(deltaMat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	defer gray.Close()

	mask := gocv.NewMat()
	gocv.Threshold(gray.GetMat(), &mask, d.threshold, 255, gocv.ThresholdBinary)

	if !d.static {
		next, err := src.Clone()
		if err != nil {
			mask.Close()
			return nil, fmt.Errorf("%s: update reference: %w", d.name, err)
		}
		if d.model != nil {
			d.model.Close()
		}
		d.model = d.reference
		d.reference = next
	}

	return safe.Adopt(mask)
}

func (d *FrameDiff) BackgroundModel() (models.Frame, error) {
	if d.model != nil {
		return d.model.Clone()
	}
	if d.reference == nil {
		return nil, fmt.Errorf("%s: no frame applied yet", d.name)
	}
	return d.reference.Clone()
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (d *FrameDiff) Close() error {
	if d.model != nil {
		d.model.Close()
		d.model = nil
	}
	if d.reference != nil {
		d.reference.Close()
		d.reference = nil
	}
	return nil
}
