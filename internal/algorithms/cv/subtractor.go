package cv

import (
	"fmt"

	"gocv.io/x/gocv"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/opencv/safe"
)

// shadowValue is what MOG2 and KNN write into the mask for shadow pixels.
const shadowValue = 127

type backgroundSubtractor interface {
	Apply(src gocv.Mat, dst *gocv.Mat)
	Close() error
}

// Subtractor adapts one of OpenCV's own background subtractors. OpenCV does
// not expose their background image through gocv, so the model is the last
// input value seen at every pixel the mask left as background.
type Subtractor struct {
	name       string
	bs         backgroundSubtractor
	background gocv.Mat
}

// NewMOG2 wraps cv::BackgroundSubtractorMOG2 with OpenCV's defaults.
func NewMOG2() *Subtractor {
	bs := gocv.NewBackgroundSubtractorMOG2()
	return &Subtractor{name: "MixtureOfGaussianV2", bs: &bs, background: gocv.NewMat()}
}

// NewKNN wraps cv::BackgroundSubtractorKNN with OpenCV's defaults.
func NewKNN() *Subtractor {
	bs := gocv.NewBackgroundSubtractorKNN()
	return &Subtractor{name: "KNN", bs: &bs, background: gocv.NewMat()}
}

func (s *Subtractor) Apply(frame models.Frame) (models.Frame, error) {
	src, err := safe.FromFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	img := src.GetMat()

	mask := gocv.NewMat()
	s.bs.Apply(img, &mask)
	if mask.Empty() {
		mask.Close()
		return nil, fmt.Errorf("%s: subtractor produced an empty mask", s.name)
	}

	if s.background.Empty() || s.background.Rows() != img.Rows() || s.background.Cols() != img.Cols() {
		s.background.Close()
		s.background = img.Clone()
	} else {
		keep := backgroundPixels(mask)
		img.CopyToWithMask(&s.background, keep)
		keep.Close()
	}

	return safe.Adopt(mask)
}

// backgroundPixels selects the pixels a subtractor mask marks as background.
// Shadows (127) and foreground (255) are both excluded.
func backgroundPixels(mask gocv.Mat) gocv.Mat {
	foreground := gocv.NewMat()
	defer foreground.Close()
	gocv.Threshold(mask, &foreground, shadowValue/2, 255, gocv.ThresholdBinary)

	keep := gocv.NewMat()
	gocv.BitwiseNot(foreground, &keep)
	return keep
}

func (s *Subtractor) BackgroundModel() (models.Frame, error) {
	if s.background.Empty() {
		return nil, fmt.Errorf("%s: no frame applied yet", s.name)
	}
	return safe.NewMatFromMat(s.background)
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (s *Subtractor) Close() error {
	s.background.Close()
	return s.bs.Close()
}
