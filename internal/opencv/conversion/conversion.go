package conversion

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/opencv/safe"
)

// ConvertToGrayscale converts multi-channel images to single-channel grayscale
func ConvertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "grayscale conversion"); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if src.Channels() == 1 {
		return src.Clone()
	}

	dst := gocv.NewMat()
	srcMat := src.GetMat()

	switch src.Channels() {
	case 3:
		gocv.CvtColor(srcMat, &dst, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(srcMat, &dst, gocv.ColorBGRAToGray)
	default:
		dst.Close()
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}

	return safe.Adopt(dst)
}

// FrameToImage converts an OpenCV-backed frame to a standard Go image.
// 1-channel frames become *image.Gray, 3 and 4 channel frames RGBA.
func FrameToImage(f models.Frame) (image.Image, error) {
	src, err := safe.FromFrame(f)
	if err != nil {
		return nil, err
	}

	if err := safe.ValidateChannels(src, "Mat to image conversion", 1, 3, 4); err != nil {
		return nil, err
	}

	mat := src.GetMat()
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	return img, nil
}
