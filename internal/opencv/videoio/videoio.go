// Package videoio decodes and encodes frames with OpenCV: video capture for
// container files and single-image read/write.
package videoio

import (
	"fmt"

	"gocv.io/x/gocv"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/opencv/safe"
	"bgs-showcase/internal/source"
)

type capture struct {
	vc *gocv.VideoCapture
}

// OpenFile starts a capture on a video file. The returned capture may still
// report IsOpened false; callers retry.
func OpenFile(path string) (source.Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, err
	}
	return &capture{vc: vc}, nil
}

func (c *capture) IsOpened() bool {
	return c.vc.IsOpened()
}

func (c *capture) Read() (models.Frame, bool) {
	m := gocv.NewMat()
	if ok := c.vc.Read(&m); !ok || m.Empty() {
		m.Close()
		return nil, false
	}
	frame, err := safe.Adopt(m)
	if err != nil {
		return nil, false
	}
	return frame, true
}

func (c *capture) Close() error {
	return c.vc.Close()
}

// ReadImage decodes an image file as a 3-channel BGR frame.
func ReadImage(path string) (models.Frame, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		return nil, fmt.Errorf("cannot decode image %s", path)
	}
	frame, err := safe.Adopt(m)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// WriteImage encodes frame to path; the format follows the extension.
func WriteImage(path string, frame models.Frame) error {
	sm, err := safe.FromFrame(frame)
	if err != nil {
		return err
	}
	if !gocv.IMWrite(path, sm.GetMat()) {
		return fmt.Errorf("cannot write image %s", path)
	}
	return nil
}
