package source

import (
	"errors"
	"fmt"
	"io"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/pipeline"
)

var errNotOpened = errors.New("video capture not opened")

// Capture is a live decode stream over a container file.
type Capture interface {
	IsOpened() bool
	// Read returns the next decoded frame, or false when none is available.
	Read() (models.Frame, bool)
	Close() error
}

// CaptureOpener opens a capture on path.
type CaptureOpener func(path string) (Capture, error)

// Video is a pipeline.Source over a video file. A failed read is treated as
// the end of the stream.
type Video struct {
	path    string
	open    CaptureOpener
	capture Capture
}

var _ pipeline.Source = (*Video)(nil)

func NewVideo(path string, open CaptureOpener) *Video {
	return &Video{path: path, open: open}
}

// Open (re)creates the capture. Any previous capture is closed first.
func (v *Video) Open() error {
	if v.capture != nil {
		v.capture.Close()
		v.capture = nil
	}

	c, err := v.open(v.path)
	if err != nil {
		return fmt.Errorf("open video %s: %w", v.path, err)
	}
	v.capture = c
	return nil
}

func (v *Video) Ready() bool {
	return v.capture != nil && v.capture.IsOpened()
}

func (v *Video) Next() (models.Frame, error) {
	if !v.Ready() {
		return nil, fmt.Errorf("%s: %w", v.path, errNotOpened)
	}
	frame, ok := v.capture.Read()
	if !ok {
		return nil, io.EOF
	}
	return frame, nil
}

func (v *Video) Release() error {
	if v.capture == nil {
		return nil
	}
	err := v.capture.Close()
	v.capture = nil
	return err
}

func (v *Video) Path() string {
	return v.path
}

// VideoFactory opens a fresh Video for every run.
func VideoFactory(path string, open CaptureOpener) pipeline.SourceFactory {
	return func() (pipeline.Source, error) {
		return NewVideo(path, open), nil
	}
}
