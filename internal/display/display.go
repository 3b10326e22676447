// Package display holds the sinks that receive the input, mask and model
// images of every pipeline step.
package display

import (
	"bgs-showcase/internal/models"
	"bgs-showcase/internal/pipeline"
)

const (
	TitleVideo = "Original Video"
	TitleImage = "Original Image"
	TitleMask  = "Foreground Mask"
	TitleModel = "Background Model"

	// KeyEscape is the key code that ends the current run.
	KeyEscape = 27
)

// Title returns the window title for a channel. inputTitle distinguishes
// video from image-sequence input.
func Title(channel models.Channel, inputTitle string) string {
	switch channel {
	case models.ChannelMask:
		return TitleMask
	case models.ChannelModel:
		return TitleModel
	default:
		return inputTitle
	}
}

// Discard drops every image. Used for headless benchmarking.
type Discard struct{}

func (Discard) Display(models.Channel, models.Frame) {}

// Tee forwards to several sinks, in order.
type Tee []pipeline.Sink

func (t Tee) Display(channel models.Channel, frame models.Frame) {
	for _, s := range t {
		s.Display(channel, frame)
	}
}

func (t Tee) BeginRun(algorithm string) {
	for _, s := range t {
		if ra, ok := s.(pipeline.RunAware); ok {
			ra.BeginRun(algorithm)
		}
	}
}

func (t Tee) OnExit(fn func()) {
	for _, s := range t {
		if en, ok := s.(pipeline.ExitNotifier); ok {
			en.OnExit(fn)
		}
	}
}
