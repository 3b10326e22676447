package models

import "fmt"

// Frame is a decoded image. Implementations are immutable once produced;
// anything that needs the pixels after the producing step ends must copy.
type Frame interface {
	Width() int
	Height() int
	Channels() int
}

// Channel labels one of the three images a pipeline step forwards to a sink.
type Channel string

const (
	ChannelInput Channel = "input"
	ChannelMask  Channel = "mask"
	ChannelModel Channel = "model"
)

// Channels lists the sink channels in the order a step emits them.
var Channels = []Channel{ChannelInput, ChannelMask, ChannelModel}

// Describe renders a frame's geometry for log fields.
func Describe(f Frame) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%dx%d", f.Width(), f.Height(), f.Channels())
}
