// Package cvwindow shows pipeline images in native OpenCV highgui windows.
package cvwindow

import (
	"sync"
	"time"

	"gocv.io/x/gocv"

	"bgs-showcase/internal/display"
	"bgs-showcase/internal/models"
	"bgs-showcase/internal/opencv/safe"
	"bgs-showcase/internal/pipeline"
)

// Windows keeps one window per channel. After the model image of a step is
// shown it waits keyDelay for a key; Escape fires the exit hook.
type Windows struct {
	windows  map[models.Channel]*gocv.Window
	keyDelay int
	logger   pipeline.Logger

	mu     sync.Mutex
	exit   func()
	closed bool
}

var (
	_ pipeline.Sink         = (*Windows)(nil)
	_ pipeline.ExitNotifier = (*Windows)(nil)
)

func New(inputTitle string, keyDelay time.Duration, log pipeline.Logger) *Windows {
	delay := int(keyDelay / time.Millisecond)
	if delay < 1 {
		delay = 1
	}

	w := &Windows{
		windows:  make(map[models.Channel]*gocv.Window, len(models.Channels)),
		keyDelay: delay,
		logger:   log,
	}
	for _, ch := range models.Channels {
		w.windows[ch] = gocv.NewWindow(display.Title(ch, inputTitle))
	}
	return w
}

// Display is a no-op once the windows are closed.
func (w *Windows) Display(channel models.Channel, frame models.Frame) {
	if w.show(channel, frame) {
		w.mu.Lock()
		exit := w.exit
		w.mu.Unlock()
		if exit != nil {
			exit()
		}
	}
}

// show draws frame and reports whether Escape was pressed.
func (w *Windows) show(channel models.Channel, frame models.Frame) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	win, ok := w.windows[channel]
	if w.closed || !ok {
		return false
	}

	sm, err := safe.FromFrame(frame)
	if err != nil {
		w.logger.Warning("Windows", "cannot show frame", map[string]interface{}{
			"channel": string(channel),
			"error":   err.Error(),
		})
		return false
	}
	win.IMShow(sm.GetMat())

	if channel != models.ChannelModel {
		return false
	}
	return win.WaitKey(w.keyDelay)&0xFF == display.KeyEscape
}

func (w *Windows) OnExit(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exit = fn
}

func (w *Windows) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	var firstErr error
	for ch, win := range w.windows {
		if err := win.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(w.windows, ch)
	}
	return firstErr
}
