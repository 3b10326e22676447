// Package fyneview shows pipeline images side by side in a fyne window.
package fyneview

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"

	"bgs-showcase/internal/display"
	"bgs-showcase/internal/models"
	"bgs-showcase/internal/opencv/conversion"
	"bgs-showcase/internal/pipeline"
)

const (
	AppID = "io.bgs-showcase.viewer"

	PaneWidth  = 400
	PaneHeight = 300
)

// Viewer is a pipeline sink backed by a single fyne window with one pane per
// channel and a status line naming the current algorithm. Escape fires the
// exit hook; closing the window calls the handler given to Run.
type Viewer struct {
	app    fyne.App
	window fyne.Window
	panes  map[models.Channel]*canvas.Image
	status *widget.Label
	logger pipeline.Logger

	mu      sync.Mutex
	exit    func()
	stopped atomic.Bool
}

var (
	_ pipeline.Sink         = (*Viewer)(nil)
	_ pipeline.RunAware     = (*Viewer)(nil)
	_ pipeline.ExitNotifier = (*Viewer)(nil)
)

func New(title, inputTitle string, log pipeline.Logger) *Viewer {
	a := app.NewWithID(AppID)
	v := &Viewer{
		app:    a,
		window: a.NewWindow(title),
		panes:  make(map[models.Channel]*canvas.Image, len(models.Channels)),
		status: widget.NewLabel("Waiting for the first algorithm"),
		logger: log,
	}

	columns := make([]fyne.CanvasObject, 0, len(models.Channels))
	for _, ch := range models.Channels {
		img := canvas.NewImageFromImage(placeholder())
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(PaneWidth, PaneHeight))
		v.panes[ch] = img

		label := widget.NewLabelWithStyle(display.Title(ch, inputTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		columns = append(columns, container.NewBorder(label, nil, nil, nil, img))
	}

	v.window.SetContent(container.NewBorder(nil, v.status, nil, nil, container.NewGridWithColumns(len(columns), columns...)))
	v.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			v.fireExit()
		}
	})
	return v
}

func placeholder() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	return img
}

func (v *Viewer) Display(channel models.Channel, frame models.Frame) {
	pane, ok := v.panes[channel]
	if !ok || v.stopped.Load() {
		return
	}

	img, err := conversion.FrameToImage(frame)
	if err != nil {
		v.logger.Warning("Viewer", "cannot convert frame", map[string]interface{}{
			"channel": string(channel),
			"error":   err.Error(),
		})
		return
	}
	preview := imaging.Fit(img, PaneWidth, PaneHeight, imaging.Box)

	fyne.Do(func() {
		pane.Image = preview
		pane.Refresh()
	})
}

func (v *Viewer) BeginRun(algorithm string) {
	if v.stopped.Load() {
		return
	}
	fyne.Do(func() {
		v.status.SetText("Processing with: " + algorithm)
	})
}

func (v *Viewer) OnExit(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.exit = fn
}

func (v *Viewer) fireExit() {
	v.mu.Lock()
	exit := v.exit
	v.mu.Unlock()
	if exit != nil {
		exit()
	}
}

// Run shows the window and blocks in the fyne event loop until Quit is
// called or the window is closed. It must run on the main goroutine.
func (v *Viewer) Run(onClose func()) {
	v.window.SetOnClosed(func() {
		v.stopped.Store(true)
		if onClose != nil {
			onClose()
		}
	})
	v.window.ShowAndRun()
	v.stopped.Store(true)
}

// Quit stops the event loop from any goroutine.
func (v *Viewer) Quit() {
	if v.stopped.Swap(true) {
		return
	}
	fyne.Do(func() {
		v.app.Quit()
	})
}
