// Package cvkit binds the application to gocv and the native sinks.
package cvkit

import (
	"time"

	"bgs-showcase/internal/algorithms/cv"
	"bgs-showcase/internal/app"
	"bgs-showcase/internal/display/cvwindow"
	"bgs-showcase/internal/display/fyneview"
	"bgs-showcase/internal/opencv/videoio"
	"bgs-showcase/internal/pipeline"
)

func Toolkit() app.Toolkit {
	return app.Toolkit{
		Version:    cv.ToolkitVersion,
		Providers:  cv.Providers(),
		OpenVideo:  videoio.OpenFile,
		ReadImage:  videoio.ReadImage,
		WriteImage: videoio.WriteImage,
		NewWindows: func(inputTitle string, keyDelay time.Duration, log pipeline.Logger) app.SinkCloser {
			return cvwindow.New(inputTitle, keyDelay, log)
		},
		NewViewer: func(title, inputTitle string, log pipeline.Logger) app.Viewer {
			return fyneview.New(title, inputTitle, log)
		},
	}
}
