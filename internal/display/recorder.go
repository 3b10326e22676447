package display

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/pipeline"
)

// ImageWriter encodes a frame to path.
type ImageWriter func(path string, frame models.Frame) error

// Recorder writes every image to <dir>/<algorithm>/<channel>_<frame>.png,
// for runs without a display. Write failures are logged and counted; they
// never stop the run.
type Recorder struct {
	dir    string
	write  ImageWriter
	logger pipeline.Logger

	mu        sync.Mutex
	algorithm string
	frame     int
	failures  int
}

func NewRecorder(dir string, write ImageWriter, log pipeline.Logger) *Recorder {
	return &Recorder{dir: dir, write: write, logger: log, algorithm: "unnamed"}
}

func (r *Recorder) BeginRun(algorithm string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.algorithm = algorithm
	r.frame = 0
	if err := os.MkdirAll(filepath.Join(r.dir, algorithm), 0o755); err != nil {
		r.failures++
		r.logger.Warning("Recorder", "cannot create output directory", map[string]interface{}{
			"dir":   filepath.Join(r.dir, algorithm),
			"error": err.Error(),
		})
	}
}

func (r *Recorder) Display(channel models.Channel, frame models.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if channel == models.ChannelInput {
		r.frame++
	}
	path := r.path(channel, r.frame)
	if err := r.write(path, frame); err != nil {
		r.failures++
		r.logger.Warning("Recorder", "image write failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

// Path is where the image of channel for 1-based frame n of the current run
// goes.
func (r *Recorder) Path(channel models.Channel, n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path(channel, n)
}

func (r *Recorder) path(channel models.Channel, n int) string {
	return filepath.Join(r.dir, r.algorithm, fmt.Sprintf("%s_%06d.png", channel, n))
}

// Failures is the number of writes that failed so far.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}
