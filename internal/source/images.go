package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"bgs-showcase/internal/models"
	"bgs-showcase/internal/pipeline"
)

// Decoder reads one image file into a frame.
type Decoder func(path string) (models.Frame, error)

// ImageSequence is a finite, ordered pipeline.Source over image files. It
// is ready as soon as it exists.
type ImageSequence struct {
	paths  []string
	decode Decoder
	next   int
}

var (
	_ pipeline.Source = (*ImageSequence)(nil)
	_ pipeline.Sized  = (*ImageSequence)(nil)
)

func NewImageSequence(paths []string, decode Decoder) *ImageSequence {
	return &ImageSequence{paths: paths, decode: decode}
}

func (s *ImageSequence) Open() error { return nil }
func (s *ImageSequence) Ready() bool { return true }

func (s *ImageSequence) Next() (models.Frame, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	frame, err := s.decode(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	return frame, nil
}

func (s *ImageSequence) Len() int {
	return len(s.paths)
}

func (s *ImageSequence) Release() error {
	s.next = len(s.paths)
	return nil
}

// ListImages returns the regular files in dir matching pattern, sorted by
// name. A missing directory yields an empty list.
func ListImages(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, m)
	}
	sort.Strings(paths)
	return paths, nil
}

// ImageSequenceFactory lists dir once and hands every run a fresh sequence
// over the same ordered paths.
func ImageSequenceFactory(dir, pattern string, decode Decoder) (pipeline.SourceFactory, int, error) {
	paths, err := ListImages(dir, pattern)
	if err != nil {
		return nil, 0, err
	}
	return func() (pipeline.Source, error) {
		return NewImageSequence(paths, decode), nil
	}, len(paths), nil
}
