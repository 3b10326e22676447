package app

import (
	"fmt"
	"io"
	"time"

	"bgs-showcase/internal/algorithms"
	"bgs-showcase/internal/pipeline"
)

// WriteAlgorithmList prints the toolkit version, the number of algorithms
// and one numbered line per algorithm. Algorithms with a constructor in this
// build are marked.
func WriteAlgorithmList(w io.Writer, toolkitVersion string, descriptors []algorithms.Descriptor) error {
	if _, err := fmt.Fprintf(w, "OpenCV Version: %s\n", toolkitVersion); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Number of available algorithms: %d\n", len(descriptors)); err != nil {
		return err
	}
	for i, d := range descriptors {
		mark := ""
		if d.Linked() {
			mark = " (linked)"
		}
		if _, err := fmt.Fprintf(w, "%d: %s%s\n", i+1, d.Name, mark); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints one line per run of a sweep report.
func WriteSummary(w io.Writer, report pipeline.Report) error {
	for _, res := range report.Results {
		var line string
		switch {
		case res.Skipped:
			line = fmt.Sprintf("%-28s skipped (not linked)", res.Outcome.Algorithm)
		case res.Err != nil:
			line = fmt.Sprintf("%-28s %-14s %5d frames  %v", res.Outcome.Algorithm, res.Outcome.Reason, res.Outcome.Frames, res.Err)
		default:
			line = fmt.Sprintf("%-28s %-14s %5d frames  %s", res.Outcome.Algorithm, res.Outcome.Reason, res.Outcome.Frames, res.Duration.Round(time.Millisecond))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "completed %d, cancelled %d, failed %d, skipped %d, frames %d\n",
		report.Completed(), report.Cancelled(), report.Failed(), report.Skipped(), report.Frames())
	return err
}
