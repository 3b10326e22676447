// Command bgs-framediff runs FrameDifference over a video, waiting for the
// file to become readable first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"bgs-showcase/internal/app"
	"bgs-showcase/internal/app/cvkit"
	"bgs-showcase/internal/config"
	"bgs-showcase/internal/logger"
	"bgs-showcase/internal/pipeline"
)

func main() {
	video := flag.String("video", "", "video file")
	displayKind := flag.String("display", "", "sink: window, viewer, record or none")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}
	cfg.Mode = config.ModeVideo
	cfg.Only = []string{"FrameDifference"}
	if *video != "" {
		cfg.Video = *video
	}
	if *displayKind != "" {
		cfg.Display.Kind = *displayKind
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	lg := logger.New(os.Stderr, level)

	report, err := app.NewApplication(context.Background(), cfg, cvkit.Toolkit(), lg).Run()
	if err != nil {
		lg.Error("Main", err, nil)
		os.Exit(1)
	}
	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			fmt.Printf("FrameDifference stopped: %v\n", res.Err)
		case res.Outcome.Reason == pipeline.Cancelled:
			fmt.Println("Exiting...")
		default:
			fmt.Println("No more frames to read or error in reading the frame.")
		}
	}
}
