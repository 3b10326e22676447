// Command bgs-demo runs every background subtraction algorithm available for
// the linked OpenCV version over a video or an image sequence.
//
//	bgs-demo [image] [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"bgs-showcase/internal/app"
	"bgs-showcase/internal/app/cvkit"
	"bgs-showcase/internal/logger"
)

func main() {
	cfg, err := app.ParseDemoArgs(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Printf("Invalid arguments: %v", err)
		os.Exit(2)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	lg := logger.New(os.Stderr, level)

	application := app.NewApplication(context.Background(), cfg, cvkit.Toolkit(), lg)
	report, err := application.Run()
	if err != nil {
		lg.Error("Main", err, nil)
		os.Exit(1)
	}

	if err := app.WriteSummary(os.Stdout, report); err != nil {
		log.Fatalf("Writing summary failed: %v", err)
	}
	if report.Interrupted {
		fmt.Println("Demo interrupted")
		os.Exit(130)
	}
	fmt.Println("Demo Completed Successfully")
}
