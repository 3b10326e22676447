// Command bgs-list prints the background subtraction algorithms available
// for the linked (or given) OpenCV version.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"bgs-showcase/internal/app"
	"bgs-showcase/internal/app/cvkit"
	"bgs-showcase/internal/config"
	"bgs-showcase/internal/logger"
)

func main() {
	toolkitVersion := flag.String("toolkit-version", "", "list for this OpenCV version instead of the linked one")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}
	if *toolkitVersion != "" {
		cfg.ToolkitVersion = *toolkitVersion
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	application := app.NewApplication(context.Background(), cfg, cvkit.Toolkit(), logger.New(os.Stderr, level))

	descriptors, err := application.Descriptors()
	if err != nil {
		log.Fatalf("Resolving algorithms failed: %v", err)
	}
	if err := app.WriteAlgorithmList(os.Stdout, application.ToolkitVersion(), descriptors); err != nil {
		log.Fatalf("Writing list failed: %v", err)
	}
}
