// Package main provides the catalog registry generator.
//
// It walks a directory of sign clips and writes the registry JSON the
// server loads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/logger"
)

func main() {
	rootDir := flag.String("root", "", "Directory of sign clips to scan (required)")
	output := flag.String("output", "", "Registry output path (default: {root}/registry.json)")
	probe := flag.Bool("probe", true, "Probe clip durations with ffprobe when available")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if *rootDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: catalog-gen -root <clip directory> [-output <registry.json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(*logLevel),
		Environment: "development",
	})

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(*rootDir, "registry.json")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var prober catalog.DurationProber
	if *probe {
		if p := catalog.NewFFprobeProber(); p != nil {
			prober = p
		} else {
			log.Warn("ffprobe not found on PATH, durations will be omitted")
		}
	}

	scanner := catalog.NewScanner(prober, log.Logger)

	log.Info("Scanning sign clips", "root", *rootDir)
	registry, err := scanner.Scan(ctx, *rootDir)
	if err != nil {
		log.Error("Scan failed", "error", err)
		os.Exit(1)
	}

	if err := registry.Write(outPath); err != nil {
		log.Error("Failed to write registry", "error", err)
		os.Exit(1)
	}

	log.Info("Registry written",
		"path", outPath,
		"videos", registry.Metadata.TotalVideos,
		slog.Any("categories", registry.Metadata.Categories),
	)
}
