// descreen removes moire interference patterns from scanned grayscale pages
// across a directory tree, mirroring the tree into an output directory.
// Color and unreadable files are copied through untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"descreen/internal/batch"
	"descreen/internal/config"
	"descreen/internal/logger"
)

func main() {
	inputDir := flag.String("in", "", "root directory of input images")
	outputDir := flag.String("out", "", "root directory for processed output")
	workers := flag.Int("workers", config.DefaultWorkers, "worker pool size")
	configPath := flag.String("config", "", "optional YAML config file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	human := flag.Bool("human", false, "human-readable console output instead of JSON")
	flag.Parse()

	log := buildLogger(*human, *logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("main", err, nil)
		os.Exit(1)
	}

	// Flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.InputDir = *inputDir
		case "out":
			cfg.OutputDir = *outputDir
		case "workers":
			cfg.Workers = *workers
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Error("main", err, nil)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandling(cancel, log)

	start := time.Now()
	summary, err := batch.New(cfg, log).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("main", err, nil)
		os.Exit(1)
	}

	log.Info("main", "batch complete", map[string]interface{}{
		"descreened": summary.Descreened,
		"copied":     summary.Copied,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
		"bytes":      humanize.Bytes(uint64(summary.BytesCopied)),
		"elapsed":    durafmt.Parse(time.Since(start).Round(time.Millisecond)).LimitFirstN(2).String(),
	})
}

func buildLogger(human bool, level string) logger.Logger {
	parsed := logger.ParseLevel(level)
	if human {
		return logger.NewConsole(parsed)
	}
	return logger.NewZerolog(os.Stderr, parsed)
}

func setupSignalHandling(cancel context.CancelFunc, log logger.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		log.Warning("main", "signal received, finishing in-flight pages", nil)
		cancel()
	}()
}
