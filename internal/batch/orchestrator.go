// Package batch walks an input tree, mirrors its directory structure into an
// output tree and dispatches per-file descreening work to a bounded worker
// pool. Failures stay contained to the file that caused them.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/remeh/sizedwaitgroup"

	"descreen/internal/config"
	"descreen/internal/imgio"
	"descreen/internal/logger"
	"descreen/internal/spectral"
	"descreen/internal/tone"
)

// Job pairs an input file with its mirrored output path.
type Job struct {
	Input  string
	Output string
}

// Summary aggregates per-file outcomes of a batch run.
type Summary struct {
	Descreened  int64
	Copied      int64
	Skipped     int64
	Failed      int64
	BytesCopied int64
}

type outcome int

const (
	outcomeDescreened outcome = iota
	outcomeCopied
	outcomeSkipped
	outcomeFailed
)

type Orchestrator struct {
	cfg  config.Config
	opts spectral.Options
	log  logger.Logger
}

func New(cfg config.Config, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg: cfg,
		opts: spectral.Options{
			MedianWindow:      cfg.Detector.MedianWindow,
			OpeningKernel:     cfg.Detector.OpeningKernel,
			FallbackThreshold: cfg.Detector.FallbackThreshold,
			BandHeight:        cfg.Axis.BandHeight,
			BandWidth:         cfg.Axis.BandWidth,
		},
		log: log,
	}
}

// Run enumerates every file under the input tree, then processes the units
// on a pool of cfg.Workers goroutines and blocks until all have finished.
// A canceled context stops dispatching new units; in-flight units run to
// completion, keeping the per-file output atomic.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	jobs, err := o.collect()
	if err != nil {
		return Summary{}, err
	}

	var descreened, copied, skipped, failed, bytesCopied atomic.Int64

	swg := sizedwaitgroup.New(o.cfg.Workers)
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		swg.Add()
		go func(j Job) {
			defer swg.Done()
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					o.log.Error("batch", fmt.Errorf("panic while processing: %v", r),
						map[string]interface{}{"input": j.Input})
				}
			}()

			result, n := o.processOne(j)
			switch result {
			case outcomeDescreened:
				descreened.Add(1)
			case outcomeCopied:
				copied.Add(1)
				bytesCopied.Add(n)
			case outcomeSkipped:
				skipped.Add(1)
			case outcomeFailed:
				failed.Add(1)
			}
		}(job)
	}
	swg.Wait()

	return Summary{
		Descreened:  descreened.Load(),
		Copied:      copied.Load(),
		Skipped:     skipped.Load(),
		Failed:      failed.Load(),
		BytesCopied: bytesCopied.Load(),
	}, ctx.Err()
}

// collect walks the input tree in natural order, creating mirrored output
// directories as they are discovered. Only a missing input root is fatal;
// unreadable subdirectories are logged and skipped.
func (o *Orchestrator) collect() ([]Job, error) {
	info, err := os.Stat(o.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %q is not a directory", o.cfg.InputDir)
	}

	var jobs []Job
	var walk func(rel string) error
	walk = func(rel string) error {
		inDir := filepath.Join(o.cfg.InputDir, rel)
		outDir := filepath.Join(o.cfg.OutputDir, rel)

		// MkdirAll tolerates concurrent and repeated creation.
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("mirror directory %q: %w", outDir, err)
		}

		entries, err := os.ReadDir(inDir)
		if err != nil {
			if rel == "" {
				return err
			}
			o.log.Warning("batch", "skipping unreadable directory",
				map[string]interface{}{"dir": inDir, "error": err.Error()})
			return nil
		}

		var files, dirs []string
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, entry.Name())
			} else if entry.Type().IsRegular() {
				files = append(files, entry.Name())
			}
		}
		sort.Slice(files, func(i, j int) bool { return naturalLess(files[i], files[j]) })
		sort.Slice(dirs, func(i, j int) bool { return naturalLess(dirs[i], dirs[j]) })

		for _, name := range files {
			jobs = append(jobs, Job{
				Input:  filepath.Join(inDir, name),
				Output: filepath.Join(outDir, name),
			})
		}
		for _, name := range dirs {
			if err := walk(filepath.Join(rel, name)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}
	return jobs, nil
}

// processOne classifies a file and routes it: grayscale pages run through
// the suppression pipeline, everything else is copied through byte-for-byte
// unless the existing output is already up to date. Every regular file gets
// a decode attempt; the configured extension list only tunes how an
// undecodable file is reported.
func (o *Orchestrator) processOne(j Job) (outcome, int64) {
	cls := imgio.Classify(j.Input)

	switch cls.Kind {
	case imgio.KindGrayscale:
		if err := o.descreen(j); err != nil {
			o.log.Error("batch", err, map[string]interface{}{"input": j.Input})
			return outcomeFailed, 0
		}
		return outcomeDescreened, 0

	case imgio.KindUnreadable:
		fields := map[string]interface{}{"input": j.Input, "reason": cls.Err.Error()}
		if imgio.AcceptedExtension(j.Input, o.cfg.Extensions) {
			o.log.Warning("batch", "unreadable image, copying through unprocessed", fields)
		} else {
			o.log.Debug("batch", "non-image file, copying through", fields)
		}
		return o.copyThrough(j)

	default:
		o.log.Info("batch", "color page, copying through",
			map[string]interface{}{"input": j.Input})
		return o.copyThrough(j)
	}
}

func (o *Orchestrator) descreen(j Job) error {
	gray, err := imgio.LoadGray(j.Input)
	if err != nil {
		return err
	}
	defer gray.Close()

	result, err := spectral.Suppress(gray, o.opts)
	if err != nil {
		return fmt.Errorf("suppress moire: %w", err)
	}
	defer result.Image.Close()

	if result.Degenerate {
		o.log.Warning("batch", "degenerate peak histogram, fallback threshold used",
			map[string]interface{}{"input": j.Input, "threshold": result.Threshold})
	}

	corrected, err := tone.Recalibrate(gray, result.Image)
	if err != nil {
		return fmt.Errorf("recalibrate tone: %w", err)
	}
	defer corrected.Close()

	if err := imgio.WriteImage(j.Output, corrected); err != nil {
		return err
	}

	o.log.Info("batch", "page descreened", map[string]interface{}{
		"input":      j.Input,
		"output":     j.Output,
		"threshold":  result.Threshold,
		"suppressed": result.Suppressed,
	})
	return nil
}

func (o *Orchestrator) copyThrough(j Job) (outcome, int64) {
	if imgio.UpToDate(j.Input, j.Output) {
		o.log.Debug("batch", "output up to date, skipping copy",
			map[string]interface{}{"input": j.Input, "output": j.Output})
		return outcomeSkipped, 0
	}

	n, err := imgio.CopyFile(j.Input, j.Output)
	if err != nil {
		o.log.Error("batch", err, map[string]interface{}{"input": j.Input, "output": j.Output})
		return outcomeFailed, n
	}

	o.log.Info("batch", "file copied", map[string]interface{}{
		"input":  j.Input,
		"output": j.Output,
		"bytes":  n,
	})
	return outcomeCopied, n
}
