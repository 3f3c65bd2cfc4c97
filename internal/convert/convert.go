// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the parallel batch conversion engine: a fixed
// worker pool claims input indices from a shared queue, converts each file
// end to end, and emits one outcome per claimed index to an aggregator.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meshintel/pointcloud-engine/internal/pathutil"
	"github.com/meshintel/pointcloud-engine/pkg/types"
)

const (
	// SourceExt is the expected input extension, matched case-insensitively.
	SourceExt = "zlidar"

	// TargetExt is the extension of produced output files.
	TargetExt = "las"
)

// ErrNoInputs is returned when Batch is invoked with an empty input list.
var ErrNoInputs = errors.New("no input files")

// BatchError reports a fatal per-file condition (unreadable source or
// extension mismatch) that stopped the batch from claiming further inputs.
// Files already in flight still ran to completion; the caller decides
// whether to retry, continue, or abort.
type BatchError struct {
	Index int
	Path  string
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("input %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Batch converts every input token through the adapter, running up to
// cfg.Workers conversions concurrently (host parallelism when zero). Each
// input index is claimed exactly once; per-file status lines are written to
// w in completion order, which is unrelated to submission order. The
// returned report lists one outcome per claimed input. A non-nil error is
// either ErrNoInputs or a *BatchError for the first fatal file.
func Batch(inputs []string, cfg types.ConvertConfig, ad Adapter, w io.Writer) (types.BatchReport, error) {
	start := time.Now()
	if len(inputs) == 0 {
		return types.BatchReport{}, ErrNoInputs
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return types.BatchReport{}, fmt.Errorf("creating output directory %s: %w", cfg.OutDir, err)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	numFiles := len(inputs)
	queue := newIndexQueue(numFiles)
	outcomes := make(chan types.FileOutcome, workers)

	// A fatal outcome stops further claiming. Workers mid-conversion are
	// not interrupted; every claimed index still produces its outcome.
	var fatal atomic.Bool

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !fatal.Load() {
				k, ok := queue.claim()
				if !ok {
					return
				}
				oc := convertOne(k, inputs[k], cfg, ad, numFiles == 1, w)
				if oc.Fatal {
					fatal.Store(true)
				}
				outcomes <- oc
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	report := drain(outcomes, numFiles, cfg.Verbose, w)
	report.StartedAt = start.UTC()
	report.DurationSeconds = time.Since(start).Seconds()
	report.NumFiles = numFiles
	report.Workers = workers

	if report.Fatal {
		for _, oc := range report.Files {
			if oc.Fatal {
				return report, &BatchError{Index: oc.Index, Path: oc.Input, Err: errors.New(oc.Error)}
			}
		}
	}
	return report, nil
}

// convertOne performs one full file conversion and returns its outcome.
func convertOne(k int, token string, cfg types.ConvertConfig, ad Adapter, single bool, w io.Writer) types.FileOutcome {
	input := pathutil.Resolve(token, cfg.WorkingDir)
	if input == "" {
		return types.FileOutcome{Index: k, Status: types.OutcomeEmpty}
	}

	if e := pathutil.Ext(input); e != SourceExt {
		return failure(k, input, "", fmt.Errorf("expected a .%s input, got %q", SourceExt, "."+e), true)
	}

	src, err := ad.Open(input)
	if err != nil {
		return failure(k, input, "", err, true)
	}

	output := pathutil.TargetPath(input, cfg.OutDir, TargetExt)
	dst, err := ad.NewWriter(output, src)
	if err != nil {
		return failure(k, input, output, err, false)
	}

	// The record loop is strictly sequential and owned by this worker;
	// a file's records are never split across workers.
	n := src.PointCount()
	oldProgress := -1
	for i := 0; i < n; i++ {
		r, err := src.Record(i)
		if err != nil {
			return failure(k, input, output, err, false)
		}
		dst.AddRecord(r)
		if cfg.Verbose && single && n > 1 {
			progress := 100 * (i + 1) / (n - 1)
			if progress != oldProgress {
				fmt.Fprintf(w, "Creating output: %d%%\n", progress)
				oldProgress = progress
			}
		}
	}
	// A single record gives the percentage formula a zero denominator;
	// report completion directly instead.
	if cfg.Verbose && single && n <= 1 {
		fmt.Fprintln(w, "Creating output: 100%")
	}

	if err := dst.Close(); err != nil {
		return failure(k, input, output, err, false)
	}

	return types.FileOutcome{
		Index:  k,
		Input:  input,
		Output: output,
		Name:   src.ShortName(),
		Status: types.OutcomeConverted,
	}
}

func failure(k int, input, output string, err error, fatal bool) types.FileOutcome {
	return types.FileOutcome{
		Index:  k,
		Input:  input,
		Output: output,
		Status: types.OutcomeFailed,
		Error:  err.Error(),
		Fatal:  fatal,
	}
}

// drain receives outcomes until the worker pool closes the channel,
// printing status lines as they arrive.
func drain(outcomes <-chan types.FileOutcome, numFiles int, verbose bool, w io.Writer) types.BatchReport {
	var report types.BatchReport
	received := 0
	oldProgress := -1

	for oc := range outcomes {
		switch oc.Status {
		case types.OutcomeConverted:
			if numFiles > 1 {
				fmt.Fprintf(w, "Completed conversion of %s\n", oc.Name)
			} else {
				fmt.Fprintln(w, oc.Name)
			}
			report.Converted++
		case types.OutcomeEmpty:
			fmt.Fprintf(w, "Empty file name for input %d.\n", oc.Index)
			report.Empty++
		case types.OutcomeFailed:
			fmt.Fprintf(w, "failed: %s (%s)\n", oc.Input, oc.Error)
			report.Failed++
			if oc.Fatal {
				report.Fatal = true
			}
		}
		report.Files = append(report.Files, oc)

		if verbose {
			if numFiles == 1 {
				fmt.Fprintln(w, "Progress: 100%")
			} else {
				progress := 100 * received / (numFiles - 1)
				if progress != oldProgress {
					fmt.Fprintf(w, "Progress: %d%%\n", progress)
					oldProgress = progress
				}
			}
		}
		received++
	}
	return report
}
