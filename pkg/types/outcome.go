// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutcomeStatus indicates how a single input file finished in a batch run.
type OutcomeStatus string

const (
	// OutcomeConverted marks an input that was fully copied to its target.
	OutcomeConverted OutcomeStatus = "converted"

	// OutcomeEmpty marks a blank input token. The batch continues.
	OutcomeEmpty OutcomeStatus = "empty"

	// OutcomeFailed marks an input that produced an error (open failure,
	// extension mismatch, or target write failure).
	OutcomeFailed OutcomeStatus = "failed"
)

// FileOutcome is the per-file result message emitted by a conversion worker
// and drained by the aggregator. Exactly one outcome is produced for every
// claimed input index.
type FileOutcome struct {
	// Index is the input's position in the batch list.
	Index int `json:"index" yaml:"index"`

	// Input is the resolved source path ("" for an empty token).
	Input string `json:"input" yaml:"input"`

	// Output is the target path (empty unless conversion was attempted).
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Name is the source's short file name, without directory or extension.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Status classifies the outcome.
	Status OutcomeStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is OutcomeFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Fatal reports whether this failure stopped the batch from claiming
	// further inputs. Files already in flight still run to completion.
	Fatal bool `json:"fatal,omitempty" yaml:"fatal,omitempty"`
}

// BatchReport summarizes one batch conversion run. It is written as YAML by
// convert --report and persisted by the run catalog.
type BatchReport struct {
	// StartedAt is the wall-clock start of the batch.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// DurationSeconds is the elapsed time of the batch.
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`

	// NumFiles is the number of input tokens submitted.
	NumFiles int `json:"num_files" yaml:"num_files"`

	// Converted, Empty, and Failed count outcomes by status.
	Converted int `json:"converted" yaml:"converted"`
	Empty     int `json:"empty" yaml:"empty"`
	Failed    int `json:"failed" yaml:"failed"`

	// Fatal reports whether the batch stopped before claiming every input.
	Fatal bool `json:"fatal" yaml:"fatal"`

	// Workers is the worker pool size used for the run.
	Workers int `json:"workers" yaml:"workers"`

	// Files lists the per-file outcomes in completion order. Completion
	// order is unrelated to submission order; workers race.
	Files []FileOutcome `json:"files" yaml:"files"`
}

// Total returns the number of outcomes received.
func (r BatchReport) Total() int {
	return r.Converted + r.Empty + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchReport) HasFailures() bool {
	return r.Failed > 0
}
