package types

// ConvertConfig holds settings for the batch conversion stage.
type ConvertConfig struct {
	// WorkingDir is the directory bare file names (no path separator)
	// are resolved against. Defaults to the process working directory.
	WorkingDir string `json:"working_dir" yaml:"working_dir"`

	// OutDir is the directory output files are written into. When empty,
	// each output is written next to its input with the extension replaced.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Workers is the worker pool size. Zero or negative selects the
	// host's available parallelism.
	Workers int `json:"workers" yaml:"workers"`

	// Verbose enables per-record and per-file progress reporting.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// CatalogConfig holds settings for the conversion run catalog.
type CatalogConfig struct {
	// Dir is the directory holding the catalog database (catalog.db).
	Dir string `json:"dir" yaml:"dir"`

	// MaxRuns is the default maximum number of runs listed (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
