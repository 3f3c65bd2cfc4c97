// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/pointcloud-engine/internal/catalog"
	"github.com/meshintel/pointcloud-engine/internal/convert"
	"github.com/meshintel/pointcloud-engine/internal/pathutil"
	"github.com/meshintel/pointcloud-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert zlidar files to the las format in parallel",
	Long: `Convert turns one or more zlidar files into las files. Inputs are given
either as positional arguments or as one --inputs list delimited by
semicolons (or commas). Files are distributed across a fixed worker pool
and converted concurrently; status lines are printed as files complete,
which is not the order they were submitted in.

A bare file name with no directory separator is resolved against the
working directory. Without --outdir each output is written next to its
input with the extension replaced.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("inputs", "i", "", "input zlidar files, semicolon- or comma-delimited")
	convertCmd.Flags().String("outdir", "", "output directory (default: alongside each input)")
	convertCmd.Flags().Int("workers", 0, "worker pool size (0 = host parallelism)")
	convertCmd.Flags().String("wd", "", "working directory for bare file names (default: current directory)")
	convertCmd.Flags().String("report", "", "write a YAML batch report to this path")
	convertCmd.Flags().Bool("catalog", false, "record the run in the conversion catalog")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputsArg, _ := cmd.Flags().GetString("inputs")
	if inputsArg == "" && len(args) > 0 {
		inputsArg = strings.Join(args, ";")
	}
	if inputsArg == "" {
		return fmt.Errorf("no input files: provide --inputs or positional arguments")
	}
	inputs := pathutil.SplitList(inputsArg)

	cfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, batchErr := convert.Batch(inputs, cfg, convert.FileAdapter{}, os.Stdout)

	if cfg.Verbose {
		fmt.Printf("Elapsed Time: %v\n", time.Since(start).Round(time.Millisecond))
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReport(path, report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: report write failed: %v\n", err)
		}
	}

	if record, _ := cmd.Flags().GetBool("catalog"); record {
		if err := recordRun(report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: catalog write failed: %v\n", err)
		}
	}

	if batchErr != nil {
		return batchErr
	}
	if report.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", report.Failed)
	}
	return nil
}

// convertConfig assembles the stage config from flags, falling back to
// viper for values the command line left unset.
func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	workingDir, _ := cmd.Flags().GetString("wd")
	if workingDir == "" {
		workingDir = viper.GetString("convert.working_dir")
	}
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return types.ConvertConfig{}, fmt.Errorf("resolving working directory: %w", err)
		}
		workingDir = wd
	}

	outDir, _ := cmd.Flags().GetString("outdir")
	if outDir == "" {
		outDir = viper.GetString("convert.out_dir")
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("convert.workers")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	return types.ConvertConfig{
		WorkingDir: workingDir,
		OutDir:     outDir,
		Workers:    workers,
		Verbose:    verbose,
	}, nil
}

func writeReport(path string, report types.BatchReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func recordRun(report types.BatchReport) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.RecordRun(context.Background(), report)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Recorded catalog run %d\n", runID)
	return nil
}
