// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/pointcloud-engine/internal/catalog"
	"github.com/meshintel/pointcloud-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Review past conversion runs",
	Long: `Catalog manages a local SQLite database of conversion runs recorded by
convert --catalog. Use list to see recent runs and show to see the
per-file outcomes of one run.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversion runs",
	RunE:  runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-file outcomes of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "", "directory holding the catalog database (default: .pointcloud)")
	catalogCmd.PersistentFlags().Int("max-runs", 0, "maximum runs listed (default 20)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfigFrom(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Started", "Files", "Converted", "Empty", "Failed", "Workers", "Duration"})
	for _, r := range runs {
		dur := time.Duration(r.DurationSeconds * float64(time.Second)).Round(time.Millisecond)
		t.AppendRow(table.Row{
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			r.NumFiles, r.Converted, r.Empty, r.Failed, r.Workers, dur,
		})
	}
	t.Render()
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := catalog.NewStore(catalogConfigFrom(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := store.RunFiles(context.Background(), runID)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Status", "Input", "Output", "Error"})
	for _, f := range files {
		t.AppendRow(table.Row{f.Index, string(f.Status), f.Input, f.Output, f.Error})
	}
	t.Render()
	return nil
}

// catalogConfig reads catalog settings from viper only, for commands that
// have no catalog flags of their own (convert --catalog).
func catalogConfig() types.CatalogConfig {
	dir := viper.GetString("catalog.dir")
	if dir == "" {
		dir = ".pointcloud"
	}
	return types.CatalogConfig{
		Dir:     dir,
		MaxRuns: viper.GetInt("catalog.max_runs"),
	}
}

func catalogConfigFrom(cmd *cobra.Command) types.CatalogConfig {
	cfg := catalogConfig()
	if dir, _ := cmd.Flags().GetString("catalog-dir"); dir != "" {
		cfg.Dir = dir
	}
	if maxRuns, _ := cmd.Flags().GetInt("max-runs"); maxRuns > 0 {
		cfg.MaxRuns = maxRuns
	}
	return cfg
}
