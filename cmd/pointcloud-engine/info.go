// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshintel/pointcloud-engine/internal/lidar"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the header of a las or zlidar file",
	Long: `Info opens one point-cloud file and prints its header: format, version,
point count, coordinate scale and offset, and bounding box.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := lidar.Open(args[0])
	if err != nil {
		return err
	}
	h := f.Header()

	fmt.Printf("File:        %s\n", f.ShortName())
	fmt.Printf("Format:      %s\n", f.Format())
	fmt.Printf("Version:     %d.%d\n", h.VersionMajor, h.VersionMinor)
	fmt.Printf("Points:      %d\n", f.PointCount())
	fmt.Printf("Scale:       %g, %g, %g\n", h.XScale, h.YScale, h.ZScale)
	fmt.Printf("Offset:      %g, %g, %g\n", h.XOffset, h.YOffset, h.ZOffset)
	fmt.Printf("Bounds X:    [%g, %g]\n", h.MinX, h.MaxX)
	fmt.Printf("Bounds Y:    [%g, %g]\n", h.MinY, h.MaxY)
	fmt.Printf("Bounds Z:    [%g, %g]\n", h.MinZ, h.MaxZ)
	return nil
}
