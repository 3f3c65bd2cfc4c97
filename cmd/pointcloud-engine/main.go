// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pointcloud-engine CLI, a small
// collection of point-cloud file tools: batch format conversion, file
// inspection, and a conversion run catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pointcloud-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "pointcloud-engine",
	Short: "Tools for working with zlidar and las point-cloud files",
	Long: `pointcloud-engine converts compressed zlidar point-cloud files into the
las interchange format and inspects point-cloud file headers.

Each tool is a subcommand: convert runs a parallel batch conversion,
info prints one file's header, and catalog reviews past conversion runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pointcloud-engine.yaml or ~/.config/pointcloud-engine/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable progress reporting")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pointcloud-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pointcloud-engine"))
		}
	}

	viper.SetEnvPrefix("POINTCLOUD_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
