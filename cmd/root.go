// Package cmd implements the go2dm command line tool: one-shot utilities
// over the Reader/Writer surface for inspecting and reworking 2DM meshes.
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	cpuProfile bool

	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "go2dm",
	Short: "Utilities for 2DM mesh files",
	Long: `go2dm reads and writes the 2DM mesh file format and bundles a few
batch utilities on top of it: inspecting a mesh, merging meshes,
renumbering IDs into a contiguous sequence and importing point
triangulations.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cpuProfile {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default $HOME/.go2dm.yaml)")
	rootCmd.PersistentFlags().BoolVar(&cpuProfile, "cpuprofile", false,
		"write a CPU profile to the current directory")
	rootCmd.PersistentFlags().Bool("zero-index", false,
		"treat mesh IDs as starting at 0 instead of 1")
	viper.BindPFlag("zero_index", rootCmd.PersistentFlags().Lookup("zero-index"))
}

// initConfig loads defaults from a viper config file, if one exists.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".go2dm")
		}
	}
	viper.SetEnvPrefix("GO2DM")
	viper.AutomaticEnv()
	// Missing config files are fine; flags and defaults cover everything.
	_ = viper.ReadInConfig()
}

func zeroIndex() bool {
	return viper.GetBool("zero_index")
}
