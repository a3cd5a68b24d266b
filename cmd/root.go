// Package cmd provides command-line interface functionality for GCMTools.
// GCMTools is a collection of utilities for inspecting and modifying
// GameCube disc images (.iso/.gcm).
package cmd

import (
	"os"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the GCMTools application.
var rootCmd = &cobra.Command{
	Use:   "gcmtools",
	Short: "Tools for inspecting and modifying GameCube disc images",
	Long: `GCMTools - A collection of utilities for inspecting and modifying
GameCube disc images (.iso/.gcm format).

Currently supports:
  - Disc images (info, file listing, read/write, full extraction)
  - DOL executables (section layout, offset/address mapping, contiguity)
  - Banner files (PNG image export/import, YAML metadata export)

Examples:
  gcmtools iso info melee.iso
  gcmtools iso ls melee.iso audio/us
  gcmtools iso read melee.iso opening.bnr banner.bnr
  gcmtools iso dump melee.iso ./output/
  gcmtools dol info melee.iso
  gcmtools dol map melee.iso 0x80003100
  gcmtools banner export melee.iso ./output/

Use 'gcmtools [command] --help' for more information about a command.`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		common.LogError("%v", err)
		os.Exit(1)
	}
}
