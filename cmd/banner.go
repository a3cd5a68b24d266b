// Package cmd provides command-line interface for banner file processing.
// This file contains commands for exporting banner images and metadata
// from GameCube disc images.
package cmd

import (
	"fmt"

	"github.com/hansbonini/gcmtools/pkg"
	"github.com/spf13/cobra"
)

// bannerCmd represents the parent command for all banner operations.
var bannerCmd = &cobra.Command{
	Use:   "banner",
	Short: "Process banner files from GameCube disc images",
	Long: `Process banner files (.bnr) from GameCube disc images.

Commands:
  export    Export the banner image as PNG and its metadata as YAML
  import    Replace the banner image with a 96x32 PNG

Examples:
  gcmtools banner export melee.iso ./output/
  gcmtools banner import melee.iso banner.png`,
}

// bannerExportCmd exports the banner image and metadata.
var bannerExportCmd = &cobra.Command{
	Use:   "export [input_file] [output_directory]",
	Short: "Export banner image and metadata",
	Long: `Export the banner of a disc image: the 96x32 RGB5A1 banner image is
written as banner.png and the metadata blocks (game name, developer,
description) as banner.yaml.

Flags:
  -p, --path    Path of the banner file inside the disc (default opening.bnr)

Example:
  gcmtools banner export melee.iso ./output/
  gcmtools banner export -p opening.bnr melee.iso ./output/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bannerPath, err := cmd.Flags().GetString("path")
		if err != nil {
			return fmt.Errorf("error getting path flag: %w", err)
		}

		processor := pkg.NewBannerProcessor()
		if err := processor.Export(args[0], bannerPath, args[1]); err != nil {
			return fmt.Errorf("failed to export banner: %w", err)
		}

		fmt.Println("Banner exported successfully!")
		return nil
	},
}

// bannerImportCmd replaces the banner image inside a disc image.
var bannerImportCmd = &cobra.Command{
	Use:   "import [input_file] [image_file]",
	Short: "Replace the banner image with a PNG",
	Long: `Replace the banner image of a disc image with a 96x32 PNG. The image
is re-encoded as RGB5A1 tile data and written over the pixel data of the
banner file; the metadata blocks are left untouched.

Flags:
  -p, --path    Path of the banner file inside the disc (default opening.bnr)

Example:
  gcmtools banner import melee.iso banner.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bannerPath, err := cmd.Flags().GetString("path")
		if err != nil {
			return fmt.Errorf("error getting path flag: %w", err)
		}

		processor := pkg.NewBannerProcessor()
		if err := processor.Import(args[0], bannerPath, args[1]); err != nil {
			return fmt.Errorf("failed to import banner: %w", err)
		}

		fmt.Println("Banner imported successfully!")
		return nil
	},
}

// init initializes the banner command with its subcommands and flags.
func init() {
	rootCmd.AddCommand(bannerCmd)

	bannerCmd.AddCommand(bannerExportCmd)
	bannerCmd.AddCommand(bannerImportCmd)

	bannerExportCmd.Flags().StringP("path", "p", pkg.DefaultBannerPath, "Path of the banner file inside the disc")
	bannerImportCmd.Flags().StringP("path", "p", pkg.DefaultBannerPath, "Path of the banner file inside the disc")
}
