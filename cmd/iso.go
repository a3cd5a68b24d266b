// Package cmd provides command-line interface for disc image processing.
// This file contains commands for inspecting, reading, writing and
// extracting GameCube disc images.
package cmd

import (
	"fmt"

	"github.com/hansbonini/gcmtools/pkg"
	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/spf13/cobra"
)

// isoCmd represents the parent command for all disc image operations.
var isoCmd = &cobra.Command{
	Use:   "iso",
	Short: "Process GameCube disc image files",
	Long: `Process GameCube disc image files (.iso/.gcm format).

Commands:
  info      Show disc header information
  ls        List files inside the disc image
  read      Read a file (or part of it) out of the disc image
  write     Write data into a file inside the disc image
  dump      Extract all files from the disc image

Examples:
  gcmtools iso info melee.iso
  gcmtools iso ls -s melee.iso audio/us
  gcmtools iso read melee.iso opening.bnr banner.bnr
  gcmtools iso write melee.iso opening.bnr banner_modified.bnr
  gcmtools iso dump -v melee.iso ./output/`,
}

// isoInfoCmd shows the decoded disc header fields.
var isoInfoCmd = &cobra.Command{
	Use:   "info [input_file]",
	Short: "Show disc header information",
	Long: `Show the decoded disc header of a GameCube disc image: game code,
maker code, game name, as well as the offsets and sizes of the main
executable (DOL), the file system table (FST) and the apploader.

Example:
  gcmtools iso info melee.iso
  gcmtools iso info --yaml info.yaml melee.iso`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yamlOutput, err := cmd.Flags().GetString("yaml")
		if err != nil {
			return fmt.Errorf("error getting yaml flag: %w", err)
		}

		processor := pkg.NewISOProcessor()
		return processor.Info(args[0], yamlOutput)
	},
}

// isoLsCmd lists the files inside a disc image.
var isoLsCmd = &cobra.Command{
	Use:   "ls [input_file] [directory]",
	Short: "List files inside the disc image",
	Long: `List all files below a directory inside the disc image, in the order
they appear in the file system table. Without a directory argument the
whole disc is listed, including the synthesized system regions (boot.bin,
bi2.bin, fst.bin, start.dol, appldr.bin).

Example:
  gcmtools iso ls melee.iso
  gcmtools iso ls -s melee.iso audio/us`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		directory := ""
		if len(args) > 1 {
			directory = args[1]
		}
		showSize, err := cmd.Flags().GetBool("size")
		if err != nil {
			return fmt.Errorf("error getting size flag: %w", err)
		}

		processor := pkg.NewISOProcessor()
		return processor.List(args[0], directory, showSize)
	},
}

// isoReadCmd reads data out of a file inside the disc image.
var isoReadCmd = &cobra.Command{
	Use:   "read [input_file] [internal_path] [output_file]",
	Short: "Read a file out of the disc image",
	Long: `Read a file (or a byte range of it) out of the disc image and write
it to a local file.

Flags:
  -o, --offset    Offset inside the internal file (default 0)
  -l, --length    Number of bytes to read (default: to end of file)

Example:
  gcmtools iso read melee.iso opening.bnr banner.bnr
  gcmtools iso read -o 0x1000 -l 0x42 melee.iso PlSs.dat part.bin`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := cmd.Flags().GetInt64("offset")
		if err != nil {
			return fmt.Errorf("error getting offset flag: %w", err)
		}
		length, err := cmd.Flags().GetInt64("length")
		if err != nil {
			return fmt.Errorf("error getting length flag: %w", err)
		}

		processor := pkg.NewISOProcessor()
		return processor.Read(args[0], args[1], args[2], offset, length)
	},
}

// isoWriteCmd writes data into a file inside the disc image.
var isoWriteCmd = &cobra.Command{
	Use:   "write [input_file] [internal_path] [source_file]",
	Short: "Write data into a file inside the disc image",
	Long: `Write the contents of a local file into a file inside the disc image
at the given offset. The write may never cross the end of the internal
file: files inside a disc image can never change size.

Flags:
  -o, --offset    Offset inside the internal file (default 0)

Example:
  gcmtools iso write melee.iso opening.bnr banner_modified.bnr`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := cmd.Flags().GetInt64("offset")
		if err != nil {
			return fmt.Errorf("error getting offset flag: %w", err)
		}

		processor := pkg.NewISOProcessor()
		return processor.Write(args[0], args[1], args[2], offset)
	},
}

// isoDumpCmd extracts all files from a disc image.
var isoDumpCmd = &cobra.Command{
	Use:   "dump [input_file] [output_directory]",
	Short: "Extract all files from the disc image",
	Long: `Extract every file of the disc image into the output directory,
preserving the internal directory structure. The synthesized system
regions (boot.bin, bi2.bin, fst.bin, start.dol, appldr.bin) are
extracted as well.

Example:
  gcmtools iso dump melee.iso ./output/
  gcmtools iso dump -v melee.iso ./output/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}
		common.SetVerboseMode(verbose)

		inputFile := args[0]
		outputDir := args[1]

		processor := pkg.NewISOProcessor()

		fmt.Printf("Processing disc image: %s\n", inputFile)
		fmt.Printf("Output directory: %s\n", outputDir)

		if err := processor.Dump(inputFile, outputDir); err != nil {
			return fmt.Errorf("failed to process disc image: %w", err)
		}

		fmt.Println("Disc image processed successfully!")
		fmt.Printf("Files extracted to: %s\n", outputDir)

		return nil
	},
}

// init initializes the iso command with its subcommands and flags.
func init() {
	rootCmd.AddCommand(isoCmd)

	isoCmd.AddCommand(isoInfoCmd)
	isoCmd.AddCommand(isoLsCmd)
	isoCmd.AddCommand(isoReadCmd)
	isoCmd.AddCommand(isoWriteCmd)
	isoCmd.AddCommand(isoDumpCmd)

	isoInfoCmd.Flags().String("yaml", "", "Also export the disc information to a YAML file")
	isoLsCmd.Flags().BoolP("size", "s", false, "Show file sizes")
	isoReadCmd.Flags().Int64P("offset", "o", 0, "Offset inside the internal file")
	isoReadCmd.Flags().Int64P("length", "l", -1, "Number of bytes to read (default: to end of file)")
	isoWriteCmd.Flags().Int64P("offset", "o", 0, "Offset inside the internal file")
	isoDumpCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output with per-file details")
}
