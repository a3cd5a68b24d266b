// Package cmd provides command-line interface for DOL executable analysis.
// This file contains commands for inspecting the section layout of the
// main executable inside a GameCube disc image.
package cmd

import (
	"fmt"
	"strconv"

	"github.com/hansbonini/gcmtools/pkg"
	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/spf13/cobra"
)

// dolCmd represents the parent command for all DOL executable operations.
var dolCmd = &cobra.Command{
	Use:   "dol",
	Short: "Analyze DOL executables from GameCube disc images",
	Long: `Analyze the DOL executable of a GameCube disc image: the section
table mapping file offsets to runtime memory addresses.

Commands:
  info         Show the section layout, BSS region and entry point
  map          Translate between file offsets and memory addresses
  contiguous   Check whether a file range maps to contiguous memory

By default the input file is a disc image and its main executable
(start.dol) is analyzed; with --raw the input is a standalone .dol file.

Examples:
  gcmtools dol info melee.iso
  gcmtools dol info --raw start.dol
  gcmtools dol map melee.iso 0x80003100
  gcmtools dol contiguous melee.iso 0x3b4250 0x3b7b77`,
}

// parseValue32 parses a decimal or 0x-prefixed 32-bit value from the
// command line.
func parseValue32(arg string) (uint32, error) {
	value, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", arg, err)
	}
	return common.SafeUint64ToUint32(value)
}

// dolInfoCmd shows the executable layout.
var dolInfoCmd = &cobra.Command{
	Use:   "info [input_file]",
	Short: "Show the DOL section layout",
	Long: `Show the section layout of the DOL executable: the text and data
sections with their file offsets, memory addresses and sizes, plus the
BSS region and the entry point.

Example:
  gcmtools dol info melee.iso
  gcmtools dol info --raw start.dol`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetBool("raw")
		if err != nil {
			return fmt.Errorf("error getting raw flag: %w", err)
		}

		processor := pkg.NewDOLProcessor()
		return processor.Info(args[0], raw)
	},
}

// dolMapCmd translates between file offsets and memory addresses.
var dolMapCmd = &cobra.Command{
	Use:   "map [input_file] [value]",
	Short: "Translate between file offsets and memory addresses",
	Long: `Translate a runtime memory address to the DOL file offset of the
bytes loaded there (the default), or a file offset to the memory address
it is loaded to (--reverse).

Example:
  gcmtools dol map melee.iso 0x80003100
  gcmtools dol map --reverse melee.iso 0x100`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetBool("raw")
		if err != nil {
			return fmt.Errorf("error getting raw flag: %w", err)
		}
		reverse, err := cmd.Flags().GetBool("reverse")
		if err != nil {
			return fmt.Errorf("error getting reverse flag: %w", err)
		}
		value, err := parseValue32(args[1])
		if err != nil {
			return err
		}

		processor := pkg.NewDOLProcessor()
		return processor.Map(args[0], raw, value, !reverse)
	},
}

// dolContiguousCmd checks contiguity of a range across section boundaries.
var dolContiguousCmd = &cobra.Command{
	Use:   "contiguous [input_file] [start] [end]",
	Short: "Check whether a range maps to contiguous memory",
	Long: `Check whether the half-open range [start, end) of the DOL file is
loaded to one gap-free range of memory, even across section boundaries.
With --mem, start and end are runtime memory addresses instead of file
offsets.

Example:
  gcmtools dol contiguous melee.iso 0x3b4250 0x3b7b77
  gcmtools dol contiguous --mem melee.iso 0x80003100 0x80003200`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetBool("raw")
		if err != nil {
			return fmt.Errorf("error getting raw flag: %w", err)
		}
		byMem, err := cmd.Flags().GetBool("mem")
		if err != nil {
			return fmt.Errorf("error getting mem flag: %w", err)
		}
		start, err := parseValue32(args[1])
		if err != nil {
			return err
		}
		end, err := parseValue32(args[2])
		if err != nil {
			return err
		}

		processor := pkg.NewDOLProcessor()
		return processor.Contiguous(args[0], raw, start, end, byMem)
	},
}

// init initializes the dol command with its subcommands and flags.
func init() {
	rootCmd.AddCommand(dolCmd)

	dolCmd.AddCommand(dolInfoCmd)
	dolCmd.AddCommand(dolMapCmd)
	dolCmd.AddCommand(dolContiguousCmd)

	dolCmd.PersistentFlags().Bool("raw", false, "Treat the input file as a standalone .dol file")
	dolMapCmd.Flags().Bool("reverse", false, "Translate a file offset to a memory address")
	dolContiguousCmd.Flags().Bool("mem", false, "Interpret start and end as memory addresses")
}
