// Package common provides shared utilities for GameCube file processing.
// This file centralizes log wrappers and user-facing message strings.
package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrFailedToOpenDisc     = "failed to open disc image"
	ErrFailedToReadDisc     = "failed to read disc image"
	ErrFailedToWriteDisc    = "failed to write disc image"
	ErrFailedToParseDOL     = "failed to parse DOL executable"
	ErrFailedToParseBanner  = "failed to parse banner file"
	ErrFailedToCreateOutput = "failed to create output file"
	ErrFailedToExportPNG    = "failed to export banner PNG"
	ErrFailedToExportYAML   = "failed to export YAML metadata"
	ErrFailedToReadImage    = "failed to read image file"
	ErrFailedToDecodePNG    = "failed to decode PNG image"
)

// Warning messages
const (
	WarnUnexpectedMagic = "Unexpected banner magic %q"
)

// Info messages
const (
	InfoDiscOpened       = "Disc image opened: %s (%s, version %d)"
	InfoFilesExtracted   = "Extracted %d files to: %s"
	InfoFileRead         = "Read %d bytes from %s at offset %s"
	InfoFileWritten      = "Wrote %d bytes to %s at offset %s"
	InfoBannerExported   = "Banner image exported to: %s"
	InfoBannerImported   = "Wrote %d bytes of banner pixel data to %s"
	InfoMetadataExported = "Banner metadata exported to: %s"
	InfoDiscInfoExported = "Disc information exported to: %s"
)

// Debug messages
const (
	DebugDiscLoaded    = "Disc %s loaded: %d registry entries"
	DebugSectionInfo   = "Section %s"
	DebugExtractedFile = "Extracted %s (%d bytes)"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}
