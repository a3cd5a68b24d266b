// Package common provides tests for message and logging functionality
package common

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
)

func TestSetVerboseMode(t *testing.T) {
	// Test enabling verbose mode
	SetVerboseMode(true)
	if !VerboseMode {
		t.Error("SetVerboseMode(true) should enable verbose mode")
	}

	// Test disabling verbose mode
	SetVerboseMode(false)
	if VerboseMode {
		t.Error("SetVerboseMode(false) should disable verbose mode")
	}
}

func TestLogDebug_VerboseEnabled(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr) // Restore default output

	// Enable verbose mode
	SetVerboseMode(true)
	defer SetVerboseMode(false)

	// Test debug logging
	testMessage := "Test debug message with value: %d"
	LogDebug(testMessage, 42)

	output := buf.String()
	if !strings.Contains(output, "Test debug message with value: 42") {
		t.Errorf("LogDebug output should contain formatted message, got: %q", output)
	}
}

func TestLogDebug_VerboseDisabled(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr) // Restore default output

	// Disable verbose mode
	SetVerboseMode(false)

	// Test debug logging (should be silent)
	LogDebug("This should not appear", 42)

	output := buf.String()
	if output != "" {
		t.Errorf("LogDebug should be silent when verbose mode is disabled, got: %q", output)
	}
}

func TestLogInfo(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr) // Restore default output

	// Test info logging
	testMessage := "Test info message with value: %s"
	LogInfo(testMessage, "test")

	output := buf.String()
	if !strings.Contains(output, "Test info message with value: test") {
		t.Errorf("LogInfo output should contain formatted message, got: %q", output)
	}
}

func TestLogWarn(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr) // Restore default output

	// Test warning logging
	testMessage := "Test warning message with value: %d"
	LogWarn(testMessage, 123)

	output := buf.String()
	if !strings.Contains(output, "Test warning message with value: 123") {
		t.Errorf("LogWarn output should contain formatted message, got: %q", output)
	}
}

func TestLogError(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr) // Restore default output

	// Test error logging
	testMessage := "Test error message with value: %s"
	LogError(testMessage, "error")

	output := buf.String()
	if !strings.Contains(output, "Test error message with value: error") {
		t.Errorf("LogError output should contain formatted message, got: %q", output)
	}
}

func TestFormatError(t *testing.T) {
	baseMessage := "Base error message"
	originalError := fmt.Errorf("original error")

	formattedError := FormatError(baseMessage, originalError)

	expectedMessage := "Base error message: original error"
	if formattedError.Error() != expectedMessage {
		t.Errorf("FormatError() = %q, want %q", formattedError.Error(), expectedMessage)
	}
}

func TestErrorConstants(t *testing.T) {
	// Test that error constants are not empty
	errorConstants := map[string]string{
		"ErrFailedToOpenDisc":     ErrFailedToOpenDisc,
		"ErrFailedToReadDisc":     ErrFailedToReadDisc,
		"ErrFailedToWriteDisc":    ErrFailedToWriteDisc,
		"ErrFailedToParseDOL":     ErrFailedToParseDOL,
		"ErrFailedToParseBanner":  ErrFailedToParseBanner,
		"ErrFailedToCreateOutput": ErrFailedToCreateOutput,
		"ErrFailedToExportPNG":    ErrFailedToExportPNG,
		"ErrFailedToExportYAML":   ErrFailedToExportYAML,
	}

	for name, value := range errorConstants {
		if value == "" {
			t.Errorf("Error constant %s should not be empty", name)
		}
		if len(value) < 10 {
			t.Errorf("Error constant %s seems too short: %q", name, value)
		}
	}
}

// Test logging with no format arguments
func TestLogFunctions_NoArgs(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	// Test with no format arguments
	LogInfo("Simple message without formatting")

	output := buf.String()
	expected := "Simple message without formatting"
	if !strings.Contains(output, expected) {
		t.Errorf("LogInfo without args should contain %q, got: %q", expected, output)
	}
}
