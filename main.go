/*
GCMTools - A collection of utilities for inspecting and modifying GameCube disc images.

Copyright © 2025 Hans Bonini
*/
package main

import (
	"fmt"
	"os"

	"github.com/hansbonini/gcmtools/cmd"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Check for version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("GCMTools %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cmd.Execute()
}
