// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package main implements the catgen CLI, a thin front end over
// pkg/build: it parses packages files or a directory of them, drives a
// Context through setup/enqueue/process/serialize, and reports the
// resulting catalog counts.
//
// Usage:
//
//	catgen build <package-or-dir>...   Build catalogs from packages
//	catgen clean                       Clear cache/temp directories
//	catgen --version                   Show version and exit
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags carries the flags every subcommand reads back, mirroring
// cmd/cie's GlobalFlags pattern.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	NoColor bool
	Verbose int
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to a catgen config YAML file")
		jsonOut     = flag.Bool("json", false, "Emit machine-readable JSON output")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		verbose     = flag.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `catgen - content-addressed package catalog builder

Usage:
  catgen <command> [options]

Commands:
  build   Build primary/failed/ignore catalogs from a set of packages
  clean   Clear the configured cache and temp directories

Global Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  catgen build /srv/repo/packages/*.rpm --output-dir ./out
  catgen build /srv/repo/packages --old-metadata ./out/appstream.xml.gz
  catgen --config catgen.yaml clean --yes
`)
	}

	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	if *showVersion {
		fmt.Printf("catgen version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	globals := GlobalFlags{JSON: *jsonOut, Quiet: *quiet, NoColor: *noColor, Verbose: *verbose}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "build":
		runBuild(cmdArgs, *configPath, globals)
	case "clean":
		runClean(cmdArgs, *configPath, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
