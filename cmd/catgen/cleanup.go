// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/catalogforge/catalogforge/internal/bootstrap"
	"github.com/catalogforge/catalogforge/internal/errors"
	"github.com/catalogforge/catalogforge/internal/ui"
)

// runClean executes the 'clean' CLI command: it clears the configured
// cache and temp directories, then recreates them empty. This is
// destructive, so it requires --yes, matching cmd/cie's reset pattern.
func runClean(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm the cleanup (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: catgen clean [options]

Clears the configured cache_dir and temp_dir, deleting every rendered
icon and exploded package scratch directory.

WARNING: This operation is destructive and cannot be undone!

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if !*confirm {
		fmt.Fprintf(os.Stderr, "Error: you must pass --yes to confirm the cleanup\n")
		fmt.Fprintf(os.Stderr, "This will delete cache_dir and temp_dir.\n")
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ui.InitColors(globals.NoColor)

	for _, dir := range []string{cfg.CacheDir, cfg.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errors.FatalError(errors.NewIOError(
				"Cannot remove directory",
				err.Error(),
				fmt.Sprintf("Check permissions on %s", dir),
				err,
			), globals.JSON)
		}
	}

	dirs := bootstrap.Dirs{CacheDir: cfg.CacheDir, TempDir: cfg.TempDir, OutputDir: cfg.OutputDir}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := bootstrap.Setup(dirs, logger); err != nil {
		errors.FatalError(errors.NewIOError(
			"Cannot recreate directories",
			err.Error(),
			"Check that cache_dir/temp_dir/output_dir are writable",
			err,
		), globals.JSON)
	}

	if !globals.Quiet {
		ui.Success("Cache and temp directories cleared")
	}
}
