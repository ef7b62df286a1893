// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/google/uuid"

	"github.com/catalogforge/catalogforge/internal/errors"
	"github.com/catalogforge/catalogforge/internal/output"
	"github.com/catalogforge/catalogforge/internal/ui"
	"github.com/catalogforge/catalogforge/pkg/build"
	"github.com/catalogforge/catalogforge/pkg/catalog"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// packageExtensions lists the package-archive suffixes recognised when
// expanding a directory argument into a list of package files (§6
// "format identified by extension").
var packageExtensions = []string{".rpm", ".deb", ".tar.gz", ".tgz"}

// runBuild executes the 'build' CLI command: enqueue every package under
// the given paths, drive a Context through Process, and serialise the
// resulting catalogs (§4.3 Process, §6 Outputs).
func runBuild(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Output directory for the catalogs (overrides config)")
	cacheDir := fs.String("cache-dir", "", "Cache directory for rendered icons (overrides config)")
	tempDir := fs.String("temp-dir", "", "Scratch directory for exploded packages (overrides config)")
	oldMetadata := fs.String("old-metadata", "", "Path to a previously emitted catalog used as the cache")
	basename := fs.String("basename", "", "Basename for the emitted catalogs (overrides config)")
	apiVersion := fs.String("api-version", "", "Catalog schema api_version (overrides config)")
	maxThreads := fs.Int("max-threads", 0, "Worker pool size (overrides config when greater than 0)")
	minIconSize := fs.Int("min-icon-size", 0, "Smallest rendered icon size in pixels (overrides config)")
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: catgen build [options] <package-or-dir>...

Builds the primary/failed/ignore catalogs and icon bundle from a set of
distribution packages.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	applyOverrides(cfg, *outputDir, *cacheDir, *tempDir, *oldMetadata, *basename, *apiVersion, *maxThreads, *minIconSize)

	logLevel := slog.LevelInfo
	if *debug || globals.Verbose > 0 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	ui.InitColors(globals.NoColor)

	packages, err := discoverPackages(inputs)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	if len(packages) == 0 {
		errors.FatalError(errors.NewInputError(
			"No packages found",
			fmt.Sprintf("no files matching %s under the given paths", strings.Join(packageExtensions, ", ")),
			"Pass package files directly or a directory containing them",
		), globals.JSON)
	}

	reader := pkgreader.NewDirReader(cfg.TempDir)
	buildCtx := build.NewContext(*cfg, reader, logger)

	if err := buildCtx.Setup(); err != nil {
		errors.FatalError(err, globals.JSON)
	}

	for _, p := range packages {
		buildCtx.Enqueue(p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("build.shutdown.signal", "signal", sig.String())
		cancel()
	}()

	if !globals.Quiet && !globals.JSON {
		ui.Info(fmt.Sprintf("Processing %d package(s)...", len(packages)))
	}

	if err := buildCtx.Process(ctx); err != nil {
		errors.FatalError(errors.NewInternalError("Build failed", err.Error(), "Check the run log for the failing package", err), globals.JSON)
	}

	writer := &catalog.XMLWriter{}
	if err := buildCtx.Serialize(writer); err != nil {
		errors.FatalError(errors.NewCatalogError("Cannot write catalogs", err.Error(), "Check that output_dir is writable", err), globals.JSON)
	}

	printBuildSummary(cfg, globals, len(packages))
}

// applyOverrides layers non-empty CLI flag values on top of the
// YAML-loaded config, matching cmd/cie's flag-over-config precedence.
func applyOverrides(cfg *build.Config, outputDir, cacheDir, tempDir, oldMetadata, basename, apiVersion string, maxThreads, minIconSize int) {
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if tempDir != "" {
		cfg.TempDir = tempDir
	}
	if oldMetadata != "" {
		cfg.OldMetadata = oldMetadata
	}
	if basename != "" {
		cfg.Basename = basename
	}
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	if maxThreads > 0 {
		cfg.MaxThreads = maxThreads
	}
	if minIconSize > 0 {
		cfg.MinIconSize = minIconSize
	}
	cfg.ResolveDefaults()
}

// discoverPackages expands each input path into a sorted list of package
// files: a file is kept as-is, a directory is walked for recognised
// package extensions (§6 "a directory or list of package files").
func discoverPackages(inputs []string) ([]string, error) {
	var packages []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, errors.NewInputError("Cannot read input path", err.Error(), fmt.Sprintf("Check that %s exists", in))
		}
		if !info.IsDir() {
			packages = append(packages, in)
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, errors.NewInputError("Cannot list directory", err.Error(), fmt.Sprintf("Check permissions on %s", in))
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if hasPackageExtension(e.Name()) {
				packages = append(packages, filepath.Join(in, e.Name()))
			}
		}
	}
	sort.Strings(packages)
	return packages, nil
}

func hasPackageExtension(name string) bool {
	for _, ext := range packageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func printBuildSummary(cfg *build.Config, globals GlobalFlags, packageCount int) {
	type summary struct {
		PackageCount int    `json:"package_count"`
		OutputDir    string `json:"output_dir"`
		Basename     string `json:"basename"`
	}
	s := summary{PackageCount: packageCount, OutputDir: cfg.OutputDir, Basename: cfg.Basename}

	if globals.JSON {
		_ = output.JSON(s)
		return
	}
	if globals.Quiet {
		return
	}
	ui.Success(fmt.Sprintf("Processed %d package(s)", packageCount))
	fmt.Printf("Catalogs written to: %s\n", ui.DimText(cfg.OutputDir))
	fmt.Printf("  %s.xml.gz\n", cfg.Basename)
	fmt.Printf("  %s-failed.xml.gz\n", cfg.Basename)
	fmt.Printf("  %s-ignore.xml.gz\n", cfg.Basename)
	fmt.Printf("  %s-icons.tar.gz\n", cfg.Basename)
}
