// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package build implements the Context/Scheduler, the Package Task state
// machine, the Plugin Loader, and the cache-fingerprint machinery that
// together form the build pipeline's core (spec §2 items 4–6).
package build

import "runtime"

// ConcurrencyConfig groups the pool-sizing knobs, mirroring the teacher's
// nested IngestionConfig.Concurrency sub-struct.
type ConcurrencyConfig struct {
	// Workers is the fixed worker-pool size (§5). DefaultConfig sets it to
	// runtime.NumCPU(); ResolveDefaults replaces zero with MaxThreads.
	Workers int `yaml:"workers"`
}

// Config is the build pipeline's configuration surface (§6 "Configuration
// surface"), decoded from YAML with overrides layered on by the CLI.
type Config struct {
	// NoNet disables remote screenshot fetch (Non-goal; kept as a surface
	// flag consumed by the screenshot-fetch collaborator, not by this
	// package).
	NoNet bool `yaml:"no_net"`

	// APIVersion selects the catalog XML schema (§6).
	APIVersion string `yaml:"api_version"`

	// AddCacheID controls whether X-CacheID is emitted in each record's
	// metadata map.
	AddCacheID bool `yaml:"add_cache_id"`

	// HiDPIEnabled is decoded from the config file. The icon plugin does
	// not read it: it renders every size in plugins.IconSizes (64 and 128)
	// whatever its value.
	HiDPIEnabled bool `yaml:"hidpi_enabled"`

	// EmbeddedIcons controls whether icons are embedded inline rather
	// than referenced by name.
	EmbeddedIcons bool `yaml:"embedded_icons"`

	// MaxThreads bounds the worker pool (§5). Zero resolves to
	// runtime.NumCPU().
	MaxThreads int `yaml:"max_threads"`

	// MinIconSize is the smallest icon size rendered by the icon plugin.
	MinIconSize int `yaml:"min_icon_size"`

	// Basename names the three output catalogs and the icon tar (§6).
	Basename string `yaml:"basename"`

	// OldMetadata points at a previously emitted catalog (file or
	// directory of files) used as the cache lookup (§4.3 Setup).
	OldMetadata string `yaml:"old_metadata"`

	// ExtraAppstream is a directory of supplementary AppData XML files
	// merged in alongside package-sourced ones.
	ExtraAppstream string `yaml:"extra_appstream"`

	// ExtraAppdata is a directory of legacy-named supplementary AppData
	// XML files (pre-metainfo rename).
	ExtraAppdata string `yaml:"extra_appdata"`

	// ExtraScreenshots is a directory of supplementary screenshot images.
	ExtraScreenshots string `yaml:"extra_screenshots"`

	// ScreenshotURI is the base URI remote screenshots are served from.
	ScreenshotURI string `yaml:"screenshot_uri"`

	// LogDir, ScreenshotDir, CacheDir, TempDir, OutputDir are the four
	// directories named by §6.
	LogDir        string `yaml:"log_dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	CacheDir      string `yaml:"cache_dir"`
	TempDir       string `yaml:"temp_dir"`
	OutputDir     string `yaml:"output_dir"`

	// IgnoreMissingInfo downgrades "no application metadata file" from
	// fatal to veto-only (§4.3 Process flags).
	IgnoreMissingInfo bool `yaml:"ignore_missing_info"`

	// IgnoreMissingParents allows an addon whose extends target is not
	// present in this run to still be emitted (§4.3 Process flags).
	IgnoreMissingParents bool `yaml:"ignore_missing_parents"`

	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// DefaultConfig mirrors ingestion.DefaultConfig: sane defaults for every
// field, with MaxThreads/Concurrency.Workers resolved from the host CPU
// count at call time.
func DefaultConfig() Config {
	return Config{
		APIVersion:  "0.61",
		AddCacheID:  true,
		MinIconSize: 64,
		Basename:    "appstream",
		MaxThreads:  runtime.NumCPU(),
		Concurrency: ConcurrencyConfig{Workers: runtime.NumCPU()},
	}
}

// ResolveDefaults fills in zero-valued fields that must never end up at
// zero at runtime (worker count, icon size), without touching fields the
// caller deliberately left at their zero value.
func (c *Config) ResolveDefaults() {
	if c.MaxThreads <= 0 {
		c.MaxThreads = runtime.NumCPU()
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = c.MaxThreads
	}
	if c.MinIconSize <= 0 {
		c.MinIconSize = 64
	}
	if c.APIVersion == "" {
		c.APIVersion = "0.61"
	}
	if c.Basename == "" {
		c.Basename = "appstream"
	}
}
