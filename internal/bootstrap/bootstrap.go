// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
)

// Dirs names the directories a build run owns (§6 "the four
// directories"). Per-package scratch directories are created under
// TempDir.
type Dirs struct {
	CacheDir  string
	TempDir   string
	OutputDir string
}

// Setup idempotently creates every non-empty directory in d and verifies
// it is writable by probing a throwaway file. It is safe to call more
// than once (§4.3 Setup runs once per process, but individual directory
// creation is idempotent by construction, mirroring InitProject's
// idempotent-initialization contract).
func Setup(d Dirs, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, dir := range []string{d.CacheDir, d.TempDir, d.OutputDir} {
		if dir == "" {
			continue
		}
		if err := ensureWritableDir(dir); err != nil {
			return err
		}
		logger.Debug("build.setup.dir.ready", "dir", dir)
	}
	return nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".catgen-writable-*")
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
