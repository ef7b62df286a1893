// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
	"github.com/catalogforge/catalogforge/pkg/plugins"
)

// State is one state in the per-package state machine (§4.2).
type State int

const (
	Queued State = iota
	Opened
	Ensured
	Exploded
	Enriched
	AppsBuilt
	Finished
	Failed
	Ignored
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Opened:
		return "opened"
	case Ensured:
		return "ensured"
	case Exploded:
		return "exploded"
	case Enriched:
		return "enriched"
	case AppsBuilt:
		return "apps_built"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Task runs one package through the full per-package pipeline (§4.2).
type Task struct {
	filename string
	reader   pkgreader.Reader
	loader   *Loader
	cfg      Config
	logger   *slog.Logger

	state   State
	pkg     *pkgreader.Package
	apps    []*apprecord.Record
	failErr string
}

// NewTask constructs a task for one package filename, not yet run.
func NewTask(filename string, reader pkgreader.Reader, loader *Loader, cfg Config, logger *slog.Logger) *Task {
	if logger == nil {
		logger = slog.Default()
	}
	return &Task{filename: filename, reader: reader, loader: loader, cfg: cfg, logger: logger, state: Queued}
}

// State returns the task's current state.
func (t *Task) State() State { return t.state }

// Apps returns the application records accumulated so far.
func (t *Task) Apps() []*apprecord.Record { return t.apps }

// Package returns the opened package, or nil if the task failed before
// Open completed.
func (t *Task) Package() *pkgreader.Package { return t.pkg }

// Run drives the task through every state to a terminal one. It never
// returns an error for per-task failures (§7 "Propagation": per-task
// errors never abort the run) — callers read t.State()/t.Apps() for the
// outcome.
func (t *Task) Run(ctx context.Context) {
	pkg, err := t.reader.Open(ctx, t.filename)
	if err != nil {
		t.fail(fmt.Sprintf("cannot open package: %v", err))
		return
	}
	t.pkg = pkg
	t.state = Opened

	if err := t.reader.Ensure(ctx, pkg); err != nil {
		t.fail(fmt.Sprintf("cannot ensure package metadata: %v", err))
		return
	}
	t.state = Ensured

	if !anyFileMatches(pkg.Files, t.loader) {
		t.state = Ignored
		t.logger.Info("build.task.ignored", "package", pkg.Basename)
		return
	}

	scratch, err := t.reader.Explode(ctx, pkg, t.loader.Globs())
	if err != nil {
		t.fail(fmt.Sprintf("cannot explode package: %v", err))
		return
	}
	t.state = Exploded
	defer func() {
		_ = os.RemoveAll(scratch)
		_ = t.reader.Close(pkg)
	}()

	t.enrich(ctx, pkg, scratch)
	t.state = Enriched

	t.buildApps(ctx, scratch)
	t.state = AppsBuilt

	t.state = Finished
	t.logger.Info("build.task.finished", "package", pkg.Basename, "apps", len(t.apps))
}

// anyFileMatches reports whether any of pkg's declared files matches the
// loader's glob union (§4.2 state 2 "Ensured").
func anyFileMatches(files []string, loader *Loader) bool {
	for _, f := range files {
		if loader.MatchAny(f) {
			return true
		}
	}
	return false
}

func (t *Task) enrich(ctx context.Context, pkg *pkgreader.Package, scratch string) {
	var extracted []string
	_ = filepath.WalkDir(scratch, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(scratch, path)
		if relErr != nil {
			return nil
		}
		extracted = append(extracted, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(extracted)

	apps := plugins.NewAppList()
	for _, rel := range extracted {
		full := filepath.Join(scratch, rel)
		reason, fatal := t.loader.RunProcessFile(ctx, pkg, rel, full, apps)
		if fatal != nil {
			t.logger.Warn("build.task.process_file.error", "package", pkg.Basename, "path", rel, "err", fatal)
			continue
		}
		if reason != "" {
			t.logger.Warn("build.task.process_file.veto", "package", pkg.Basename, "path", rel, "reason", reason)
		}
	}
	t.apps = apps.All()
}

func (t *Task) buildApps(ctx context.Context, scratch string) {
	for _, app := range t.apps {
		t.loader.RunProcessApp(ctx, app, scratch)
		app.Validate()
	}
}

// fail records a synthetic single-component failed-store record carrying
// the error message (§4.2 "Partial failure").
func (t *Task) fail(reason string) {
	t.state = Failed
	t.failErr = reason
	rec := apprecord.NewRecord(t.filename)
	rec.AddVeto(reason)
	t.apps = []*apprecord.Record{rec}
	t.logger.Warn("build.task.failed", "package", t.filename, "reason", reason)
}
