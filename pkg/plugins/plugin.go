// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package plugins implements the capability-set plugin contract: plain
// data-holding values registered in a vector, each declaring a set of
// path globs and implementing zero or more of the pipeline hooks
// (ProcessFile, ProcessApp, Merge). No inheritance is required; a plugin
// that does not implement a hook simply does not satisfy its interface,
// and the loader's hook dispatch skips it.
package plugins

import (
	"context"
	"fmt"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// Plugin is the minimal capability every plugin has: a name and the set
// of path globs it owns.
type Plugin interface {
	Name() string
	Globs() []string
}

// FileProcessor enriches application records from one extracted file.
type FileProcessor interface {
	Plugin
	ProcessFile(ctx context.Context, pkg *pkgreader.Package, path string, apps *AppList) error
}

// AppProcessor runs a post-enrichment tweak on one application.
type AppProcessor interface {
	Plugin
	ProcessApp(ctx context.Context, app *apprecord.Record, tmpdir string) error
}

// Merger runs the cross-package pass described in spec §4.4.
type Merger interface {
	Plugin
	Merge(apps []*apprecord.Record) []*apprecord.Record
}

// AppList is the per-task local application list threaded through
// ProcessFile hooks (§4.1: "process_file(pkg, path, app_list)").
type AppList struct {
	apps []*apprecord.Record
}

// NewAppList returns an empty AppList.
func NewAppList() *AppList {
	return &AppList{}
}

// Add appends a newly discovered application.
func (l *AppList) Add(app *apprecord.Record) {
	l.apps = append(l.apps, app)
}

// Find returns the application with the given id_full, or nil.
func (l *AppList) Find(idFull string) *apprecord.Record {
	for _, a := range l.apps {
		if a.IDFull == idFull {
			return a
		}
	}
	return nil
}

// All returns every application accumulated so far.
func (l *AppList) All() []*apprecord.Record {
	return l.apps
}

// vetoError marks a recoverable per-application failure: attach a reason
// and continue (§4.1 "Failure policy").
type vetoError struct {
	reason string
}

func (e *vetoError) Error() string { return e.reason }

// Veto returns an error that the task dispatcher recognises as a veto
// rather than a fatal plugin failure.
func Veto(format string, args ...any) error {
	return &vetoError{reason: fmt.Sprintf(format, args...)}
}

// AsVeto reports whether err is a veto error and returns its reason.
func AsVeto(err error) (string, bool) {
	v, ok := err.(*vetoError)
	if !ok {
		return "", false
	}
	return v.reason, true
}
