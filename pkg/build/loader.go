// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"context"
	"fmt"

	"github.com/catalogforge/catalogforge/internal/globmatch"
	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
	"github.com/catalogforge/catalogforge/pkg/plugins"
)

// globRoute is one (glob, plugin index) pair in the loader's routing
// table (§9 "structured routing table").
type globRoute struct {
	glob       string
	pluginIdx  int
	literalLen int
}

// Loader discovers plugins at startup, exposes the union of their globs,
// and dispatches file paths to the single best-matching plugin (§4.1).
type Loader struct {
	registered []plugins.Plugin
	routes     []globRoute
}

// NewLoader builds a Loader over the given plugins, in registration
// order. Registration order is significant: MatchFile ties resolve in
// favour of earlier registrations, and RunProcessApp runs plugins in
// that order.
func NewLoader(registered ...plugins.Plugin) *Loader {
	l := &Loader{registered: registered}
	for idx, p := range registered {
		for _, g := range p.Globs() {
			l.routes = append(l.routes, globRoute{
				glob:       g,
				pluginIdx:  idx,
				literalLen: globmatch.LiteralPrefixLen(g),
			})
		}
	}
	return l
}

// Globs returns the union of every registered plugin's globs.
func (l *Loader) Globs() []string {
	globs := make([]string, 0, len(l.routes))
	for _, r := range l.routes {
		globs = append(globs, r.glob)
	}
	return globs
}

// MatchAny reports whether path matches at least one registered glob,
// the per-path test behind the task's Ignored vs Exploded decision
// (§4.2 state 2).
func (l *Loader) MatchAny(path string) bool {
	for _, r := range l.routes {
		if globmatch.Matches(path, r.glob) {
			return true
		}
	}
	return false
}

// MatchFile returns the single plugin whose glob best matches path: the
// longest literal prefix wins; ties go to the first-registered plugin
// (§4.1 "match_file").
func (l *Loader) MatchFile(path string) plugins.Plugin {
	bestIdx := -1
	bestLiteral := -1
	for _, r := range l.routes {
		if !globmatch.Matches(path, r.glob) {
			continue
		}
		if r.literalLen > bestLiteral {
			bestLiteral = r.literalLen
			bestIdx = r.pluginIdx
		}
	}
	if bestIdx < 0 {
		return nil
	}
	return l.registered[bestIdx]
}

// RunProcessFile invokes ProcessFile on the plugin that owns relPath (the
// glob-matchable path relative to the scratch directory), if any,
// passing fullPath (the absolute on-disk location) through to the
// plugin. It returns (veto reason, nil) when the plugin reported a veto,
// ("", error) for any other failure, and ("", nil) otherwise (§4.1
// "Failure policy").
func (l *Loader) RunProcessFile(ctx context.Context, pkg *pkgreader.Package, relPath, fullPath string, apps *plugins.AppList) (vetoReason string, fatal error) {
	p := l.MatchFile(relPath)
	fp, ok := p.(plugins.FileProcessor)
	if !ok {
		return "", nil
	}
	if err := fp.ProcessFile(ctx, pkg, fullPath, apps); err != nil {
		if reason, isVeto := plugins.AsVeto(err); isVeto {
			return reason, nil
		}
		return "", fmt.Errorf("plugin %s: process file %s: %w", p.Name(), relPath, err)
	}
	return "", nil
}

// RunProcessApp runs process_app on every plugin that implements
// AppProcessor, in registration order (§4.2 state 5 "AppsBuilt").
func (l *Loader) RunProcessApp(ctx context.Context, app *apprecord.Record, tmpdir string) {
	for _, p := range l.registered {
		ap, ok := p.(plugins.AppProcessor)
		if !ok {
			continue
		}
		if err := ap.ProcessApp(ctx, app, tmpdir); err != nil {
			if reason, isVeto := plugins.AsVeto(err); isVeto {
				app.AddVeto(reason)
				continue
			}
			app.AddVeto(fmt.Sprintf("plugin %s failed: %v", p.Name(), err))
		}
	}
}

// RunMerge invokes Merge on every plugin that implements Merger, in
// registration order, threading the result of each merger into the next
// (§4.4).
func (l *Loader) RunMerge(apps []*apprecord.Record) []*apprecord.Record {
	for _, p := range l.registered {
		m, ok := p.(plugins.Merger)
		if !ok {
			continue
		}
		apps = m.Merge(apps)
	}
	return apps
}
