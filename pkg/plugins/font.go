// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"context"
	"strings"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// Font synthesises a minimal application record for each font file a
// package ships, when no desktop entry or AppData file already describes
// one (font packages rarely carry either).
type Font struct{}

// NewFont returns the font plugin.
func NewFont() *Font { return &Font{} }

func (p *Font) Name() string    { return "font" }
func (p *Font) Globs() []string { return []string{"usr/share/fonts/**/*.ttf", "usr/share/fonts/**/*.otf"} }

// ProcessFile synthesises one application record per font family derived
// from the font's filename (the precise family name requires parsing the
// font's name table, out of scope here; the filename stem is used as a
// reasonable stand-in, consistent with the spec treating font decoding as
// an external capability).
func (p *Font) ProcessFile(_ context.Context, pkg *pkgreader.Package, path string, apps *AppList) error {
	family := fontFamilyFromPath(path)
	if family == "" {
		return Veto("cannot derive font family from %s", path)
	}

	idFull := family
	app := apps.Find(idFull)
	if app == nil {
		app = apprecord.NewRecord(idFull)
		app.IDKind = apprecord.KindFont
		app.SourceKind = apprecord.SourceSynthesised
		app.Names[apprecord.FallbackLocale] = family
		apps.Add(app)
	}
	app.PkgNames = apprecord.AddOrdered(app.PkgNames, pkg.Name)
	return nil
}

// Merge subsumes a font record that extends another font (e.g. a
// "-serif"/"-bold" style variant shipped as its own package with
// <extends> pointing at the base family) into its parent, unioning
// pkgnames and vetoing the donor, rather than leaving the two as
// separate addon/parent records the way a desktop-entry addon stays.
//
// A font record is only ever promoted to KindAddon by the metadata-xml
// plugin reusing the id the font plugin already synthesised, so
// SourceSynthesised reliably distinguishes a font extends-relationship
// from an ordinary application addon.
func (p *Font) Merge(apps []*apprecord.Record) []*apprecord.Record {
	byIDFull := map[string]*apprecord.Record{}
	for _, app := range apps {
		byIDFull[app.IDFull] = app
	}

	for _, app := range apps {
		if app.IDKind != apprecord.KindAddon || app.Extends == "" || app.SourceKind != apprecord.SourceSynthesised {
			continue
		}
		parent, ok := byIDFull[app.Extends]
		if !ok || parent == app {
			continue
		}
		apprecord.Subsume(parent, app, apprecord.NoOverwrite)
		app.AddVeto(app.Name() + " was merged into " + parent.Name())
	}
	return apps
}

func fontFamilyFromPath(path string) string {
	base := baseNameOf(path)
	for _, ext := range []string{".ttf", ".otf"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
