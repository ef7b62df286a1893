// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// DesktopEntry processes freedesktop.org Desktop Entry files
// (*.desktop), the most common application-declaration format.
//
// No INI/desktop-entry parser library appears anywhere in the retrieved
// pack, and the format is a narrow, well-specified line grammar, so this
// plugin hand-rolls a small key=value/[Section] scanner over
// bufio.Scanner rather than reaching for an external dependency.
type DesktopEntry struct{}

// NewDesktopEntry returns the desktop-entry plugin.
func NewDesktopEntry() *DesktopEntry { return &DesktopEntry{} }

func (p *DesktopEntry) Name() string    { return "desktop-entry" }
func (p *DesktopEntry) Globs() []string { return []string{"usr/share/applications/*.desktop"} }

// ProcessFile parses one .desktop file and appends the resulting record
// to apps (§4.1 ProcessFile hook, §4.2 Enriched state).
func (p *DesktopEntry) ProcessFile(_ context.Context, pkg *pkgreader.Package, path string, apps *AppList) error {
	f, err := os.Open(path)
	if err != nil {
		return Veto("cannot read desktop entry %s: %v", path, err)
	}
	defer f.Close()

	fields, categories, keywords, err := parseDesktopEntry(f)
	if err != nil {
		return Veto("malformed desktop entry %s: %v", path, err)
	}

	if strings.EqualFold(fields["Type"], "") {
		// absent Type defaults to Application per the desktop entry spec
	} else if !strings.EqualFold(fields["Type"], "Application") {
		return nil
	}
	if strings.EqualFold(fields["NoDisplay"], "true") || strings.EqualFold(fields["Hidden"], "true") {
		return nil
	}

	idFull := baseNameOf(path)
	app := apprecord.NewRecord(idFull)
	app.IDKind = apprecord.KindDesktop
	app.SourceKind = apprecord.SourceDesktopEntry
	app.PkgNames = apprecord.AddOrdered(app.PkgNames, pkg.Name)

	if name := fields["Name"]; name != "" {
		app.Names[apprecord.FallbackLocale] = name
	}
	if comment := fields["Comment"]; comment != "" {
		app.Comments[apprecord.FallbackLocale] = comment
	}
	for _, cat := range categories {
		app.Categories = apprecord.AddOrderedFolded(app.Categories, cat)
	}
	if len(keywords) > 0 {
		app.Keywords[apprecord.FallbackLocale] = keywords
	}
	if icon := fields["Icon"]; icon != "" {
		app.Icon = &apprecord.Icon{Name: icon, Kind: apprecord.IconStock}
	}
	if mimes := fields["MimeType"]; mimes != "" {
		for _, m := range strings.Split(mimes, ";") {
			if m != "" {
				app.MimeTypes = apprecord.AddOrdered(app.MimeTypes, m)
			}
		}
	}
	if onlyShowIn := fields["OnlyShowIn"]; onlyShowIn != "" {
		for _, d := range strings.Split(onlyShowIn, ";") {
			if d != "" {
				app.CompulsoryForDesktops = apprecord.AddOrdered(app.CompulsoryForDesktops, d)
			}
		}
	}

	apps.Add(app)
	return nil
}

func baseNameOf(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// parseDesktopEntry reads the [Desktop Entry] section of an ini-style
// file, returning its key=value fields, the split Categories list, and
// the split Keywords list.
func parseDesktopEntry(f *os.File) (fields map[string]string, categories, keywords []string, err error) {
	fields = map[string]string{}
	inDesktopEntry := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}
		if !inDesktopEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip locale qualifiers, e.g. Name[fr]=...; only the
		// unqualified (C locale) key is kept by this reference plugin.
		if idx := strings.IndexByte(key, '['); idx >= 0 {
			continue
		}
		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, err
	}

	if cats := fields["Categories"]; cats != "" {
		for _, c := range strings.Split(cats, ";") {
			if c != "" {
				categories = append(categories, c)
			}
		}
	}
	if kws := fields["Keywords"]; kws != "" {
		for _, k := range strings.Split(kws, ";") {
			if k != "" {
				keywords = append(keywords, k)
			}
		}
	}
	return fields, categories, keywords, nil
}
