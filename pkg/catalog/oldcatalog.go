// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/gzip"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
)

// OldCatalogEntry is one fingerprint's worth of previously emitted
// records, tagged with which store they belong in.
type OldCatalogEntry struct {
	Store   Store
	Records []*apprecord.Record
}

// LoadOldCatalog reads a previously emitted metadata file (or every
// *.xml.gz file in a directory of them) into a fingerprint to
// applications lookup, used by Context.Enqueue's cache-hit short
// circuit (§4.3).
func LoadOldCatalog(path string) (map[string]OldCatalogEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]OldCatalogEntry{}, nil
		}
		return nil, fmt.Errorf("catalog: stat old catalog %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read old catalog dir %s: %w", path, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".xml.gz") {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	} else {
		files = append(files, path)
	}

	lookup := map[string]OldCatalogEntry{}
	for _, f := range files {
		store := storeForFilename(f)
		records, err := parseCatalogFile(f)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse old catalog %s: %w", f, err)
		}
		for _, rec := range records {
			fp := rec.Metadata["X-CacheID"]
			if fp == "" {
				continue
			}
			entry := lookup[fp]
			entry.Store = store
			entry.Records = append(entry.Records, rec)
			lookup[fp] = entry
		}
	}
	return lookup, nil
}

func storeForFilename(path string) Store {
	switch {
	case strings.HasSuffix(path, "-failed.xml.gz"):
		return StoreFailed
	case strings.HasSuffix(path, "-ignore.xml.gz"):
		return StoreIgnore
	default:
		return StorePrimary
	}
}

func parseCatalogFile(path string) ([]*apprecord.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(gz); err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty catalog document")
	}

	var records []*apprecord.Record
	for _, compEl := range root.ChildElements() {
		records = append(records, parseComponent(compEl))
	}
	return records, nil
}

func localeAttr(el *etree.Element) string {
	if lang := el.SelectAttrValue("xml:lang", ""); lang != "" {
		return lang
	}
	return apprecord.FallbackLocale
}

func parseComponent(compEl *etree.Element) *apprecord.Record {
	idFull := ""
	if idEl := compEl.SelectElement("id"); idEl != nil {
		idFull = strings.TrimSpace(idEl.Text())
	}
	rec := apprecord.NewRecord(idFull)
	if t := compEl.SelectAttrValue("type", ""); t != "" {
		rec.IDKind = apprecord.IDKind(t)
	}
	for _, pkgEl := range compEl.SelectElements("pkgname") {
		rec.PkgNames = apprecord.AddOrdered(rec.PkgNames, strings.TrimSpace(pkgEl.Text()))
	}
	for _, nameEl := range compEl.SelectElements("name") {
		rec.Names[localeAttr(nameEl)] = strings.TrimSpace(nameEl.Text())
	}
	if vetoesEl := compEl.SelectElement("vetos"); vetoesEl != nil {
		for _, v := range vetoesEl.SelectElements("veto") {
			rec.AddVeto(strings.TrimSpace(v.Text()))
		}
	}
	if metaEl := compEl.SelectElement("metadata"); metaEl != nil {
		for _, v := range metaEl.SelectElements("value") {
			key := v.SelectAttrValue("key", "")
			if key != "" {
				rec.Metadata[key] = strings.TrimSpace(v.Text())
			}
		}
	}
	if prioEl := compEl.SelectElement("priority"); prioEl != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(prioEl.Text())); err == nil {
			rec.Priority = n
		}
	} else if prioAttr := compEl.SelectAttrValue("priority", ""); prioAttr != "" {
		if n, err := strconv.Atoi(prioAttr); err == nil {
			rec.Priority = n
		}
	}
	return rec
}
