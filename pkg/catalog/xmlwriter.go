// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/gzip"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
)

// XMLWriter serialises application records to the bit-exact,
// API-version-conditional catalog XML shape described in spec §6,
// following as_app_node_insert verbatim for the per-version differences:
// the `priority` attribute vs. child element, the `project_license` /
// `licence` rename, the `categories`/`appcategories` rename, and the
// flat-vs-pre-escaped description body.
type XMLWriter struct{}

// NewXMLWriter returns the default catalog XML writer.
func NewXMLWriter() *XMLWriter { return &XMLWriter{} }

// Write implements Writer. It serialises doc to a gzip-compressed XML
// document at path, writing through a temporary file and renaming into
// place so a crash mid-write never leaves a truncated catalog behind
// (the same atomic-write-via-rename pattern used for other state in this
// codebase).
func (w *XMLWriter) Write(path string, doc Document) error {
	xmlBytes, err := w.Marshal(doc)
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("catalog: create %s: %w", tmpPath, err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write(xmlBytes); err != nil {
		gz.Close()
		f.Close()
		return fmt.Errorf("catalog: gzip write %s: %w", tmpPath, err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("catalog: gzip close %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("catalog: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("catalog: rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// Marshal renders doc to XML bytes without compression, used directly by
// round-trip tests.
func (w *XMLWriter) Marshal(doc Document) ([]byte, error) {
	apiVersion := parseAPIVersion(doc.APIVersion)

	out := etree.NewDocument()
	out.Indent(2)

	rootTag := "components"
	if apiVersion < 0.6 {
		rootTag = "applications"
	}
	root := out.CreateElement(rootTag)
	root.CreateAttr("version", doc.APIVersion)
	root.CreateAttr("builder_id", doc.BuilderID)
	root.CreateAttr("origin", doc.Origin)

	records := append([]*apprecord.Record(nil), doc.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].IDFull != records[j].IDFull {
			return records[i].IDFull < records[j].IDFull
		}
		return firstPkgname(records[i]) < firstPkgname(records[j])
	})

	for _, rec := range records {
		insertComponent(root, rec, apiVersion)
	}

	return out.WriteToBytes()
}

func firstPkgname(r *apprecord.Record) string {
	if len(r.PkgNames) > 0 {
		return r.PkgNames[0]
	}
	return ""
}

func parseAPIVersion(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func insertComponent(parent *etree.Element, rec *apprecord.Record, apiVersion float64) {
	componentTag := "component"
	if apiVersion < 0.6 {
		componentTag = "application"
	}
	node := parent.CreateElement(componentTag)
	if apiVersion >= 0.6 {
		if rec.IDKind != apprecord.KindUnknown {
			node.CreateAttr("type", string(rec.IDKind))
		}
	}

	idEl := node.CreateElement("id")
	idEl.SetText(rec.IDFull)
	if apiVersion < 0.6 && rec.IDKind != apprecord.KindUnknown {
		idEl.CreateAttr("type", string(rec.IDKind))
	}

	if rec.Priority != 0 {
		prio := strconv.Itoa(rec.Priority)
		if apiVersion >= 0.61 {
			node.CreateAttr("priority", prio)
		} else {
			node.CreateElement("priority").SetText(prio)
		}
	}

	for _, pkg := range rec.PkgNames {
		node.CreateElement("pkgname").SetText(pkg)
	}

	insertLocalizedSorted(node, "name", rec.Names)
	insertLocalizedSorted(node, "summary", rec.Comments)

	if apiVersion < 0.6 {
		insertLocalizedFlat(node, "description", rec.Descriptions)
	} else {
		// Pre-escaped: the markup is kept as-is, matching
		// as_app_node_insert's AS_NODE_INSERT_FLAG_PRE_ESCAPED branch.
		insertLocalizedSorted(node, "description", rec.Descriptions)
	}

	if rec.Icon != nil {
		iconEl := node.CreateElement("icon")
		iconEl.CreateAttr("type", string(rec.Icon.Kind))
		if rec.Icon.Height > 0 {
			iconEl.CreateAttr("height", strconv.Itoa(rec.Icon.Height))
		}
		if rec.Icon.Width > 0 {
			iconEl.CreateAttr("width", strconv.Itoa(rec.Icon.Width))
		}
		iconEl.SetText(rec.Icon.Name)
	}

	if apiVersion >= 0.5 {
		if len(rec.Categories) > 0 {
			catEl := node.CreateElement("categories")
			for _, c := range rec.Categories {
				catEl.CreateElement("category").SetText(c)
			}
		}
	} else if len(rec.Categories) > 0 {
		catEl := node.CreateElement("appcategories")
		for _, c := range rec.Categories {
			catEl.CreateElement("appcategory").SetText(c)
		}
	}

	if len(rec.Architectures) > 0 && apiVersion >= 0.6 {
		archEl := node.CreateElement("architectures")
		for _, a := range rec.Architectures {
			archEl.CreateElement("arch").SetText(a)
		}
	}

	if len(rec.Keywords) > 0 {
		kwEl := node.CreateElement("keywords")
		for _, locale := range sortedKeywordKeys(rec.Keywords) {
			for _, kw := range rec.Keywords[locale] {
				el := kwEl.CreateElement("keyword")
				if locale != apprecord.FallbackLocale {
					el.CreateAttr("xml:lang", locale)
				}
				el.SetText(kw)
			}
		}
	}

	if len(rec.MimeTypes) > 0 {
		mtEl := node.CreateElement("mimetypes")
		for _, m := range rec.MimeTypes {
			mtEl.CreateElement("mimetype").SetText(m)
		}
	}

	if rec.ProjectLicense != "" {
		if apiVersion >= 0.4 {
			node.CreateElement("project_license").SetText(rec.ProjectLicense)
		} else {
			node.CreateElement("licence").SetText(rec.ProjectLicense)
		}
	}

	for _, kind := range sortedKeys(rec.URLs) {
		el := node.CreateElement("url")
		el.CreateAttr("type", kind)
		el.SetText(rec.URLs[kind])
	}

	if rec.ProjectGroup != "" && apiVersion >= 0.4 {
		node.CreateElement("project_group").SetText(rec.ProjectGroup)
	}

	if len(rec.CompulsoryForDesktops) > 0 && apiVersion >= 0.4 {
		for _, d := range rec.CompulsoryForDesktops {
			node.CreateElement("compulsory_for_desktop").SetText(d)
		}
	}

	if rec.HasVeto() {
		vetoEl := node.CreateElement("vetos")
		for _, v := range rec.Vetoes {
			vetoEl.CreateElement("veto").SetText(v)
		}
	}

	if rec.Extends != "" {
		node.CreateElement("extends").SetText(rec.Extends)
	}

	if len(rec.Screenshots) > 0 && apiVersion >= 0.4 {
		ssEl := node.CreateElement("screenshots")
		for _, s := range rec.Screenshots {
			shot := ssEl.CreateElement("screenshot")
			if s.Default {
				shot.CreateAttr("type", "default")
			}
			if s.Caption != "" {
				shot.CreateElement("caption").SetText(s.Caption)
			}
			for _, img := range s.Images {
				shot.CreateElement("image").SetText(img)
			}
		}
	}

	releases := append([]apprecord.Release(nil), rec.Releases...)
	sort.SliceStable(releases, func(i, j int) bool { return releases[i].Timestamp > releases[j].Timestamp })
	if len(releases) > 0 && apiVersion >= 0.6 {
		relEl := node.CreateElement("releases")
		for i, rel := range releases {
			if i >= 3 {
				break
			}
			r := relEl.CreateElement("release")
			r.CreateAttr("version", rel.Version)
			r.CreateAttr("timestamp", strconv.FormatInt(rel.Timestamp, 10))
			if rel.Description != "" {
				r.CreateElement("description").SetText(rel.Description)
			}
		}
	}

	if len(rec.Languages) > 0 && apiVersion >= 0.4 {
		langEl := node.CreateElement("languages")
		for _, locale := range sortedIntKeys(rec.Languages) {
			el := langEl.CreateElement("lang")
			if pct := rec.Languages[locale]; pct > 0 {
				el.CreateAttr("percentage", strconv.Itoa(pct))
			}
			el.SetText(locale)
		}
	}

	if len(rec.Metadata) > 0 {
		metaEl := node.CreateElement("metadata")
		for _, key := range sortedKeys(rec.Metadata) {
			v := metaEl.CreateElement("value")
			v.CreateAttr("key", key)
			v.SetText(rec.Metadata[key])
		}
	}
}

func insertLocalizedSorted(node *etree.Element, tag string, values map[string]string) {
	for _, locale := range sortedKeys(values) {
		el := node.CreateElement(tag)
		if locale != apprecord.FallbackLocale {
			el.CreateAttr("xml:lang", locale)
		}
		el.SetText(values[locale])
	}
}

func insertLocalizedFlat(node *etree.Element, tag string, values map[string]string) {
	for _, locale := range sortedKeys(values) {
		el := node.CreateElement(tag)
		if locale != apprecord.FallbackLocale {
			el.CreateAttr("xml:lang", locale)
		}
		el.SetText(apprecord.FlattenDescription(values[locale]))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeywordKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
