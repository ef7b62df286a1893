// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
)

func sampleRecord() *apprecord.Record {
	rec := apprecord.NewRecord("org.example.App.desktop")
	rec.IDKind = apprecord.KindDesktop
	rec.PkgNames = []string{"example-app"}
	rec.Names[apprecord.FallbackLocale] = "Example App"
	rec.Comments[apprecord.FallbackLocale] = "An example application"
	rec.Descriptions[apprecord.FallbackLocale] = "<p>Does example things.</p>"
	rec.Categories = []string{"Utility"}
	rec.Keywords[apprecord.FallbackLocale] = []string{"example", "demo"}
	rec.ProjectLicense = "MIT"
	rec.Icon = &apprecord.Icon{Name: "example-app", Kind: apprecord.IconCached, Width: 128, Height: 128}
	rec.Releases = []apprecord.Release{
		{Version: "1.0", Timestamp: 100},
		{Version: "2.0", Timestamp: 200},
	}
	return rec
}

func TestXMLWriter_Marshal_ModernVersion(t *testing.T) {
	w := NewXMLWriter()
	rec := sampleRecord()
	rec.Priority = 10
	doc := Document{APIVersion: "0.61", BuilderID: "catgen-1", Origin: "example-repo", Records: []*apprecord.Record{rec}}

	out, err := w.Marshal(doc)
	require.NoError(t, err)
	xml := string(out)

	assert.Contains(t, xml, "<component type=\"desktop\" priority=\"10\">")
	assert.Contains(t, xml, "priority=")
	assert.Contains(t, xml, "<project_license>MIT</project_license>")
	assert.NotContains(t, xml, "<licence>")
	assert.Contains(t, xml, "<categories>")
	assert.NotContains(t, xml, "<appcategories>")
	assert.Contains(t, xml, "<releases>")

	// Descending timestamp order, most recent first.
	idx2 := indexOf(xml, "version=\"2.0\"")
	idx1 := indexOf(xml, "version=\"1.0\"")
	require.GreaterOrEqual(t, idx2, 0)
	require.GreaterOrEqual(t, idx1, 0)
	assert.Less(t, idx2, idx1)
}

func TestXMLWriter_Marshal_LegacyVersion(t *testing.T) {
	w := NewXMLWriter()
	doc := Document{APIVersion: "0.3", BuilderID: "catgen-1", Origin: "example-repo", Records: []*apprecord.Record{sampleRecord()}}

	out, err := w.Marshal(doc)
	require.NoError(t, err)
	xml := string(out)

	assert.Contains(t, xml, "<application>")
	assert.NotContains(t, xml, "<component")
	assert.Contains(t, xml, "<licence>MIT</licence>")
	assert.NotContains(t, xml, "project_license")
	assert.Contains(t, xml, "<appcategories>")
	assert.Contains(t, xml, "<appcategory>Utility</appcategory>")
	assert.NotContains(t, xml, "<releases>")
}

func TestXMLWriter_Marshal_VetoedRecordIncludesVetos(t *testing.T) {
	w := NewXMLWriter()
	rec := sampleRecord()
	rec.AddVeto("Required AppData: Utility")

	out, err := w.Marshal(Document{APIVersion: "0.61", Records: []*apprecord.Record{rec}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<vetos>")
	assert.Contains(t, string(out), "Required AppData: Utility")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
