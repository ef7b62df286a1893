// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testfixtures "github.com/catalogforge/catalogforge/internal/testing"
	"github.com/catalogforge/catalogforge/pkg/apprecord"
)

// TestXMLWriter_LoadOldCatalog_RoundTripsCacheID writes a primary catalog
// for a fingerprinted record, then reloads it through LoadOldCatalog and
// checks the fingerprint resolves back to an equivalent record, the
// round trip Context.Enqueue's cache-hit short circuit depends on.
func TestXMLWriter_LoadOldCatalog_RoundTripsCacheID(t *testing.T) {
	rec := testfixtures.NewDesktopRecord("org.example.App.desktop", "Example App", testfixtures.WithPkgNames("example-app"))
	rec.Metadata["X-CacheID"] = "example-app-1.0-1.fc21.noarch.rpm"

	dir := t.TempDir()
	path := filepath.Join(dir, "appstream.xml.gz")

	w := NewXMLWriter()
	require.NoError(t, w.Write(path, Document{
		APIVersion: "0.61",
		BuilderID:  "catgen-test",
		Origin:     "example-repo",
		Records:    []*apprecord.Record{rec},
	}))

	lookup, err := LoadOldCatalog(path)
	require.NoError(t, err)

	entry, ok := lookup["example-app-1.0-1.fc21.noarch.rpm"]
	require.True(t, ok)
	assert.Equal(t, StorePrimary, entry.Store)
	require.Len(t, entry.Records, 1)
	assert.Equal(t, "org.example.App.desktop", entry.Records[0].IDFull)
	assert.Equal(t, "Example App", entry.Records[0].Names[apprecord.FallbackLocale])
	assert.Equal(t, []string{"example-app"}, entry.Records[0].PkgNames)
}

// TestXMLWriter_LoadOldCatalog_RoundTripsFailedStoreVetoes checks a record
// written to the -failed.xml.gz suffix reloads into StoreFailed with its
// veto text intact.
func TestXMLWriter_LoadOldCatalog_RoundTripsFailedStoreVetoes(t *testing.T) {
	rec := testfixtures.NewAppRecord("org.example.Broken", "Broken")
	rec.AddVeto("Required AppData: Utility")
	rec.Metadata["X-CacheID"] = "broken-1.0-1.fc21.noarch.rpm"

	dir := t.TempDir()
	path := filepath.Join(dir, "appstream-failed.xml.gz")

	w := NewXMLWriter()
	require.NoError(t, w.Write(path, Document{APIVersion: "0.61", Records: []*apprecord.Record{rec}}))

	lookup, err := LoadOldCatalog(path)
	require.NoError(t, err)

	entry, ok := lookup["broken-1.0-1.fc21.noarch.rpm"]
	require.True(t, ok)
	assert.Equal(t, StoreFailed, entry.Store)
	require.Len(t, entry.Records, 1)
	assert.Contains(t, entry.Records[0].Vetoes, "Required AppData: Utility")
}
