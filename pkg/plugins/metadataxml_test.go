// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

const fixtureAppData = `<?xml version="1.0" encoding="UTF-8"?>
<component type="desktop">
  <id>app.desktop</id>
  <name>App</name>
  <summary>An app</summary>
  <description><p>Does things.</p></description>
  <project_license>MIT</project_license>
  <releases>
    <release version="1.0" timestamp="1000"/>
    <release version="2.0" timestamp="2000"/>
  </releases>
</component>
`

const fixtureAddon = `<?xml version="1.0" encoding="UTF-8"?>
<component type="addon">
  <id>app-extra</id>
  <name>App Extra</name>
  <extends>app.desktop</extends>
</component>
`

func TestMetadataXML_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.appdata.xml")
	writeFile(t, path, fixtureAppData)

	pkg := &pkgreader.Package{Name: "app"}
	apps := NewAppList()
	p := NewMetadataXML()
	require.NoError(t, p.ProcessFile(context.Background(), pkg, path, apps))

	require.Len(t, apps.All(), 1)
	app := apps.All()[0]
	require.Equal(t, "app.desktop", app.IDFull)
	require.Equal(t, "App", app.Names["C"])
	require.Equal(t, "An app", app.Comments["C"])
	require.Contains(t, app.Descriptions["C"], "<p>")
	require.Equal(t, "MIT", app.ProjectLicense)
	require.Len(t, app.Releases, 2)
	require.Equal(t, "2.0", app.Releases[0].Version, "releases sorted descending by timestamp")
}

func TestMetadataXML_Extends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app-extra.metainfo.xml")
	writeFile(t, path, fixtureAddon)

	pkg := &pkgreader.Package{Name: "app-extra"}
	apps := NewAppList()
	p := NewMetadataXML()
	require.NoError(t, p.ProcessFile(context.Background(), pkg, path, apps))

	require.Len(t, apps.All(), 1)
	app := apps.All()[0]
	require.Equal(t, "app.desktop", app.Extends)
}
