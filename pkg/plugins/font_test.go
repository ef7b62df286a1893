// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

func TestFont_ProcessFile_SynthesisesRecord(t *testing.T) {
	path := filepath.Join("usr", "share", "fonts", "truetype", "Liberation.ttf")
	pkg := &pkgreader.Package{Name: "font"}
	apps := NewAppList()

	p := NewFont()
	require.NoError(t, p.ProcessFile(context.Background(), pkg, path, apps))

	require.Len(t, apps.All(), 1)
	app := apps.All()[0]
	require.Equal(t, "Liberation", app.IDFull)
	require.Equal(t, apprecord.KindFont, app.IDKind)
	require.Equal(t, apprecord.SourceSynthesised, app.SourceKind)
	require.Contains(t, app.PkgNames, "font")
}

func TestFont_ProcessFile_MergesSecondPackageIntoSameFamily(t *testing.T) {
	apps := NewAppList()
	p := NewFont()

	require.NoError(t, p.ProcessFile(context.Background(), &pkgreader.Package{Name: "font"},
		filepath.Join("usr", "share", "fonts", "truetype", "Liberation.ttf"), apps))
	require.NoError(t, p.ProcessFile(context.Background(), &pkgreader.Package{Name: "font-serif"},
		filepath.Join("usr", "share", "fonts", "truetype", "Liberation.ttf"), apps))

	require.Len(t, apps.All(), 1)
	require.Equal(t, []string{"font", "font-serif"}, apps.All()[0].PkgNames)
}

func TestFont_Merge_SubsumesExtendingFontIntoParent(t *testing.T) {
	parent := apprecord.NewRecord("Liberation")
	parent.IDKind = apprecord.KindFont
	parent.SourceKind = apprecord.SourceSynthesised
	parent.Names[apprecord.FallbackLocale] = "Liberation"
	parent.PkgNames = []string{"font"}

	donor := apprecord.NewRecord("LiberationSerif")
	donor.IDKind = apprecord.KindAddon
	donor.SourceKind = apprecord.SourceSynthesised
	donor.Names[apprecord.FallbackLocale] = "LiberationSerif"
	donor.PkgNames = []string{"font-serif"}
	donor.Extends = "Liberation"

	p := NewFont()
	result := p.Merge([]*apprecord.Record{parent, donor})

	require.Len(t, result, 2)
	require.Equal(t, []string{"font", "font-serif"}, parent.PkgNames)
	require.True(t, donor.HasVeto())
	require.Equal(t, []string{"LiberationSerif was merged into Liberation"}, donor.Vetoes)
}

func TestFont_Merge_IgnoresNonFontAddons(t *testing.T) {
	parent := apprecord.NewRecord("org.example.App")
	parent.Names[apprecord.FallbackLocale] = "App"
	parent.PkgNames = []string{"app"}

	addon := apprecord.NewRecord("org.example.App.Plugin")
	addon.IDKind = apprecord.KindAddon
	addon.SourceKind = apprecord.SourceMetadataXML
	addon.Extends = "org.example.App"
	addon.Names[apprecord.FallbackLocale] = "Plugin"

	p := NewFont()
	result := p.Merge([]*apprecord.Record{parent, addon})

	require.Len(t, result, 2)
	require.False(t, addon.HasVeto())
}
