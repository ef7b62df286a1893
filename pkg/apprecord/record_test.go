// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveID(t *testing.T) {
	cases := []struct {
		idFull string
		want   string
	}{
		{"app.desktop", "app"},
		{"org.example.App.desktop", "org.example.App"},
		{"noextension", "noextension"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DeriveID(c.idFull))
	}
}

func TestNewRecord_MapsEmpty(t *testing.T) {
	r := NewRecord("app.desktop")
	require.Equal(t, "app", r.ID)
	assert.Empty(t, r.Names)
	assert.Empty(t, r.Languages)
	assert.False(t, r.HasVeto())
}

func TestAddVeto(t *testing.T) {
	r := NewRecord("app.desktop")
	r.AddVeto("Required AppData: ConsoleOnly")
	assert.True(t, r.HasVeto())
	assert.Equal(t, []string{"Required AppData: ConsoleOnly"}, r.Vetoes)
}

func TestValidate_MissingName(t *testing.T) {
	r := NewRecord("app-console.desktop")
	r.Categories = []string{"ConsoleOnly"}
	r.Validate()
	require.True(t, r.HasVeto())
	assert.Equal(t, "Required AppData: ConsoleOnly", r.Vetoes[0])
}

func TestValidate_ConsoleOnlyDesktopEntryWithNoAppData(t *testing.T) {
	r := NewRecord("app-console.desktop")
	r.IDKind = KindDesktop
	r.SourceKind = SourceDesktopEntry
	r.Names[FallbackLocale] = "Console"
	r.Categories = []string{"ConsoleOnly"}
	r.Validate()
	require.True(t, r.HasVeto())
	assert.Equal(t, "Required AppData: ConsoleOnly", r.Vetoes[0])
}

func TestValidate_ConsoleOnlyWithAppDataIsNotVetoed(t *testing.T) {
	r := NewRecord("app-console.desktop")
	r.IDKind = KindDesktop
	r.SourceKind = SourceMetadataXML
	r.Names[FallbackLocale] = "Console"
	r.Categories = []string{"ConsoleOnly"}
	r.Icon = &Icon{Name: "console-icon"}
	r.Validate()
	assert.False(t, r.HasVeto())
}

func TestValidate_DesktopWithoutIcon(t *testing.T) {
	r := NewRecord("app.desktop")
	r.IDKind = KindDesktop
	r.Names[FallbackLocale] = "App"
	r.Validate()
	require.True(t, r.HasVeto())
	assert.Equal(t, "Application app has no icon", r.Vetoes[0])
}

func TestSortReleases(t *testing.T) {
	r := NewRecord("app.desktop")
	r.Releases = []Release{
		{Version: "1.0", Timestamp: 100},
		{Version: "2.0", Timestamp: 300},
		{Version: "1.5", Timestamp: 200},
	}
	r.SortReleases()
	require.Len(t, r.Releases, 3)
	assert.Equal(t, "2.0", r.Releases[0].Version)
	assert.Equal(t, "1.5", r.Releases[1].Version)
	assert.Equal(t, "1.0", r.Releases[2].Version)
}

func TestTrimReleases(t *testing.T) {
	r := NewRecord("app.desktop")
	r.Releases = []Release{{Version: "3"}, {Version: "2"}, {Version: "1"}, {Version: "0"}}
	r.TrimReleases(3)
	assert.Len(t, r.Releases, 3)
}

func TestAddOrdered_Dedup(t *testing.T) {
	set := []string{}
	set = AddOrdered(set, "gui")
	set = AddOrdered(set, "games")
	set = AddOrdered(set, "gui")
	assert.Equal(t, []string{"gui", "games"}, set)
}
