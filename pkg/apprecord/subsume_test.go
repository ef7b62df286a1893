// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsume_NoOverwrite_IsIdempotentOnSelf(t *testing.T) {
	a := NewRecord("app.desktop")
	a.Names[FallbackLocale] = "App"
	a.PkgNames = []string{"app"}

	before := a.Names[FallbackLocale]
	Subsume(a, a, NoOverwrite)
	assert.Equal(t, before, a.Names[FallbackLocale])
	assert.Equal(t, []string{"app"}, a.PkgNames)
}

func TestSubsume_NoOverwrite_FillsMissingOnly(t *testing.T) {
	target := NewRecord("app.desktop")
	target.Names[FallbackLocale] = "Target"
	target.ProjectLicense = "GPL-2.0"

	donor := NewRecord("app2.desktop")
	donor.Names[FallbackLocale] = "Donor"
	donor.Comments[FallbackLocale] = "a donor comment"
	donor.ProjectLicense = "MIT"

	Subsume(target, donor, NoOverwrite)

	assert.Equal(t, "Target", target.Names[FallbackLocale], "existing target name must survive")
	assert.Equal(t, "a donor comment", target.Comments[FallbackLocale], "missing field copied from donor")
	assert.Equal(t, "GPL-2.0", target.ProjectLicense, "existing scalar must not be overwritten")
}

func TestSubsume_Overwrite_ReplacesTarget(t *testing.T) {
	target := NewRecord("app.desktop")
	target.Names[FallbackLocale] = "Old"
	donor := NewRecord("app2.desktop")
	donor.Names[FallbackLocale] = "New"

	Subsume(target, donor, Overwrite)
	assert.Equal(t, "New", target.Names[FallbackLocale])
}

func TestSubsume_UnionMergesPkgnamesAndCategories(t *testing.T) {
	target := NewRecord("app.desktop")
	target.PkgNames = []string{"app"}
	target.Categories = []string{"Utility"}

	donor := NewRecord("app2.desktop")
	donor.PkgNames = []string{"app-extra"}
	donor.Categories = []string{"Utility", "Network"}

	Subsume(target, donor, NoOverwrite)

	assert.Equal(t, []string{"app", "app-extra"}, target.PkgNames)
	assert.Equal(t, []string{"Utility", "Network"}, target.Categories)
}

func TestSubsume_LanguagesTakeMax(t *testing.T) {
	target := NewRecord("app.desktop")
	target.Languages = map[string]int{"en": 80, "fr": 10}
	donor := NewRecord("app2.desktop")
	donor.Languages = map[string]int{"en": 40, "de": 100}

	Subsume(target, donor, NoOverwrite)

	assert.Equal(t, 80, target.Languages["en"])
	assert.Equal(t, 10, target.Languages["fr"])
	assert.Equal(t, 100, target.Languages["de"])
}

func TestSubsume_IconOnlyReplacedWhenAbsent(t *testing.T) {
	target := NewRecord("app.desktop")
	donor := NewRecord("app2.desktop")
	donor.Icon = &Icon{Name: "app2", Kind: IconCached}

	Subsume(target, donor, NoOverwrite)
	require.NotNil(t, target.Icon)
	assert.Equal(t, "app2", target.Icon.Name)

	target2 := NewRecord("app.desktop")
	target2.Icon = &Icon{Name: "app", Kind: IconCached}
	Subsume(target2, donor, NoOverwrite)
	assert.Equal(t, "app", target2.Icon.Name, "existing icon must not be replaced")
}
