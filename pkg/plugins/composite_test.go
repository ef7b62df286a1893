// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
)

func TestComposite_Merge(t *testing.T) {
	valid := apprecord.NewRecord("valid.desktop")
	valid.Names["C"] = "Valid"
	valid.PkgNames = []string{"composite"}

	valid2 := apprecord.NewRecord("valid2.desktop")
	valid2.Names["C"] = "Valid2"
	valid2.PkgNames = []string{"composite"}

	c := NewComposite()
	result := c.Merge([]*apprecord.Record{valid, valid2})

	require.Len(t, result, 2)

	var kept, donor *apprecord.Record
	for _, r := range result {
		if r.HasVeto() {
			donor = r
		} else {
			kept = r
		}
	}
	require.NotNil(t, kept)
	require.NotNil(t, donor)
	require.Equal(t, "valid", kept.ID)
	require.Equal(t, []string{"absorbed into valid.desktop"}, donor.Vetoes)
}

func TestComposite_Merge_NoMatchingGroups(t *testing.T) {
	a := apprecord.NewRecord("a.desktop")
	a.Names["C"] = "A"
	a.PkgNames = []string{"pkg-a"}
	b := apprecord.NewRecord("b.desktop")
	b.Names["C"] = "B"
	b.PkgNames = []string{"pkg-b"}

	c := NewComposite()
	result := c.Merge([]*apprecord.Record{a, b})
	require.Len(t, result, 2)
	for _, r := range result {
		require.False(t, r.HasVeto())
	}
}
