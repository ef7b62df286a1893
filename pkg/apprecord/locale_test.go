// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLocale(t *testing.T) {
	assert.True(t, ValidLocale("C"))
	assert.True(t, ValidLocale("en"))
	assert.True(t, ValidLocale("pt-BR"))
	assert.False(t, ValidLocale("not a locale!!"))
}

func TestAddOrderedFolded_CaseInsensitiveDedup(t *testing.T) {
	set := []string{}
	set = AddOrderedFolded(set, "GTK")
	set = AddOrderedFolded(set, "gtk")
	assert.Equal(t, []string{"GTK"}, set)
}
