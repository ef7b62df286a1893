// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package globmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		path, pattern string
		want          bool
	}{
		{"usr/share/applications/app.desktop", "*.desktop", true},
		{"usr/share/metainfo/app.appdata.xml", "*.appdata.xml", true},
		{"usr/share/icons/hicolor/48x48/app.png", "usr/share/icons/**", true},
		{"usr/bin/app", "*.desktop", false},
		{"a/b/c.txt", "a/?/c.txt", true},
		{"a/bb/c.txt", "a/?/c.txt", false},
		{"file1.txt", "file[0-9].txt", true},
		{"fileA.txt", "file[0-9].txt", false},
		{"fileA.txt", "file[!0-9].txt", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Matches(c.path, c.pattern), "path=%s pattern=%s", c.path, c.pattern)
	}
}

func TestLiteralPrefixLen(t *testing.T) {
	assert.Equal(t, len("usr/share/"), LiteralPrefixLen("usr/share/*.desktop"))
	assert.Equal(t, len("usr/share/app.desktop"), LiteralPrefixLen("usr/share/app.desktop"))
	assert.Equal(t, 0, LiteralPrefixLen("*.desktop"))
}
