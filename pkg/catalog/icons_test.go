// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func TestBundleIcons_WalksCacheDirIntoTar(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cacheDir, "64x64"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(cacheDir, "128x128"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "64x64", "app.png"), []byte("small"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "128x128", "app.png"), []byte("large"), 0o644))

	dest := filepath.Join(t.TempDir(), "icons.tar.gz")
	require.NoError(t, BundleIcons(cacheDir, dest))

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		names = append(names, hdr.Name)
	}
	require.ElementsMatch(t, []string{"64x64/app.png", "128x128/app.png"}, names)
}
