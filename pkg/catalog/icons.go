// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/gzip"
)

// BundleIcons walks cacheDir (organised by the icon plugin into
// <size>x<size>/<name>.png subdirectories) and writes every rendered icon
// into a single compressed tar at destPath, harvested exactly once at the
// end of processing (§5 "Resource policy").
func BundleIcons(cacheDir, destPath string) error {
	var paths []string
	err := filepath.WalkDir(cacheDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog: walk icon cache %s: %w", cacheDir, err)
	}
	sort.Strings(paths)

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("catalog: create %s: %w", tmpPath, err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, path := range paths {
		rel, err := filepath.Rel(cacheDir, path)
		if err != nil {
			tw.Close()
			gz.Close()
			f.Close()
			return err
		}
		if err := addIconToTar(tw, path, filepath.ToSlash(rel)); err != nil {
			tw.Close()
			gz.Close()
			f.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		f.Close()
		return fmt.Errorf("catalog: close tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("catalog: close gzip writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("catalog: close %s: %w", tmpPath, err)
	}
	return os.Rename(tmpPath, destPath)
}

func addIconToTar(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name: name,
		Mode: 0o644,
		Size: info.Size(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("catalog: write tar header for %s: %w", name, err)
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	if _, err := io.Copy(tw, src); err != nil {
		return fmt.Errorf("catalog: copy %s into tar: %w", name, err)
	}
	return nil
}
