// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
)

// IconSizes lists the catalog icon sizes rendered by default, in pixels.
var IconSizes = []int{64, 128}

// IconRenderer decodes an exploded icon file and resizes it down to the
// catalog's configured icon sizes. Low-level icon rescaling algorithms
// are an explicit spec Non-goal; this plugin only wires a real resizer
// (disintegration/imaging) behind the narrow capability the pipeline
// depends on.
type IconRenderer struct {
	CacheDir    string
	MinIconSize int
}

// NewIconRenderer returns the icon plugin, writing rendered icons under
// cacheDir and skipping target sizes in IconSizes smaller than
// minIconSize pixels. The source icon's own size is not checked.
func NewIconRenderer(cacheDir string, minIconSize int) *IconRenderer {
	return &IconRenderer{CacheDir: cacheDir, MinIconSize: minIconSize}
}

func (p *IconRenderer) Name() string { return "icon" }
func (p *IconRenderer) Globs() []string {
	return []string{
		"usr/share/icons/hicolor/*/apps/*.png",
		"usr/share/pixmaps/*.png",
	}
}

// ProcessApp renders the application's icon reference to every configured
// size, storing the result under CacheDir/<size>x<size>/<name>.png and
// switching the icon kind to "cached" (§4.2 AppsBuilt: "icon rendering").
func (p *IconRenderer) ProcessApp(_ context.Context, app *apprecord.Record, tmpdir string) error {
	if app.Icon == nil || app.Icon.Kind == apprecord.IconCached {
		return nil
	}

	srcPath := app.Icon.Path
	if srcPath == "" {
		srcPath = findIconFile(tmpdir, app.Icon.Name)
	}
	if srcPath == "" {
		// Stock icon names with no embedded artwork are left as-is.
		return nil
	}

	img, err := imaging.Open(srcPath)
	if err != nil {
		return Veto("cannot decode icon %s: %v", srcPath, err)
	}

	for _, size := range IconSizes {
		if size < p.MinIconSize {
			continue
		}
		resized := imaging.Resize(img, size, size, imaging.Lanczos)
		destDir := filepath.Join(p.CacheDir, fmt.Sprintf("%dx%d", size, size))
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("icon: mkdir %s: %w", destDir, err)
		}
		destPath := filepath.Join(destDir, app.Icon.Name+".png")
		if err := imaging.Save(resized, destPath); err != nil {
			return fmt.Errorf("icon: save %s: %w", destPath, err)
		}
	}

	app.Icon.Kind = apprecord.IconCached
	app.Icon.Width = IconSizes[len(IconSizes)-1]
	app.Icon.Height = IconSizes[len(IconSizes)-1]
	return nil
}

func findIconFile(tmpdir, name string) string {
	candidates := []string{
		filepath.Join(tmpdir, name+".png"),
	}
	matches, _ := filepath.Glob(filepath.Join(tmpdir, "usr", "share", "icons", "hicolor", "*", "apps", name+".png"))
	candidates = append(candidates, matches...)
	pixmapMatches, _ := filepath.Glob(filepath.Join(tmpdir, "usr", "share", "pixmaps", name+".png"))
	candidates = append(candidates, pixmapMatches...)

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
