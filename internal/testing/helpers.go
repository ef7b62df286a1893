// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package testing

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// FakeReader is a scripted pkgreader.Reader: every package's file list,
// metadata, and failure points are set up in advance, so tests exercise
// the build pipeline without a real RPM/deb decoder. It is safe for
// concurrent use by a worker pool.
type FakeReader struct {
	mu sync.Mutex

	files    map[string][]string
	contents map[string]map[string]string
	names    map[string]string
	arches   map[string]string

	openErr    map[string]error
	ensureErr  map[string]error
	explodeErr map[string]error

	closed []string
}

// NewFakeReader returns an empty FakeReader. Script it with AddFiles,
// SetMetadata, FailOpen, FailEnsure, and FailExplode before handing it
// to a Context or Task.
func NewFakeReader() *FakeReader {
	return &FakeReader{
		files:      map[string][]string{},
		contents:   map[string]map[string]string{},
		names:      map[string]string{},
		arches:     map[string]string{},
		openErr:    map[string]error{},
		ensureErr:  map[string]error{},
		explodeErr: map[string]error{},
	}
}

// AddFiles registers filename's file listing and contents, used by
// Ensure and Explode respectively.
func (f *FakeReader) AddFiles(filename string, contents map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	files := make([]string, 0, len(contents))
	for path := range contents {
		files = append(files, path)
	}
	f.files[filename] = files
	f.contents[filename] = contents
}

// SetMetadata sets the name and arch Ensure fills onto the opened
// Package, used by ignore-store id_full construction
// ("<name>.<arch>").
func (f *FakeReader) SetMetadata(filename, name, arch string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names[filename] = name
	f.arches[filename] = arch
}

// FailOpen makes Open return err for filename.
func (f *FakeReader) FailOpen(filename string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr[filename] = err
}

// FailEnsure makes Ensure return err for a package opened from filename.
func (f *FakeReader) FailEnsure(filename string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureErr[filename] = err
}

// FailExplode makes Explode return err for a package opened from
// filename.
func (f *FakeReader) FailExplode(filename string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.explodeErr[filename] = err
}

// ClosedFilenames returns the filenames Close has been called for, in
// call order. Used by tests asserting the Resource policy (Explode
// always paired with Close).
func (f *FakeReader) ClosedFilenames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.closed))
	copy(out, f.closed)
	return out
}

// Open implements pkgreader.Reader.
func (f *FakeReader) Open(ctx context.Context, path string) (*pkgreader.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	basename := filepath.Base(path)
	if err, ok := f.openErr[basename]; ok {
		return nil, err
	}
	return &pkgreader.Package{Filename: basename, Basename: basename}, nil
}

// Ensure implements pkgreader.Reader.
func (f *FakeReader) Ensure(ctx context.Context, pkg *pkgreader.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.ensureErr[pkg.Filename]; ok {
		return err
	}
	pkg.Files = append([]string(nil), f.files[pkg.Filename]...)
	pkg.Name = f.names[pkg.Filename]
	pkg.Arch = f.arches[pkg.Filename]
	return nil
}

// Explode implements pkgreader.Reader. It writes the matching contents
// into a fresh os.MkdirTemp scratch directory and returns its path.
func (f *FakeReader) Explode(ctx context.Context, pkg *pkgreader.Package, globs []string) (string, error) {
	f.mu.Lock()
	contents := f.contents[pkg.Filename]
	err, failed := f.explodeErr[pkg.Filename]
	f.mu.Unlock()

	if failed {
		return "", err
	}

	dir, err := os.MkdirTemp("", "catgen-fakereader-*")
	if err != nil {
		return "", err
	}

	for relPath, data := range contents {
		if !anyGlobMatches(globs, relPath) {
			continue
		}
		full := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// Close implements pkgreader.Reader.
func (f *FakeReader) Close(pkg *pkgreader.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, pkg.Filename)
	return nil
}

func anyGlobMatches(globs []string, path string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if ok, _ := filepath.Match(g, path); ok {
			return true
		}
	}
	return false
}

// WritePackageTree materialises files (relative path -> contents) under
// a fresh temporary directory and returns its root, for tests that
// exercise pkgreader.DirReader or another filesystem-backed Reader
// directly instead of FakeReader.
func WritePackageTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for relPath, data := range files {
		full := filepath.Join(root, relPath)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("testing: mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
			t.Fatalf("testing: write %s: %v", full, err)
		}
	}
	return root
}

// RecordOption mutates a Record built by NewAppRecord.
type RecordOption func(*apprecord.Record)

// WithPkgNames sets the Record's owning package names, which drives
// composite-merge grouping.
func WithPkgNames(names ...string) RecordOption {
	return func(r *apprecord.Record) { r.PkgNames = names }
}

// WithIcon attaches a cached icon reference, satisfying the
// "desktop application has an icon" invariant.
func WithIcon(name string) RecordOption {
	return func(r *apprecord.Record) {
		r.Icon = &apprecord.Icon{Name: name, Kind: apprecord.IconCached}
	}
}

// WithCategories appends to the Record's category list.
func WithCategories(categories ...string) RecordOption {
	return func(r *apprecord.Record) { r.Categories = append(r.Categories, categories...) }
}

// WithExtends marks the Record as an addon extending parentIDFull.
func WithExtends(parentIDFull string) RecordOption {
	return func(r *apprecord.Record) {
		r.IDKind = apprecord.KindAddon
		r.Extends = parentIDFull
	}
}

// NewAppRecord builds a Record with idFull, the fallback-locale name
// set, and any options applied, ready for merge/validate tests.
func NewAppRecord(idFull, name string, opts ...RecordOption) *apprecord.Record {
	r := apprecord.NewRecord(idFull)
	r.Names[apprecord.FallbackLocale] = name
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDesktopRecord builds a valid desktop-application Record: IDKind
// KindDesktop, an icon, and the fallback-locale name set, satisfying
// Record.Validate without a veto.
func NewDesktopRecord(idFull, name string, opts ...RecordOption) *apprecord.Record {
	r := NewAppRecord(idFull, name, opts...)
	r.IDKind = apprecord.KindDesktop
	r.SourceKind = apprecord.SourceDesktopEntry
	if r.Icon == nil {
		r.Icon = &apprecord.Icon{Name: idFull + "-icon", Kind: apprecord.IconStock}
	}
	return r
}
