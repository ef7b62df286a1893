// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// fakeReader is a scripted pkgreader.Reader used across pkg/build's own
// tests, so the Task/Context state machine can be exercised without a real
// archive backing every fixture.
type fakeReader struct {
	openErr    map[string]error
	ensureErr  map[string]error
	explodeErr map[string]error
	files      map[string][]string
	contents   map[string]map[string]string
	name       map[string]string
	arch       map[string]string
	closed     []string
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		openErr:    map[string]error{},
		ensureErr:  map[string]error{},
		explodeErr: map[string]error{},
		files:      map[string][]string{},
		contents:   map[string]map[string]string{},
		name:       map[string]string{},
		arch:       map[string]string{},
	}
}

func (f *fakeReader) Open(_ context.Context, path string) (*pkgreader.Package, error) {
	if err, ok := f.openErr[path]; ok {
		return nil, err
	}
	return &pkgreader.Package{Filename: path, Basename: filepath.Base(path)}, nil
}

func (f *fakeReader) Ensure(_ context.Context, pkg *pkgreader.Package) error {
	if err, ok := f.ensureErr[pkg.Filename]; ok {
		return err
	}
	pkg.Files = f.files[pkg.Filename]
	if n, ok := f.name[pkg.Filename]; ok {
		pkg.Name = n
	}
	if a, ok := f.arch[pkg.Filename]; ok {
		pkg.Arch = a
	}
	return nil
}

func (f *fakeReader) Explode(_ context.Context, pkg *pkgreader.Package, _ []string) (string, error) {
	if err, ok := f.explodeErr[pkg.Filename]; ok {
		return "", err
	}
	dir, err := os.MkdirTemp("", "catgen-faketask-*")
	if err != nil {
		return "", err
	}
	for rel, content := range f.contents[pkg.Filename] {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return dir, err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return dir, err
		}
	}
	return dir, nil
}

func (f *fakeReader) Close(pkg *pkgreader.Package) error {
	f.closed = append(f.closed, pkg.Filename)
	return nil
}
