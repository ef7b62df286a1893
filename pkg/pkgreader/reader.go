// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package pkgreader defines the external Package Reader boundary: opening
// a distribution package, enumerating and "ensuring" its metadata, and
// exploding a glob-filtered file subset into a scratch directory.
//
// Package-format decoding is an explicit non-goal of the build pipeline
// itself (spec Non-goals: "package-format decoding details"); this
// package defines only the interface the pipeline depends on, plus one
// reference implementation (DirReader) backed by a plain tar.gz so the
// pipeline is exercisable end-to-end without a real RPM/deb decoder.
package pkgreader

import "context"

// Dependency is one declared package dependency.
type Dependency struct {
	Name    string
	Version string
}

// Release is one changelog/release entry read directly off the package
// metadata (as opposed to apprecord.Release, which is per-application and
// may be enriched from AppData XML).
type Release struct {
	Version     string
	Timestamp   int64
	Description string
}

// Package is the in-memory representation of one package under
// processing. Package objects are owned by the Package Task processing
// them and are dropped at task end (§3 Ownership).
type Package struct {
	Filename           string
	Basename           string
	Name               string
	EVR                string
	NEVR               string
	Arch               string
	SourcePackageName  string
	Deps               []Dependency
	Files              []string
	URL                string
	License             string
	Releases            []Release
	Enabled             bool
	ConfigMap           map[string]string
	LogBuffer           []string
	CacheFingerprint    string

	ensured bool
}

// Log appends a line to the package's log buffer (§9 "log buffer").
func (p *Package) Log(line string) {
	p.LogBuffer = append(p.LogBuffer, line)
}

// Reader is the external Package Reader boundary (§2.1).
type Reader interface {
	// Open opens the package file named by path and returns a Package
	// with Filename/Basename already populated. It does not yet read the
	// rest of the metadata — that happens lazily via Ensure.
	Open(ctx context.Context, path string) (*Package, error)

	// Ensure materialises the package's license, URL, file list,
	// dependencies, source package name, and release history. It may be
	// called more than once; subsequent calls are no-ops.
	Ensure(ctx context.Context, pkg *Package) error

	// Explode extracts the subset of pkg's files matching globs into a
	// freshly created scratch directory and returns its path. The
	// caller owns cleanup of the returned directory.
	Explode(ctx context.Context, pkg *Package, globs []string) (dir string, err error)

	// Close releases any native handles the reader holds for pkg. It is
	// called once the task has finished extracting files (state >=
	// Exploded, §5 "Resource policy").
	Close(pkg *Package) error
}
