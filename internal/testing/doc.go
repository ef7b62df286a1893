// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing provides test fixtures for catgen's build pipeline.
//
// It wraps the scaffolding that package-level tests across pkg/build,
// pkg/pkgreader, pkg/apprecord, and pkg/plugins all need: a scripted
// pkgreader.Reader backed by an in-memory file map, a temp-directory
// package tree builder for tests that want a real filesystem layout
// instead, and an apprecord.Record builder for merge/validation tests.
//
// # Quick Start
//
// Use NewFakeReader to script a package's contents without a real
// archive decoder:
//
//	func TestMyPlugin(t *testing.T) {
//	    reader := testfixtures.NewFakeReader()
//	    reader.AddFiles("sample-1.0-1.fc21.noarch.rpm", map[string]string{
//	        "usr/share/applications/sample.desktop": sampleDesktopEntry,
//	    })
//
//	    rec := testfixtures.NewDesktopRecord("org.example.Sample", "Sample")
//	    require.False(t, rec.HasVeto())
//	}
//
// # Building a Real Package Tree
//
// Use WritePackageTree when a test needs actual files on disk, e.g. to
// exercise pkgreader.DirReader directly:
//
//	root := testfixtures.WritePackageTree(t, map[string]string{
//	    "usr/share/applications/sample.desktop": sampleDesktopEntry,
//	})
package testing
