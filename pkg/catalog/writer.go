// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package catalog implements the external Catalog Writer boundary: XML
// serialisation of application records (bit-exact, API-version
// conditional, per spec §6), the old-catalog reader used for the
// enqueue-time cache-hit short-circuit (§4.3), and the icon tar bundler.
package catalog

import "github.com/catalogforge/catalogforge/pkg/apprecord"

// Store identifies which of the three output stores a set of records
// belongs to.
type Store int

const (
	StorePrimary Store = iota
	StoreFailed
	StoreIgnore
)

// Document is the fully-resolved set of records and header attributes
// ready for serialisation.
type Document struct {
	APIVersion string
	BuilderID  string
	Origin     string
	Records    []*apprecord.Record
}

// Writer is the external Catalog Writer boundary (§2.7).
type Writer interface {
	// Write serialises doc as a compressed XML document to path.
	Write(path string, doc Document) error
}
