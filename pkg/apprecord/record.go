// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package apprecord defines the in-memory representation of one discovered
// application and the field-wise merge rules (subsume, composite) used to
// deduplicate and relate applications across packages.
package apprecord

import (
	"sort"
	"strings"
)

// IDKind classifies the kind of application a Record describes.
type IDKind string

const (
	KindDesktop     IDKind = "desktop"
	KindFont        IDKind = "font"
	KindCodec       IDKind = "codec"
	KindInputMethod IDKind = "inputmethod"
	KindAddon       IDKind = "addon"
	KindWebapp      IDKind = "webapp"
	KindSource      IDKind = "source"
	KindUnknown     IDKind = "unknown"
)

// SourceKind records which extracted file produced a Record.
type SourceKind string

const (
	SourceDesktopEntry SourceKind = "desktop-entry"
	SourceMetadataXML  SourceKind = "metadata-xml"
	SourceSynthesised  SourceKind = "synthesised"
)

// FallbackLocale is the locale key every localized map falls back to when no
// more specific translation is present.
const FallbackLocale = "C"

// Release is one entry in an application's release history.
type Release struct {
	Version     string
	Timestamp   int64
	Description string
}

// Screenshot is one entry in an application's screenshot list.
type Screenshot struct {
	Default bool
	Caption string
	Images  []string
}

// Icon describes an application's icon reference.
type Icon struct {
	Name   string
	Kind   IconKind
	Path   string
	Width  int
	Height int
}

// IconKind enumerates where an icon reference resolves to.
type IconKind string

const (
	IconCached   IconKind = "cached"
	IconStock    IconKind = "stock"
	IconRemote   IconKind = "remote"
	IconEmbedded IconKind = "embedded"
)

// Problem is a bit in the parse-problems bitset (§7 Parse problems).
type Problem uint32

const (
	ProblemNoXMLHeader Problem = 1 << iota
	ProblemNoCopyrightComment
	ProblemDeprecatedLicenceTag
	ProblemMultipleTopLevelNodes
)

// Record is the in-memory representation of one discovered application.
type Record struct {
	ID         string
	IDFull     string
	IDKind     IDKind
	SourceKind SourceKind

	Names        map[string]string
	Comments     map[string]string
	Descriptions map[string]string
	Keywords     map[string][]string

	Categories   []string
	MimeTypes    []string
	Architectures []string
	PkgNames     []string

	CompulsoryForDesktops []string

	URLs map[string]string

	Releases    []Release
	Screenshots []Screenshot

	Languages map[string]int

	Metadata map[string]string

	Icon *Icon

	ProjectLicense  string
	MetadataLicense string
	ProjectGroup    string
	UpdateContact   string
	Priority        int

	Extends string

	Vetoes   []string
	Problems Problem

	// LogBuffer is an append-only log owned by the originating package,
	// preserved when the record moves between stores.
	LogBuffer []string
}

// NewRecord returns a Record with every map/slice field initialised empty,
// matching I2 ("every localized map has either a C entry or is empty").
func NewRecord(idFull string) *Record {
	return &Record{
		ID:           DeriveID(idFull),
		IDFull:       idFull,
		IDKind:       KindUnknown,
		Names:        map[string]string{},
		Comments:     map[string]string{},
		Descriptions: map[string]string{},
		Keywords:     map[string][]string{},
		URLs:         map[string]string{},
		Languages:    map[string]int{},
		Metadata:     map[string]string{},
	}
}

// DeriveID implements I1: id is the longest prefix of id_full up to the
// last '.'. If id_full has no dot, id equals id_full.
func DeriveID(idFull string) string {
	if i := strings.LastIndex(idFull, "."); i >= 0 {
		return idFull[:i]
	}
	return idFull
}

// AddVeto appends a human-readable rejection reason. Per I3, a record with
// a non-empty veto list is never emitted to the primary catalog.
func (r *Record) AddVeto(reason string) {
	r.Vetoes = append(r.Vetoes, reason)
}

// HasVeto reports whether the record carries any veto.
func (r *Record) HasVeto() bool {
	return len(r.Vetoes) > 0
}

// Log appends a line to the record's log buffer.
func (r *Record) Log(line string) {
	r.LogBuffer = append(r.LogBuffer, line)
}

// Name returns the fallback-locale name, or the empty string if unset.
func (r *Record) Name() string {
	return r.Names[FallbackLocale]
}

// AddOrdered inserts value into set if not already present, preserving
// insertion order (§3 "ordered set of text").
func AddOrdered(set []string, value string) []string {
	for _, v := range set {
		if v == value {
			return set
		}
	}
	return append(set, value)
}

// SortReleases orders the release list descending by timestamp, per I4.
func (r *Record) SortReleases() {
	sort.SliceStable(r.Releases, func(i, j int) bool {
		return r.Releases[i].Timestamp > r.Releases[j].Timestamp
	})
}

// TrimReleases keeps at most n releases (design note: N=3 serialised),
// retaining the most recent after SortReleases has been called.
func (r *Record) TrimReleases(n int) {
	if len(r.Releases) > n {
		r.Releases = r.Releases[:n]
	}
}

// Validate vetoes the record for missing required fields: an empty id or
// name ("Required AppData: <first category or unknown>"), a ConsoleOnly
// desktop application not described by metadata XML, and a desktop
// application without an icon. It stops at the first of the first two
// checks that fails. It does not check I1/I2/I5. It is called at the end
// of the AppsBuilt state.
func (r *Record) Validate() {
	if r.ID == "" || r.Name() == "" {
		r.AddVeto("Required AppData: " + r.firstCategoryOrUnknown())
		return
	}
	if r.IDKind == KindDesktop && r.SourceKind != SourceMetadataXML && hasCategory(r.Categories, "ConsoleOnly") {
		r.AddVeto("Required AppData: ConsoleOnly")
		return
	}
	if r.IDKind == KindDesktop && r.Icon == nil {
		r.AddVeto("Application " + r.ID + " has no icon")
	}
}

func (r *Record) firstCategoryOrUnknown() string {
	if len(r.Categories) > 0 {
		return r.Categories[0]
	}
	return "unknown"
}

func hasCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}
