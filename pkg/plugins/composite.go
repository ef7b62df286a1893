// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import "github.com/catalogforge/catalogforge/pkg/apprecord"

// Composite is the cross-package merge pass (§4.4), structured as a
// first-class plugin per asb-plugin-composite.c rather than an
// unattributed "merge pass": it implements only the Merge hook, grouping
// applications by default package name and running the pairwise
// composite algorithm within each group.
type Composite struct{}

// NewComposite returns the composite plugin.
func NewComposite() *Composite { return &Composite{} }

func (p *Composite) Name() string    { return "composite" }
func (p *Composite) Globs() []string { return nil }

// Merge groups apps by default package name (deterministically ordered,
// per the spec's clustering-order open question) and folds each group
// left by ascending id length. It returns every input record: for each
// group the surviving records, then the donors absorbed during folding,
// which now carry an "absorbed into <id>" veto for the caller to route to
// the failed store.
func (p *Composite) Merge(apps []*apprecord.Record) []*apprecord.Record {
	byGroup := map[string][]*apprecord.Record{}
	for _, app := range apps {
		key := defaultGroupKey(app)
		byGroup[key] = append(byGroup[key], app)
	}

	keys := apprecord.Cluster(apps)

	var result []*apprecord.Record
	for _, key := range keys {
		group := byGroup[key]
		kept, donors := apprecord.FoldComposite(group)
		result = append(result, kept...)
		result = append(result, donors...)
	}
	return result
}

func defaultGroupKey(r *apprecord.Record) string {
	if len(r.PkgNames) > 0 {
		return r.PkgNames[0]
	}
	return ""
}
