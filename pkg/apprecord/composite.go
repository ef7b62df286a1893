// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"sort"
	"strings"
)

// MinCompositePrefixLen is the shortest shared id prefix that triggers a
// composite merge (§4.4: "non-empty and has length >= 4").
const MinCompositePrefixLen = 4

// SharedPrefix returns the overlap between two ids: their common prefix
// plus their common suffix, mirroring as_utils_get_string_overlap. A
// trailing '.' left dangling by a prefix-only match (no common suffix)
// is trimmed, so "org.example.App"/"org.example.Other" overlap on
// "org.example" rather than "org.example.".
func SharedPrefix(a, b string) string {
	short, long := a, b
	if len(long) < len(short) {
		short, long = long, short
	}

	prefixLen := 0
	for prefixLen < len(short) && short[prefixLen] == long[prefixLen] {
		prefixLen++
	}

	// A common suffix only counts as part of the overlap once the ids
	// already agree on a leading root; otherwise two unrelated ids that
	// happen to share a trailing component (e.g. the same file
	// extension) would look like an overlap on the suffix alone.
	suffixLen := 0
	if prefixLen > 0 {
		maxSuffix := len(short) - prefixLen
		for suffixLen < maxSuffix && short[len(short)-1-suffixLen] == long[len(long)-1-suffixLen] {
			suffixLen++
		}
	}

	prefix := short[:prefixLen]
	suffix := short[len(short)-suffixLen:]
	if suffix == "" {
		prefix = strings.TrimSuffix(prefix, ".")
	}
	if prefix == "" && suffix == "" {
		return ""
	}
	return prefix + suffix
}

// CompositeWinner picks which of two records with an overlapping id
// becomes the merge target, per _as_app_composite's tie-break: the
// shorter id wins; ties are broken by the shorter fallback-locale name.
// Returns (winner, donor).
func CompositeWinner(a, b *Record) (*Record, *Record) {
	if len(a.ID) != len(b.ID) {
		if len(a.ID) < len(b.ID) {
			return a, b
		}
		return b, a
	}
	if len(a.Name()) <= len(b.Name()) {
		return a, b
	}
	return b, a
}

// Cluster returns the distinct default package names (the first entry of
// PkgNames) of records, sorted, so that callers grouping records by that
// key and folding each group do not depend on Go's randomised map
// iteration order. It returns the keys only; the records themselves are
// not grouped here.
func Cluster(records []*Record) []string {
	seen := map[string]bool{}
	var keys []string
	for _, r := range records {
		k := defaultPkgName(r)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func defaultPkgName(r *Record) string {
	if len(r.PkgNames) > 0 {
		return r.PkgNames[0]
	}
	return ""
}

// FoldComposite folds a single package-name group left by ascending id
// length (ties by ascending fallback-locale name length), resolving the
// spec's open question about clustering order deterministically instead
// of processing pairs in hash-iteration order.
//
// It returns the surviving records (composited in place) and the donors
// that were absorbed, each already carrying an "absorbed into <id>" veto.
func FoldComposite(group []*Record) (kept []*Record, donors []*Record) {
	ordered := append([]*Record(nil), group...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i].ID) != len(ordered[j].ID) {
			return len(ordered[i].ID) < len(ordered[j].ID)
		}
		return len(ordered[i].Name()) < len(ordered[j].Name())
	})

	var live []*Record
	for _, candidate := range ordered {
		merged := false
		for _, target := range live {
			if target.IDFull == candidate.IDFull {
				// Exact duplicate: keep the earlier record.
				donors = append(donors, candidate)
				merged = true
				break
			}
			overlap := SharedPrefix(target.IDFull, candidate.IDFull)
			if len(overlap) < MinCompositePrefixLen {
				continue
			}
			winner, donor := CompositeWinner(target, candidate)
			Subsume(winner, donor, NoOverwrite)
			donor.AddVeto("absorbed into " + winner.IDFull)
			if winner != target {
				// target was the donor; replace it in live with winner.
				for i, l := range live {
					if l == target {
						live[i] = winner
						break
					}
				}
			}
			donors = append(donors, donor)
			merged = true
			break
		}
		if !merged {
			live = append(live, candidate)
		}
	}
	return live, donors
}
