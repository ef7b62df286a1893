// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions orders two release/evr version strings using real
// semantic-version comparison where possible, falling back to a plain
// string comparison for non-semver-shaped strings (distro EVRs frequently
// carry a leading epoch or a release tag semver can't parse).
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortReleasesBySemver orders releases descending by version using
// CompareVersions, used as a tie-break when two releases share a
// timestamp.
func SortReleasesBySemver(releases []Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		if releases[i].Timestamp != releases[j].Timestamp {
			return releases[i].Timestamp > releases[j].Timestamp
		}
		return CompareVersions(releases[i].Version, releases[j].Version) > 0
	})
}
