// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValidLocale reports whether key is the fallback locale "C" or parses as
// a BCP-47 language tag, per §3's localized-map requirement.
func ValidLocale(key string) bool {
	if key == FallbackLocale {
		return true
	}
	_, err := language.Parse(key)
	return err == nil
}

// FoldToken case-folds a keyword/category token before it is inserted into
// an ordered set, so that "GTK" and "gtk" dedupe to one entry.
func FoldToken(token string) string {
	return cases.Fold().String(token)
}

// AddOrderedFolded is like AddOrdered but compares tokens after case
// folding, used for keyword and category insertion (§3 "ordered set of
// text").
func AddOrderedFolded(set []string, value string) []string {
	folded := FoldToken(value)
	for _, v := range set {
		if FoldToken(v) == folded {
			return set
		}
	}
	return append(set, value)
}
