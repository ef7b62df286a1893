// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy allows the restricted inline-markup subset a
// description may carry (§3: "descriptions carry a restricted inline-markup
// subset"): paragraphs, lists, and a few inline emphasis tags.
var descriptionPolicy = newDescriptionPolicy()

func newDescriptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "ul", "ol", "li", "em", "code")
	return p
}

// SanitizeDescription strips markup outside the allowed subset, returning
// HTML safe to either flatten to text (API < 0.6) or pass through
// pre-escaped (API >= 0.6).
func SanitizeDescription(raw string) string {
	return descriptionPolicy.Sanitize(raw)
}

// FlattenDescription strips all tags, used for API < 0.6 serialisation
// where descriptions are emitted as flat text.
func FlattenDescription(raw string) string {
	stripped := bluemonday.StrictPolicy().Sanitize(SanitizeDescription(raw))
	return strings.TrimSpace(stripped)
}
