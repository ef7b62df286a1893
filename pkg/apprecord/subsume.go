// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package apprecord

// Mode selects the field-overwrite policy used by Subsume.
type Mode int

const (
	// NoOverwrite copies donor fields into target only where target has
	// none. Default policy for a partial composite merge.
	NoOverwrite Mode = iota
	// Overwrite replaces target values with the donor's. Used for a full
	// merge where the donor is authoritative.
	Overwrite
	// BothWays is symmetric: always no-overwrite, applied in both
	// directions by the caller.
	BothWays
)

// Subsume copies fields from donor into target according to mode.
//
// Package names, screenshots, languages, categories, and keywords are
// always union-merged regardless of mode (languages take the max
// percentage per locale). The icon is replaced only if target lacks one.
// This mirrors as-app.c's as_app_subsume_private field list exactly.
func Subsume(target, donor *Record, mode Mode) {
	overwrite := mode == Overwrite

	mergeStringMap(target.Names, donor.Names, overwrite)
	mergeStringMap(target.Comments, donor.Comments, overwrite)
	mergeStringMap(target.Descriptions, donor.Descriptions, overwrite)
	mergeKeywordMap(target.Keywords, donor.Keywords)
	mergeStringMap(target.URLs, donor.URLs, overwrite)
	mergeStringMap(target.Metadata, donor.Metadata, overwrite)

	target.PkgNames = unionOrdered(target.PkgNames, donor.PkgNames)
	target.Categories = unionOrdered(target.Categories, donor.Categories)
	target.MimeTypes = unionOrdered(target.MimeTypes, donor.MimeTypes)
	target.Architectures = unionOrdered(target.Architectures, donor.Architectures)
	target.CompulsoryForDesktops = unionOrdered(target.CompulsoryForDesktops, donor.CompulsoryForDesktops)

	target.Screenshots = unionScreenshots(target.Screenshots, donor.Screenshots)
	target.Languages = mergeLanguagesMax(target.Languages, donor.Languages)

	if target.Icon == nil {
		target.Icon = donor.Icon
	}

	if overwrite || target.ProjectLicense == "" {
		if donor.ProjectLicense != "" {
			target.ProjectLicense = donor.ProjectLicense
		}
	}
	if overwrite || target.MetadataLicense == "" {
		if donor.MetadataLicense != "" {
			target.MetadataLicense = donor.MetadataLicense
		}
	}
	if overwrite || target.ProjectGroup == "" {
		if donor.ProjectGroup != "" {
			target.ProjectGroup = donor.ProjectGroup
		}
	}
	if overwrite || target.UpdateContact == "" {
		if donor.UpdateContact != "" {
			target.UpdateContact = donor.UpdateContact
		}
	}
	if overwrite || target.Priority == 0 {
		if donor.Priority != 0 {
			target.Priority = donor.Priority
		}
	}

	if overwrite {
		target.Releases = donor.Releases
	} else if len(target.Releases) == 0 {
		target.Releases = donor.Releases
	}

	target.LogBuffer = append(target.LogBuffer, donor.LogBuffer...)
}

func mergeStringMap(target, donor map[string]string, overwrite bool) {
	for k, v := range donor {
		if overwrite {
			target[k] = v
			continue
		}
		if _, ok := target[k]; !ok {
			target[k] = v
		}
	}
}

func mergeKeywordMap(target, donor map[string][]string) {
	for locale, words := range donor {
		existing, ok := target[locale]
		if !ok {
			target[locale] = words
			continue
		}
		for _, w := range words {
			existing = AddOrdered(existing, w)
		}
		target[locale] = existing
	}
}

func unionOrdered(target, donor []string) []string {
	for _, v := range donor {
		target = AddOrdered(target, v)
	}
	return target
}

func unionScreenshots(target, donor []Screenshot) []Screenshot {
	seen := map[string]bool{}
	for _, s := range target {
		seen[s.Caption] = true
	}
	sawDefault := false
	for _, s := range target {
		if s.Default {
			sawDefault = true
		}
	}
	for _, s := range donor {
		if seen[s.Caption] {
			continue
		}
		if s.Default && sawDefault {
			s.Default = false
		}
		if s.Default {
			sawDefault = true
		}
		target = append(target, s)
		seen[s.Caption] = true
	}
	return target
}

func mergeLanguagesMax(target, donor map[string]int) map[string]int {
	if target == nil {
		target = map[string]int{}
	}
	for locale, pct := range donor {
		if cur, ok := target[locale]; !ok || pct > cur {
			target[locale] = pct
		}
	}
	return target
}
