// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package plugins

import (
	"context"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
)

// MetadataXML processes upstream AppData/metainfo XML files
// (*.appdata.xml, *.metainfo.xml), enriching or synthesising the
// application record with names, summaries, descriptions, releases,
// screenshots, and the addon <extends> relationship.
type MetadataXML struct{}

// NewMetadataXML returns the metadata-xml plugin.
func NewMetadataXML() *MetadataXML { return &MetadataXML{} }

func (p *MetadataXML) Name() string { return "metadata-xml" }
func (p *MetadataXML) Globs() []string {
	return []string{"usr/share/metainfo/*.xml", "usr/share/appdata/*.xml"}
}

// ProcessFile parses one AppData/metainfo document, matching it against
// an already-discovered app (by id) or synthesising a new one.
func (p *MetadataXML) ProcessFile(_ context.Context, pkg *pkgreader.Package, path string, apps *AppList) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return Veto("malformed metadata xml %s: %v", path, err)
	}

	root := doc.Root()
	if root == nil {
		return Veto("empty metadata xml %s", path)
	}
	multipleRoots := countTopLevelComponents(doc) > 1

	idEl := root.SelectElement("id")
	var idFull string
	if idEl != nil {
		idFull = strings.TrimSpace(idEl.Text())
	}
	if idFull == "" {
		idFull = baseNameOf(path)
	}

	app := apps.Find(idFull)
	if app == nil {
		app = apprecord.NewRecord(idFull)
		app.SourceKind = apprecord.SourceMetadataXML
		apps.Add(app)
	}
	if multipleRoots {
		app.Problems |= apprecord.ProblemMultipleTopLevelNodes
	}
	app.PkgNames = apprecord.AddOrdered(app.PkgNames, pkg.Name)

	if kind := root.SelectAttrValue("type", ""); kind != "" {
		app.IDKind = apprecord.IDKind(kind)
	}

	for _, nameEl := range root.SelectElements("name") {
		locale := localeOf(nameEl)
		app.Names[locale] = strings.TrimSpace(nameEl.Text())
	}
	for _, summaryEl := range root.SelectElements("summary") {
		locale := localeOf(summaryEl)
		app.Comments[locale] = strings.TrimSpace(summaryEl.Text())
	}
	if descEl := root.SelectElement("description"); descEl != nil {
		locale := localeOf(descEl)
		raw, _ := innerXML(descEl)
		app.Descriptions[locale] = apprecord.SanitizeDescription(raw)
	}
	if licenseEl := root.SelectElement("project_license"); licenseEl != nil {
		app.ProjectLicense = strings.TrimSpace(licenseEl.Text())
	} else if licenceEl := root.SelectElement("licence"); licenceEl != nil {
		app.ProjectLicense = strings.TrimSpace(licenceEl.Text())
		app.Problems |= apprecord.ProblemDeprecatedLicenceTag
	}
	if extendsEl := root.SelectElement("extends"); extendsEl != nil {
		app.Extends = strings.TrimSpace(extendsEl.Text())
		app.IDKind = apprecord.KindAddon
	}

	if categoriesEl := root.SelectElement("categories"); categoriesEl != nil {
		for _, c := range categoriesEl.SelectElements("category") {
			app.Categories = apprecord.AddOrderedFolded(app.Categories, strings.TrimSpace(c.Text()))
		}
	}

	if releasesEl := root.SelectElement("releases"); releasesEl != nil {
		for _, rel := range releasesEl.SelectElements("release") {
			version := rel.SelectAttrValue("version", "")
			tsStr := rel.SelectAttrValue("timestamp", "0")
			ts, _ := strconv.ParseInt(tsStr, 10, 64)
			var desc string
			if descEl := rel.SelectElement("description"); descEl != nil {
				desc, _ = innerXML(descEl)
			}
			app.Releases = append(app.Releases, apprecord.Release{
				Version:     version,
				Timestamp:   ts,
				Description: desc,
			})
		}
		app.SortReleases()
	}

	if screenshotsEl := root.SelectElement("screenshots"); screenshotsEl != nil {
		for _, shot := range screenshotsEl.SelectElements("screenshot") {
			isDefault := shot.SelectAttrValue("type", "") == "default"
			var caption string
			if capEl := shot.SelectElement("caption"); capEl != nil {
				caption = strings.TrimSpace(capEl.Text())
			}
			var images []string
			for _, img := range shot.SelectElements("image") {
				images = append(images, strings.TrimSpace(img.Text()))
			}
			app.Screenshots = append(app.Screenshots, apprecord.Screenshot{
				Default: isDefault,
				Caption: caption,
				Images:  images,
			})
		}
	}

	return nil
}

func localeOf(el *etree.Element) string {
	if lang := el.SelectAttrValue("lang", ""); lang != "" {
		return lang
	}
	return apprecord.FallbackLocale
}

func innerXML(el *etree.Element) (string, error) {
	var b strings.Builder
	for _, child := range el.Child {
		switch c := child.(type) {
		case *etree.Element:
			doc := etree.NewDocument()
			doc.SetRoot(c.Copy())
			s, err := doc.WriteToString()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case *etree.CharData:
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func countTopLevelComponents(doc *etree.Document) int {
	count := 0
	for _, child := range doc.Child {
		if _, ok := child.(*etree.Element); ok {
			count++
		}
	}
	return count
}
