// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/catalogforge/catalogforge/internal/bootstrap"
	"github.com/catalogforge/catalogforge/internal/errors"
	"github.com/catalogforge/catalogforge/pkg/apprecord"
	"github.com/catalogforge/catalogforge/pkg/catalog"
	"github.com/catalogforge/catalogforge/pkg/pkgreader"
	"github.com/catalogforge/catalogforge/pkg/plugins"
)

// Context owns the input queue, the worker pool, the shared result
// stores, the old-catalog cache, and coordinates the end-of-run merge
// and serialisation (§2 item 6, §4.3, §5).
type Context struct {
	cfg    Config
	logger *slog.Logger
	reader pkgreader.Reader
	loader *Loader

	stores    stores
	oldLookup map[string]catalog.OldCatalogEntry

	pending []string
}

// NewContext constructs a Context with the default plugin registry
// (desktop-entry, metadata-xml, icon, font, composite), ready for Setup.
func NewContext(cfg Config, reader pkgreader.Reader, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ResolveDefaults()
	loader := NewLoader(
		plugins.NewDesktopEntry(),
		plugins.NewMetadataXML(),
		plugins.NewIconRenderer(cfg.CacheDir, cfg.MinIconSize),
		plugins.NewFont(),
		plugins.NewComposite(),
	)
	return &Context{cfg: cfg, logger: logger, reader: reader, loader: loader}
}

// Setup validates and creates the cache/temp/output directories and, if
// configured, loads the old catalog into the fingerprint lookup (§4.3
// Setup). Any failure here is a §7g setup failure: a UserError that
// aborts the run before workers start.
func (c *Context) Setup() error {
	dirs := bootstrap.Dirs{CacheDir: c.cfg.CacheDir, TempDir: c.cfg.TempDir, OutputDir: c.cfg.OutputDir}
	if err := bootstrap.Setup(dirs, c.logger); err != nil {
		return errors.NewIOError(
			"Cannot prepare build directories",
			err.Error(),
			"Check that cache_dir/temp_dir/output_dir are writable",
			err,
		)
	}

	if c.cfg.OldMetadata != "" {
		lookup, err := catalog.LoadOldCatalog(c.cfg.OldMetadata)
		if err != nil {
			return errors.NewCatalogError(
				"Cannot parse old catalog",
				err.Error(),
				"Check that old_metadata points at a valid catalog file or directory",
				err,
			)
		}
		c.oldLookup = lookup
	} else {
		c.oldLookup = map[string]catalog.OldCatalogEntry{}
	}

	c.logger.Info("build.setup.complete", "old_catalog_entries", len(c.oldLookup))
	return nil
}

// Enqueue computes filename's cache fingerprint and either resolves it
// directly from the old-catalog lookup (the package is never opened) or
// appends it to the pending queue (§4.3 Enqueue).
func (c *Context) Enqueue(filename string) {
	buildMetrics.init()
	buildMetrics.packagesEnqueued.Inc()

	basename := filepath.Base(filename)
	fp := Fingerprint(basename)

	if entry, ok := c.oldLookup[fp]; ok {
		buildMetrics.packagesCacheHit.Inc()
		c.stores.forStore(entry.Store).appendTask(entry.Records)
		c.logger.Info("build.enqueue.cache_hit", "package", basename, "fingerprint", fp, "store", entry.Store)
		return
	}

	buildMetrics.packagesQueued.Inc()
	c.pending = append(c.pending, filename)
}

// Pending returns the number of packages waiting to be processed. Used
// by tests asserting the cache-hit short circuit (§8 scenario 5).
func (c *Context) Pending() int { return len(c.pending) }

// Process drains the pending queue with a worker pool of size
// cfg.MaxThreads and runs the merge pass on every store, leaving the
// final record sets in the context's stores (§4.3 Process). It returns
// only an error.
func (c *Context) Process(ctx context.Context) error {
	start := time.Now()
	buildMetrics.init()

	limit := c.cfg.MaxThreads
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, filename := range c.pending {
		filename := filename
		g.Go(func() error {
			taskStart := time.Now()
			task := NewTask(filename, c.reader, c.loader, c.cfg, c.logger)
			task.Run(gctx)
			buildMetrics.taskDuration.Observe(time.Since(taskStart).Seconds())

			basename := filepath.Base(filename)
			fp := Fingerprint(basename)
			for _, app := range task.Apps() {
				if app.Metadata == nil {
					app.Metadata = map[string]string{}
				}
				if c.cfg.AddCacheID {
					app.Metadata["X-CacheID"] = fp
				}
			}

			switch task.State() {
			case Finished:
				buildMetrics.tasksFinished.Inc()
				c.routeApps(task.Apps())
			case Ignored:
				buildMetrics.tasksIgnored.Inc()
				ignoreRec := apprecord.NewRecord(ignoreIDFull(task.Package(), basename))
				if c.cfg.AddCacheID {
					ignoreRec.Metadata["X-CacheID"] = fp
				}
				c.stores.ignore.appendTask([]*apprecord.Record{ignoreRec})
			default:
				buildMetrics.tasksFailed.Inc()
				c.stores.failed.appendTask(task.Apps())
			}
			return nil
		})
	}

	_ = g.Wait()

	c.merge()

	buildMetrics.processDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("build.process.complete", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// routeApps places each finished application in the primary store, or
// the failed store if it already carries a veto from app-level
// validation (§4.2 state 5 "AppsBuilt").
func (c *Context) routeApps(apps []*apprecord.Record) {
	var primary, failed []*apprecord.Record
	for _, app := range apps {
		if app.HasVeto() {
			failed = append(failed, app)
			continue
		}
		primary = append(primary, app)
	}
	if len(primary) > 0 {
		c.stores.primary.appendTask(primary)
	}
	if len(failed) > 0 {
		c.stores.failed.appendTask(failed)
	}
}

// merge runs the composite/font-extends merge pass on each of the three
// stores, then the addon-attachment and veto-propagation passes on the
// primary store, after all tasks complete (§4.3 Process step 1, §4.4).
func (c *Context) merge() {
	primary := c.loader.RunMerge(c.stores.primary.snapshot())
	failed := c.loader.RunMerge(c.stores.failed.snapshot())
	ignore := c.loader.RunMerge(c.stores.ignore.snapshot())

	failedAdditions := extractVetoed(&primary)
	failed = append(failed, failedAdditions...)

	primary, moved := attachAddons(primary, failed, c.cfg.IgnoreMissingParents)
	failed = append(failed, moved...)

	buildMetrics.init()
	c.stores.primary.replace(primary)
	c.stores.failed.replace(failed)
	c.stores.ignore.replace(ignore)
}

// extractVetoed removes every vetoed record from records and returns
// them, in place, per §4.4 "Veto propagation".
func extractVetoed(records *[]*apprecord.Record) []*apprecord.Record {
	var kept, moved []*apprecord.Record
	for _, r := range *records {
		if r.HasVeto() {
			moved = append(moved, r)
			continue
		}
		kept = append(kept, r)
	}
	*records = kept
	return moved
}

// attachAddons implements §4.4 "Addon attachment": an addon whose
// extends target is present in primary stays; otherwise it moves to
// failed with a veto, unless ignoreMissingParents is set.
func attachAddons(primary, failed []*apprecord.Record, ignoreMissingParents bool) (keptPrimary, movedToFailed []*apprecord.Record) {
	present := map[string]bool{}
	for _, r := range primary {
		present[r.IDFull] = true
	}

	var kept []*apprecord.Record
	for _, r := range primary {
		if r.IDKind != apprecord.KindAddon || r.Extends == "" {
			kept = append(kept, r)
			continue
		}
		if present[r.Extends] || ignoreMissingParents {
			kept = append(kept, r)
			continue
		}
		r.AddVeto(fmt.Sprintf("Required parent %s not present", r.Extends))
		movedToFailed = append(movedToFailed, r)
	}
	return kept, movedToFailed
}

// Serialize writes the three catalog documents and the icon tar bundle
// to the configured output directory (§4.3 Process steps 2–3, §6
// Outputs).
func (c *Context) Serialize(writer catalog.Writer) error {
	origin := c.cfg.Basename

	primary := sortedRecords(c.stores.primary.snapshot())
	failed := sortedRecords(c.stores.failed.snapshot())
	ignore := sortedRecords(c.stores.ignore.snapshot())

	if err := writer.Write(filepath.Join(c.cfg.OutputDir, c.cfg.Basename+".xml.gz"), catalog.Document{
		APIVersion: c.cfg.APIVersion, BuilderID: BuilderID, Origin: origin, Records: primary,
	}); err != nil {
		return fmt.Errorf("build: write primary catalog: %w", err)
	}

	if err := writer.Write(filepath.Join(c.cfg.OutputDir, c.cfg.Basename+"-failed.xml.gz"), catalog.Document{
		APIVersion: c.cfg.APIVersion, BuilderID: BuilderID, Origin: origin, Records: failed,
	}); err != nil {
		return fmt.Errorf("build: write failed catalog: %w", err)
	}

	if err := writer.Write(filepath.Join(c.cfg.OutputDir, c.cfg.Basename+"-ignore.xml.gz"), catalog.Document{
		APIVersion: c.cfg.APIVersion, BuilderID: BuilderID, Origin: origin, Records: ignore,
	}); err != nil {
		return fmt.Errorf("build: write ignore catalog: %w", err)
	}

	if c.cfg.CacheDir != "" {
		if err := catalog.BundleIcons(c.cfg.CacheDir, filepath.Join(c.cfg.OutputDir, c.cfg.Basename+"-icons.tar.gz")); err != nil {
			return fmt.Errorf("build: bundle icons: %w", err)
		}
	}

	return nil
}

func sortedRecords(records []*apprecord.Record) []*apprecord.Record {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].IDFull != records[j].IDFull {
			return records[i].IDFull < records[j].IDFull
		}
		return firstPkgnameOf(records[i]) < firstPkgnameOf(records[j])
	})
	return records
}

// ignoreIDFull builds the id_full an ignored package is recorded under:
// "<name>.<arch>", matching the literal end-to-end scenario's
// `<id>test.noarch</id>`. It falls back to the package basename if the
// package's name/arch were never materialised.
func ignoreIDFull(pkg *pkgreader.Package, basename string) string {
	if pkg != nil && pkg.Name != "" && pkg.Arch != "" {
		return pkg.Name + "." + pkg.Arch
	}
	return basename
}

func firstPkgnameOf(r *apprecord.Record) string {
	if len(r.PkgNames) > 0 {
		return r.PkgNames[0]
	}
	return ""
}
