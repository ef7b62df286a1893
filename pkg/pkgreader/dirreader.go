// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package pkgreader

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/catalogforge/catalogforge/internal/globmatch"
)

// DirReader is a reference Reader implementation backed by a plain
// tar.gz archive. It exists to make the Package Task pipeline exercisable
// end-to-end in tests without a real RPM/deb decoder, which the spec
// treats as an external capability out of scope for this package.
//
// It derives the package's name, evr and arch from the archive's
// basename (e.g. "<name>-<evr>.<arch>.tar.gz"); the archive's directory
// layout is not consulted for metadata.
type DirReader struct {
	scratchRoot string
}

// NewDirReader returns a DirReader that creates scratch directories under
// scratchRoot (typically the configured temp_dir).
func NewDirReader(scratchRoot string) *DirReader {
	return &DirReader{scratchRoot: scratchRoot}
}

type tarEntry struct {
	header *tar.Header
	data   []byte
}

type archive struct {
	path   string
	lookup map[string]*tarEntry
	order  []string
}

func loadArchive(path string) (*archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pkgreader: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("pkgreader: gzip %s: %w", path, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	ar := &archive{path: path, lookup: map[string]*tarEntry{}}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pkgreader: tar %s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("pkgreader: read %s in %s: %w", hdr.Name, path, err)
		}
		name := cleanEntryName(hdr.Name)
		ar.lookup[name] = &tarEntry{header: hdr, data: data}
		ar.order = append(ar.order, name)
	}
	return ar, nil
}

func cleanEntryName(name string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "./")
}

// archives maps a Package's Filename to its loaded archive for the
// duration of a task; Open populates it, Close removes it.
var archives = map[string]*archive{}

// Open implements Reader.
func (d *DirReader) Open(_ context.Context, pkgPath string) (*Package, error) {
	ar, err := loadArchive(pkgPath)
	if err != nil {
		return nil, err
	}
	archives[pkgPath] = ar

	pkg := &Package{
		Filename:  pkgPath,
		Basename:  filepath.Base(pkgPath),
		ConfigMap: map[string]string{},
	}
	return pkg, nil
}

// Ensure implements Reader. It derives name/evr/arch from the archive's
// basename (stripping the .tar.gz / .rpm-style suffix), lists every
// regular file, and computes the package's cache fingerprint.
func (d *DirReader) Ensure(_ context.Context, pkg *Package) error {
	if pkg.ensured {
		return nil
	}
	ar, ok := archives[pkg.Filename]
	if !ok {
		return fmt.Errorf("pkgreader: %s was not opened", pkg.Filename)
	}

	name, evr, arch := parseNEVRFromBasename(pkg.Basename)
	pkg.Name = name
	pkg.EVR = evr
	pkg.Arch = arch
	pkg.NEVR = fmt.Sprintf("%s-%s.%s", name, evr, arch)
	pkg.SourcePackageName = name

	pkg.Files = append(pkg.Files[:0], ar.order...)
	pkg.CacheFingerprint = fingerprintBasename(pkg.Basename)
	pkg.Enabled = true
	pkg.ensured = true
	return nil
}

// Explode implements Reader.
func (d *DirReader) Explode(_ context.Context, pkg *Package, globs []string) (string, error) {
	ar, ok := archives[pkg.Filename]
	if !ok {
		return "", fmt.Errorf("pkgreader: %s was not opened", pkg.Filename)
	}

	dir, err := os.MkdirTemp(d.scratchRoot, "catgen-task-*")
	if err != nil {
		return "", fmt.Errorf("pkgreader: scratch dir: %w", err)
	}

	for _, name := range ar.order {
		if !anyGlobMatches(globs, name) {
			continue
		}
		entry := ar.lookup[name]
		dest := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return dir, fmt.Errorf("pkgreader: mkdir for %s: %w", name, err)
		}
		if err := os.WriteFile(dest, entry.data, 0o644); err != nil {
			return dir, fmt.Errorf("pkgreader: write %s: %w", name, err)
		}
	}
	return dir, nil
}

// Close implements Reader.
func (d *DirReader) Close(pkg *Package) error {
	delete(archives, pkg.Filename)
	return nil
}

// fingerprintBasename derives the cache fingerprint from the package
// basename, per §3's definition ("derived from the package basename"),
// as a hex-encoded truncated SHA-256 stored in Package.CacheFingerprint.
// pkg/build.Fingerprint does not use this value: it is computed
// separately from the raw basename and build.BuilderID.
func fingerprintBasename(basename string) string {
	sum := sha256.Sum256([]byte(basename))
	return hex.EncodeToString(sum[:16])
}

func anyGlobMatches(globs []string, name string) bool {
	for _, g := range globs {
		if globmatch.Matches(name, g) {
			return true
		}
	}
	return false
}

func parseNEVRFromBasename(basename string) (name, evr, arch string) {
	trimmed := basename
	for _, suffix := range []string{".tar.gz", ".tgz", ".rpm"} {
		trimmed = strings.TrimSuffix(trimmed, suffix)
	}
	parts := strings.Split(trimmed, ".")
	arch = "noarch"
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		if last != "" {
			arch = last
			trimmed = strings.Join(parts[:len(parts)-1], ".")
		}
	}
	idx := strings.LastIndex(trimmed, "-")
	if idx < 0 {
		return trimmed, "0", arch
	}
	name = trimmed[:idx]
	evr = trimmed[idx+1:]
	return name, evr, arch
}
