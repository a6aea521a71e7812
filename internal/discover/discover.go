// Package discover locates candidate log files for QC modules. A
// module registers a Spec of filename globs and optional content
// probes; Find walks the configured roots once and buckets matching
// files per category.
package discover

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// DefaultSizeCap is the largest file considered a log. Anything bigger
// is skipped; QC tool reports are small and the cap keeps a stray BAM
// or FASTQ out of the line scanner.
const DefaultSizeCap = 50 * 1024 * 1024

// sniffLen is how many leading bytes a content probe examines.
const sniffLen = 64 * 1024

// Spec describes what one log-type category looks like on disk.
type Spec struct {
	// Category is the log-type name modules look files up under.
	Category string
	// Globs match against the path relative to the search root.
	Globs []string
	// Contents, when non-empty, requires at least one of the given
	// substrings within the first bytes of the file.
	Contents []string
}

// Finder walks search roots and buckets files by category.
type Finder struct {
	specs   []Spec
	sizeCap int64
}

// NewFinder creates a Finder for the given specs.
func NewFinder(specs []Spec) *Finder {
	return &Finder{specs: specs, sizeCap: DefaultSizeCap}
}

// Find walks each root and returns matched files keyed by category.
// Files are returned in walk order, which is deterministic for a given
// tree. Unreadable files are skipped, not fatal.
func (d *Finder) Find(roots []string) (map[string][]qcreport.File, error) {
	found := make(map[string][]qcreport.File)
	for _, root := range roots {
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			d.match(root, rel, entry, found)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", root, err)
		}
	}
	return found, nil
}

func (d *Finder) match(root, rel string, entry fs.DirEntry, found map[string][]qcreport.File) {
	var head []byte
	headLoaded := false

	for _, spec := range d.specs {
		if !matchAny(spec.Globs, rel) {
			continue
		}
		if info, err := entry.Info(); err != nil || info.Size() > d.sizeCap {
			return
		}
		if len(spec.Contents) > 0 {
			if !headLoaded {
				head = readHead(filepath.Join(root, rel))
				headLoaded = true
			}
			if head == nil || !containsAny(head, spec.Contents) {
				continue
			}
		}
		name := filepath.Base(rel)
		found[spec.Category] = append(found[spec.Category], qcreport.File{
			Root:       filepath.Dir(filepath.Join(root, rel)),
			Name:       name,
			SampleName: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
}

func matchAny(globs []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
		// Also try the basename so simple patterns like "*.log" match
		// at any depth.
		if ok, err := doublestar.Match(g, filepath.ToSlash(filepath.Base(rel))); err == nil && ok {
			return true
		}
	}
	return false
}

// readHead returns the first bytes of the file, or nil if it is
// unreadable or looks binary.
func readHead(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	head, err := io.ReadAll(io.LimitReader(f, sniffLen))
	if err != nil || bytes.IndexByte(head, 0) >= 0 {
		return nil
	}
	return head
}

func containsAny(head []byte, needles []string) bool {
	for _, s := range needles {
		if bytes.Contains(head, []byte(s)) {
			return true
		}
	}
	return false
}
