// Package samplename canonicalises sample names derived from log files
// and filenames, and answers ignore-list checks against configured
// glob patterns.
package samplename

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// defaultExts are stripped from the end of raw names, repeatedly, in
// order. Tool-specific suffixes first so "sample.trimmed.fastq.gz"
// collapses all the way down to "sample".
var defaultExts = []string{
	".gz",
	".fastq",
	".fq",
	".bam",
	".sam",
	".dat",
	".txt",
	".tsv",
	"_trimmed",
	".trimmed",
	"_val_1",
	"_val_2",
}

// readMarkers are trailing paired-end read markers trimmed after
// extension stripping, so both mates of a pair share one sample name.
var readMarkers = []string{"_R1", "_R2", "_1", "_2", ".R1", ".R2"}

// Cleaner implements qcreport.NameCleaner.
type Cleaner struct {
	exts           []string
	ignorePatterns []string
	trimReadPairs  bool
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithExtraExts appends extensions to the default strip list.
func WithExtraExts(exts ...string) Option {
	return func(c *Cleaner) { c.exts = append(c.exts, exts...) }
}

// WithIgnorePatterns sets the sample ignore-list glob patterns.
func WithIgnorePatterns(patterns ...string) Option {
	return func(c *Cleaner) { c.ignorePatterns = append(c.ignorePatterns, patterns...) }
}

// WithReadPairTrimming controls trimming of trailing _1/_2/_R1/_R2
// read markers. On by default.
func WithReadPairTrimming(on bool) Option {
	return func(c *Cleaner) { c.trimReadPairs = on }
}

// New creates a Cleaner with the default extension list.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{
		exts:          append([]string(nil), defaultExts...),
		trimReadPairs: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean canonicalises one or more raw names into a single sample name.
// Multiple names (e.g. both mates of a pair) are cleaned independently,
// deduplicated and joined with "|". Idempotent: cleaning a cleaned name
// returns it unchanged.
func (c *Cleaner) Clean(_ qcreport.File, names ...string) string {
	cleaned := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		s := c.cleanOne(name)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		cleaned = append(cleaned, s)
	}
	return strings.Join(cleaned, "|")
}

func (c *Cleaner) cleanOne(name string) string {
	s := filepath.Base(strings.TrimSpace(name))
	for stripped := true; stripped; {
		stripped = false
		for _, ext := range c.exts {
			if t := strings.TrimSuffix(s, ext); t != s && t != "" {
				s, stripped = t, true
			}
		}
	}
	if c.trimReadPairs {
		for _, m := range readMarkers {
			if t := strings.TrimSuffix(s, m); t != s && t != "" {
				s = t
				break
			}
		}
	}
	return s
}

// IsIgnored reports whether the sample name matches any configured
// ignore pattern.
func (c *Cleaner) IsIgnored(name string) bool {
	for _, p := range c.ignorePatterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
