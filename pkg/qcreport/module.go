package qcreport

import (
	"io"
	"os"
	"path/filepath"
)

// File is one candidate log file handed to a module by discovery.
type File struct {
	// Root is the search root the file was found under.
	Root string
	// Name is the base filename.
	Name string
	// SampleName is the default sample name derived from the filename,
	// used when a log does not name its own inputs.
	SampleName string
}

// Path returns the full path of the file.
func (f File) Path() string { return filepath.Join(f.Root, f.Name) }

// Open opens the file for reading. The caller closes it.
func (f File) Open() (io.ReadCloser, error) { return os.Open(f.Path()) }

// NameCleaner canonicalises raw sample names and answers ignore-list
// checks. Clean must be idempotent and deterministic.
type NameCleaner interface {
	Clean(f File, names ...string) string
	IsIgnored(name string) bool
}

// Module turns a set of discovered log files into a report
// contribution. A module that finds nothing usable returns an error
// wrapping ErrNoSamples.
type Module interface {
	Name() string
	Run(files []File) (*Report, error)
}
