package cutadapt

import (
	"bufio"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// Record holds one sample's parsed metrics: int64 counts, float64
// derived values and the cutadapt version string. A metric whose
// pattern never matched is absent, never zero.
type Record map[string]any

const (
	clParamsPrefix   = "Command line parameters: "
	overviewMarker   = "Overview of removed sequences"
	sectionDelimiter = "==="
	endDefault       = "default"
)

var (
	reVersion       = regexp.MustCompile(`This is cutadapt ([\d\.]+)`)
	reVersionLegacy = regexp.MustCompile(`cutadapt version ([\d\.]+)`)
	reEndType       = regexp.MustCompile(`Type: regular (\d)'`)
	reEndQualifier  = regexp.MustCompile(`(\d)' end`)
	reHistRow       = regexp.MustCompile(`^(\d+)\s+(\d+)\s+([\d\.]+)`)
)

// inputExts mark command-line arguments that look like input files.
var inputExts = []string{".fastq", ".fq", ".gz", ".dat"}

// outputFlags precede output paths on the command line; a filename
// following one of these is not an input.
var outputFlags = map[string]bool{
	"-o": true, "-p": true, "--output": true, "--paired-output": true,
}

// parser accumulates records and trimmed-length histograms across all
// files of one run.
type parser struct {
	log   *slog.Logger
	clean qcreport.NameCleaner

	data map[string]Record

	// Trimmed-length histograms, keyed end-orientation → scoped sample
	// label → trimmed length. The three maps always share key sets.
	lengthCounts   map[string]map[string]map[int]int64
	lengthExpected map[string]map[string]map[int]float64
	lengthObsExp   map[string]map[string]map[int]float64
}

// cursor is the per-file scan state, reset on every new-log marker.
type cursor struct {
	sample  string
	gen     generation
	end     string
	section string
	version string
}

func newParser(log *slog.Logger, clean qcreport.NameCleaner) *parser {
	p := &parser{
		log:            log,
		clean:          clean,
		data:           make(map[string]Record),
		lengthCounts:   make(map[string]map[string]map[int]int64),
		lengthExpected: make(map[string]map[string]map[int]float64),
		lengthObsExp:   make(map[string]map[string]map[int]float64),
	}
	p.ensureEnd(endDefault)
	return p
}

// ensureEnd initialises histogram storage for an end-orientation.
// Idempotent.
func (p *parser) ensureEnd(end string) {
	if _, ok := p.lengthCounts[end]; ok {
		return
	}
	p.lengthCounts[end] = make(map[string]map[int]int64)
	p.lengthExpected[end] = make(map[string]map[int]float64)
	p.lengthObsExp[end] = make(map[string]map[int]float64)
}

// parseFile scans one log file in full. A file may contain several
// concatenated cutadapt logs (Trim Galore! runs do this), each opened
// by its own version banner.
func (p *parser) parseFile(f qcreport.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path(), err)
	}
	defer rc.Close()

	var lines []string
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", f.Path(), err)
	}

	p.scan(lines, f)
	return nil
}

func (p *parser) scan(lines []string, f qcreport.File) {
	cur := cursor{end: endDefault, gen: genCurrent}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// New log starting: reset the cursor, sniff the version.
		if strings.Contains(line, "This is cutadapt") || strings.Contains(line, "cutadapt version") {
			cur.sample = ""
			cur.end = endDefault
			cur.section = ""
			cur.version = ""
			if m := reVersion.FindStringSubmatch(line); m != nil {
				cur.version = m[1]
				cur.gen = bucketVersion(m[1])
			} else if m := reVersionLegacy.FindStringSubmatch(line); m != nil {
				// The legacy banner spelling only ever appeared before
				// the schema change.
				cur.version = m[1]
				cur.gen = genEarly
			}
		}

		if strings.HasPrefix(line, clParamsPrefix) {
			p.openRecord(&cur, line[len(clParamsPrefix):], f)
		}

		if cur.sample == "" {
			continue
		}

		for _, mp := range patternTable(cur.gen) {
			if m := mp.re.FindStringSubmatch(line); m != nil {
				if n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64); err == nil {
					p.data[cur.sample][mp.key] = n
				}
			}
		}

		if strings.Contains(line, sectionDelimiter) {
			cur.section = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "="))
		}

		if m := reEndType.FindStringSubmatch(line); m != nil {
			cur.end = m[1]
		}

		if strings.Contains(line, overviewMarker) {
			if m := reEndQualifier.FindStringSubmatch(line); m != nil {
				cur.end = m[1]
			}
			p.ensureEnd(cur.end)
		}

		// Histogram table header, e.g. "length  count  expect  max.err ...".
		if strings.Contains(line, "length") && strings.Contains(line, "count") && strings.Contains(line, "expect") {
			i = p.scanHistogram(lines, i, &cur)
		}
	}
}

// openRecord derives the sample name from a shell-tokenized parameter
// list and opens a fresh record for it. The sample name comes from the
// input filenames; a log read from stdin has none and falls back to
// the name derived from the log file itself.
func (p *parser) openRecord(cur *cursor, params string, f qcreport.File) {
	args, err := shlex.Split(params)
	if err != nil {
		args = strings.Fields(params)
	}

	var inputs []string
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") || !hasInputExt(arg) {
			continue
		}
		if i > 0 && outputFlags[args[i-1]] {
			continue
		}
		inputs = append(inputs, arg)
	}

	name := f.SampleName
	if len(inputs) > 0 {
		name = p.clean.Clean(f, inputs...)
	}

	if _, ok := p.data[name]; ok {
		p.log.Debug("duplicate sample name found, overwriting", "sample", name, "file", f.Path())
	}
	p.data[name] = make(Record)
	if cur.version != "" {
		p.data[name]["cutadapt_version"] = cur.version
	}
	cur.sample = name
}

func hasInputExt(arg string) bool {
	for _, ext := range inputExts {
		if strings.HasSuffix(arg, ext) {
			return true
		}
	}
	return false
}

// scanHistogram consumes the rows of one trimmed-length table starting
// after the header at lines[i]. It returns the index of the last row
// consumed, so the outer scan re-examines the first non-matching line
// rather than dropping it.
func (p *parser) scanHistogram(lines []string, i int, cur *cursor) int {
	label := cur.sample
	if cur.section != "" {
		label = cur.sample + " - " + cur.section
	}
	p.ensureEnd(cur.end)
	counts := make(map[int]int64)
	expected := make(map[int]float64)
	obsExp := make(map[int]float64)
	p.lengthCounts[cur.end][label] = counts
	p.lengthExpected[cur.end][label] = expected
	p.lengthObsExp[cur.end][label] = obsExp

	for i+1 < len(lines) {
		m := reHistRow.FindStringSubmatch(lines[i+1])
		if m == nil {
			break
		}
		i++
		length, err1 := strconv.Atoi(m[1])
		count, err2 := strconv.ParseInt(m[2], 10, 64)
		exp, err3 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		counts[length] = count
		expected[length] = exp
		if exp > 0 {
			obsExp[length] = float64(count) / exp
		} else {
			// A zero expectation makes the true ratio infinite, which
			// is impossible to plot. The raw count stands in for it.
			obsExp[length] = float64(count)
		}
	}
	return i
}
