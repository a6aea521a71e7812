// Package crosscheck parses pairwise fingerprint-comparison reports
// (Picard CrosscheckFingerprints) into ordered comparison records and
// a per-sample pass/fail summary.
package crosscheck

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// Row is one pairwise comparison, keyed by the raw header column names
// plus the two settings injected from the file preamble.
type Row map[string]any

// requiredColumn discriminates a fingerprint-comparison table from
// unrelated tabular logs sharing the directory.
const requiredColumn = "LEFT_GROUP_VALUE"

var (
	reTumorAwareness = regexp.MustCompile(`CALCULATE_TUMOR_AWARE_RESULTS(\s|=)(\w+)`)
	reLODThreshold   = regexp.MustCompile(`LOD_THRESHOLD(\s|=)(\S+)`)
)

// parseFile parses one candidate report. Files whose header lacks the
// discriminating column yield (nil, nil): they are some other record
// type, not an error. A recognised file always yields a non-nil slice,
// even when every row was ignore-filtered. Rows with an ignored
// endpoint sample are dropped; all four sample/group names are
// canonicalised.
func parseFile(f qcreport.File, clean qcreport.NameCleaner) ([]Row, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Path(), err)
	}
	defer rc.Close()

	var lines []string
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path(), err)
	}

	preamble, rest := splitPreamble(lines)
	if len(rest) == 0 {
		return nil, nil
	}
	header := strings.Split(rest[0], "\t")
	if !contains(header, requiredColumn) {
		return nil, nil
	}

	tumorAwareness, lodThreshold := sniffInvocation(preamble)

	reader := csv.NewReader(strings.NewReader(strings.Join(rest[1:], "\n")))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Path(), err)
	}

	rows := []Row{}
	for _, rec := range records {
		row := make(Row, len(header)+2)
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		if clean.IsIgnored(str(row, "LEFT_SAMPLE")) || clean.IsIgnored(str(row, "RIGHT_SAMPLE")) {
			continue
		}
		for _, col := range []string{"LEFT_SAMPLE", "LEFT_GROUP_VALUE", "RIGHT_SAMPLE", "RIGHT_GROUP_VALUE"} {
			if raw, ok := row[col].(string); ok {
				row[col] = clean.Clean(f, raw)
			}
		}
		row["LOD_THRESHOLD"] = lodThreshold
		row["TUMOR_AWARENESS"] = tumorAwareness
		rows = append(rows, row)
	}
	return rows, nil
}

// splitPreamble peels off the leading comment block: lines that are
// blank or start with "#". The remainder begins at the header line.
func splitPreamble(lines []string) (preamble, rest []string) {
	for i, line := range lines {
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		return lines[:i], lines[i:]
	}
	return lines, nil
}

// sniffInvocation extracts the tumor-awareness flag and LOD threshold
// from the tool invocation recorded in the preamble. Either may be
// absent; the first preamble line carrying a setting wins.
func sniffInvocation(preamble []string) (tumorAwareness any, lodThreshold any) {
	for _, line := range preamble {
		if tumorAwareness == nil {
			if m := reTumorAwareness.FindStringSubmatch(line); m != nil {
				if b, err := parseBool(m[2]); err == nil {
					tumorAwareness = b
				}
			}
		}
		if lodThreshold == nil {
			if m := reLODThreshold.FindStringSubmatch(line); m != nil {
				if v, err := strconv.ParseFloat(m[2], 64); err == nil {
					lodThreshold = v
				}
			}
		}
	}
	return tumorAwareness, lodThreshold
}

// parseBool accepts the spellings Picard and its wrappers emit.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func str(r Row, key string) string {
	s, _ := r[key].(string)
	return s
}
