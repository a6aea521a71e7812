// Package cutadapt parses cutadapt trimming reports (including those
// embedded in Trim Galore! logs) into per-sample metrics, trimmed-length
// histograms and derived summary statistics.
package cutadapt

import (
	"regexp"

	"github.com/blang/semver/v4"
)

// generation buckets cutadapt versions into the two known report
// schemas. Reports from 1.7 onward carry a finer-grained read/pair
// filtering breakdown; earlier ones only the coarse totals.
type generation int

const (
	genCurrent generation = iota // 1.7+
	genEarly                     // <= 1.6
)

// earlyCeiling is the last version producing the early report schema.
var earlyCeiling = semver.MustParse("1.6.0")

// metricPattern extracts one integer metric from a report line. The
// single capture group is parsed after stripping thousands separators.
type metricPattern struct {
	key string
	re  *regexp.Regexp
}

// patternTable returns the ordered extraction patterns for a
// generation. Later matches for the same key overwrite earlier ones
// within a sample block.
func patternTable(gen generation) []metricPattern {
	if gen == genEarly {
		return earlyPatterns
	}
	return currentPatterns
}

var currentPatterns = []metricPattern{
	{"bp_processed", regexp.MustCompile(`Total basepairs processed:\s*([\d,]+) bp`)},
	{"bp_written", regexp.MustCompile(`Total written \(filtered\):\s*([\d,]+) bp`)},
	{"quality_trimmed", regexp.MustCompile(`Quality-trimmed:\s*([\d,]+) bp`)},
	{"r_processed", regexp.MustCompile(`Total reads processed:\s*([\d,]+)`)},
	{"pairs_processed", regexp.MustCompile(`Total read pairs processed:\s*([\d,]+)`)},
	{"r_with_adapters", regexp.MustCompile(`Reads with adapters:\s*([\d,]+)`)},
	{"r1_with_adapters", regexp.MustCompile(`Read 1 with adapter:\s*([\d,]+)`)},
	{"r2_with_adapters", regexp.MustCompile(`Read 2 with adapter:\s*([\d,]+)`)},
	{"r_too_short", regexp.MustCompile(`Reads that were too short:\s*([\d,]+)`)},
	{"pairs_too_short", regexp.MustCompile(`Pairs that were too short:\s*([\d,]+)`)},
	{"r_too_long", regexp.MustCompile(`Reads that were too long:\s*([\d,]+)`)},
	{"pairs_too_long", regexp.MustCompile(`Pairs that were too long:\s*([\d,]+)`)},
	{"r_too_many_N", regexp.MustCompile(`Reads with too many N:\s*([\d,]+)`)},
	{"pairs_too_many_N", regexp.MustCompile(`Pairs with too many N:\s*([\d,]+)`)},
	{"r_written", regexp.MustCompile(`Reads written \(passing filters\):\s*([\d,]+)`)},
	{"pairs_written", regexp.MustCompile(`Pairs written \(passing filters\):\s*([\d,]+)`)},
}

var earlyPatterns = []metricPattern{
	{"r_processed", regexp.MustCompile(`Processed reads:\s*([\d,]+)`)},
	{"bp_processed", regexp.MustCompile(`Processed bases:\s*([\d,]+) bp`)},
	{"r_trimmed", regexp.MustCompile(`Trimmed reads:\s*([\d,]+)`)},
	{"quality_trimmed", regexp.MustCompile(`Quality-trimmed:\s*([\d,]+) bp`)},
	{"bp_trimmed", regexp.MustCompile(`Trimmed bases:\s*([\d,]+) bp`)},
	{"too_short", regexp.MustCompile(`Too short reads:\s*([\d,]+)`)},
	{"too_long", regexp.MustCompile(`Too long reads:\s*([\d,]+)`)},
}

// bucketVersion classifies a version string captured from a "This is
// cutadapt X.Y" line. Versions at or below the early ceiling use the
// early schema. Unparseable versions fall back to the current schema,
// matching the tool's modern output being the common case.
func bucketVersion(version string) generation {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return genCurrent
	}
	if v.LE(earlyCeiling) {
		return genEarly
	}
	return genCurrent
}
