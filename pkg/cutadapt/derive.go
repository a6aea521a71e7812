package cutadapt

import (
	"errors"
	"fmt"

	"github.com/blang/semver/v4"
)

// ErrNoVersion is returned when a record reaches the derived-metrics
// pass without a recognizable cutadapt version. Safe bucketing by
// report generation is impossible, so the whole parse is rejected.
var ErrNoVersion = errors.New("no cutadapt version on record")

// deriveMetrics computes the summary fields over completed records.
// Pure function over the record set: re-running it on the same input
// yields the same result.
func deriveMetrics(data map[string]Record) error {
	for name, d := range data {
		derivePercentTrimmed(d)

		version, ok := d["cutadapt_version"].(string)
		if !ok {
			return fmt.Errorf("sample %q: %w", name, ErrNoVersion)
		}
		v, err := semver.ParseTolerant(version)
		if err != nil {
			return fmt.Errorf("sample %q: unparseable cutadapt version %q: %w", name, version, ErrNoVersion)
		}
		if v.GT(earlyCeiling) {
			deriveUnexplained(d, "r_processed", "r")
			deriveUnexplained(d, "pairs_processed", "pairs")
		}
	}
	return nil
}

// derivePercentTrimmed stores the percentage of basepairs removed.
// Current-generation reports carry total written basepairs; early ones
// only the trimmed totals, which quality trimming is added to. When
// neither pair of inputs is present the field is omitted.
func derivePercentTrimmed(d Record) {
	processed, ok := intVal(d, "bp_processed")
	if !ok || processed == 0 {
		return
	}
	if written, ok := intVal(d, "bp_written"); ok {
		d["percent_trimmed"] = float64(processed-written) / float64(processed) * 100
		return
	}
	if trimmed, ok := intVal(d, "bp_trimmed"); ok {
		d["percent_trimmed"] = float64(trimmed+intOrZero(d, "quality_trimmed")) / float64(processed) * 100
	}
}

// deriveUnexplained stores the count of filtered reads (or pairs) the
// report's explicit categories do not account for. Missing categories
// contribute zero; this is the only place absent fields are treated as
// zero. Only strictly positive remainders are kept, so rounding noise
// does not surface as a phantom category.
func deriveUnexplained(d Record, processedKey, prefix string) {
	processed, ok := intVal(d, processedKey)
	if !ok {
		return
	}
	unexplained := processed -
		intOrZero(d, prefix+"_too_short") -
		intOrZero(d, prefix+"_too_long") -
		intOrZero(d, prefix+"_too_many_N") -
		intOrZero(d, prefix+"_written")
	if unexplained > 0 {
		d[prefix+"_filtered_unexplained"] = unexplained
	}
}

func intVal(d Record, key string) (int64, bool) {
	n, ok := d[key].(int64)
	return n, ok
}

func intOrZero(d Record, key string) int64 {
	n, _ := d[key].(int64)
	return n
}
