package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trimmingLog = `This is cutadapt 4.1 with Python 3.10
Command line parameters: -a AGATCGGAAGAGC -o out.fastq.gz sample1.fastq.gz

=== Summary ===

Total reads processed:                 100,000
Reads with adapters:                    40,000 (40.0%)
Reads written (passing filters):        99,000 (99.0%)

Total basepairs processed:    10,000,000 bp
Quality-trimmed:                  50,000 bp (0.5%)
Total written (filtered):      9,500,000 bp (95.0%)
`

const fingerprintReport = `## htsjdk.samtools.metrics.StringHeader
# CrosscheckFingerprints INPUT=[a.bam, b.bam] LOD_THRESHOLD=-5.0 CALCULATE_TUMOR_AWARE_RESULTS=false

LEFT_GROUP_VALUE	LEFT_SAMPLE	RIGHT_GROUP_VALUE	RIGHT_SAMPLE	RESULT	DATA_TYPE	LOD_SCORE
sampleA	sampleA	sampleB	sampleB	EXPECTED_MISMATCH	SAMPLE	-33.5
sampleA	sampleA	sampleA	sampleA	EXPECTED_MATCH	SAMPLE	41.2
`

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRun_EndToEnd(t *testing.T) {
	t.Setenv("SEQQC_CONFIG", "")
	dir := t.TempDir()
	outdir := filepath.Join(dir, "out")
	writeFixture(t, dir, "sample1.log", trimmingLog)
	writeFixture(t, dir, "crosscheck.txt", fingerprintReport)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-format", "plain", "-loglevel", "error", "-outdir", outdir, dir},
		&stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "GENERAL STATS")
	assert.Contains(t, out, "sample1")
	assert.Contains(t, out, "SECTION Filtered Reads [cutadapt]")
	assert.Contains(t, out, "SECTION Crosscheck Fingerprints [crosscheck]")

	for _, name := range []string{
		"seqqc_cutadapt.txt", "seqqc_cutadapt.json",
		"seqqc_crosscheck.txt", "seqqc_crosscheck.json",
	} {
		_, err := os.Stat(filepath.Join(outdir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_JSONFormat(t *testing.T) {
	t.Setenv("SEQQC_CONFIG", "")
	dir := t.TempDir()
	writeFixture(t, dir, "sample1.log", trimmingLog)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-format", "json", "-loglevel", "error",
		"-outdir", filepath.Join(dir, "out"), dir}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), `"version": "1.0"`)
	assert.Contains(t, stdout.String(), `"name": "cutadapt"`)
}

func TestRun_NoDataExitsNonZero(t *testing.T) {
	t.Setenv("SEQQC_CONFIG", "")
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-format", "plain", "-loglevel", "error", dir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no QC data found")
}

func TestRun_BadFlagExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-no-such-flag"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}

func TestRun_VersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "seqqc dev")
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "plain", resolveFormat("auto", &buf))
	assert.Equal(t, "json", resolveFormat("json", &buf))
	assert.Equal(t, "terminal", resolveFormat("terminal", &buf))
}
