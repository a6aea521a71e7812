package dump

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_TSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	records := map[string]map[string]any{
		"sampleB": {"r_processed": int64(2000), "percent_trimmed": 2.5},
		"sampleA": {"r_processed": int64(1000), "cutadapt_version": "4.1"},
	}
	require.NoError(t, w.Write("seqqc_cutadapt", records))

	raw, err := os.ReadFile(filepath.Join(dir, "seqqc_cutadapt.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Sample\tcutadapt_version\tpercent_trimmed\tr_processed", lines[0])
	// Rows sort by sample; a metric absent from a record is an empty
	// cell, not a zero.
	assert.Equal(t, "sampleA\t4.1\t\t1000", lines[1])
	assert.Equal(t, "sampleB\t\t2.5\t2000", lines[2])

	var decoded map[string]map[string]any
	rawJSON, err := os.ReadFile(filepath.Join(dir, "seqqc_cutadapt.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(rawJSON, &decoded))
	assert.Equal(t, "4.1", decoded["sampleA"]["cutadapt_version"])
}

func TestWrite_OrdinalKeysSortNumerically(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	records := map[string]map[string]any{
		"0": {"RESULT": "EXPECTED_MATCH"},
		"2": {"RESULT": "EXPECTED_MATCH"},
		"10": {"RESULT": "UNEXPECTED_MISMATCH"},
	}
	require.NoError(t, w.Write("seqqc_crosscheck", records))

	raw, err := os.ReadFile(filepath.Join(dir, "seqqc_crosscheck.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "0\t"))
	assert.True(t, strings.HasPrefix(lines[2], "2\t"))
	assert.True(t, strings.HasPrefix(lines[3], "10\t"))
}

func TestSortedKeys_MixedKeysStayTransitive(t *testing.T) {
	records := map[string]map[string]any{
		"9": {}, "10": {}, "1a": {}, "sample": {},
	}
	// Numeric keys precede non-numeric ones, each group internally
	// ordered.
	assert.Equal(t, []string{"9", "10", "1a", "sample"}, sortedKeys(records))
}

func TestNewWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewWriter(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
