package cutadapt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqqc/seqqc/internal/samplename"
	"github.com/seqqc/seqqc/pkg/qcreport"
)

func writeLog(t *testing.T, dir, name, content string) qcreport.File {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	base := name[:len(name)-len(filepath.Ext(name))]
	return qcreport.File{Root: dir, Name: name, SampleName: base}
}

func TestModuleRun_FullReport(t *testing.T) {
	dir := t.TempDir()
	f := writeLog(t, dir, "sample1.log", currentLog)

	mod := New(testLogger(), samplename.New())
	report, err := mod.Run([]qcreport.File{f})
	require.NoError(t, err)

	require.NotNil(t, report.GeneralStats)
	row, ok := report.GeneralStats.Rows["sample1"]
	require.True(t, ok)
	assert.InDelta(t, 5.0, row["percent_trimmed"], 1e-9)

	require.Len(t, report.Sections, 2)
	assert.Equal(t, "Filtered Reads", report.Sections[0].Name)
	bar, ok := report.Sections[0].Plot.(*qcreport.BarPlot)
	require.True(t, ok)
	assert.Equal(t, int64(99000), bar.Samples["sample1"]["r_written"])

	// Only the 3' end holds histogram data; the untouched default
	// orientation is elided entirely.
	line, ok := report.Sections[1].Plot.(*qcreport.LineGraph)
	require.True(t, ok)
	assert.Equal(t, "Trimmed Sequence Lengths (3')", report.Sections[1].Name)
	assert.Equal(t, "Cutadapt: Lengths of Trimmed Sequences (3' end)", line.Title)
	require.Len(t, line.Datasets, 2)
	assert.Equal(t, "Counts", line.Datasets[0].Name)
	assert.Equal(t, "Obs/Exp", line.Datasets[1].Name)

	dumped := report.DataFiles["seqqc_cutadapt"]
	require.Contains(t, dumped, "sample1")
	assert.Equal(t, int64(10000000), dumped["sample1"]["bp_processed"])
}

func TestModuleRun_NoSamples(t *testing.T) {
	mod := New(testLogger(), samplename.New())
	_, err := mod.Run(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, qcreport.ErrNoSamples)
}

func TestModuleRun_IgnoredSamplesDropped(t *testing.T) {
	dir := t.TempDir()
	f := writeLog(t, dir, "sample1.log", currentLog)

	mod := New(testLogger(), samplename.New(samplename.WithIgnorePatterns("sample*")))
	_, err := mod.Run([]qcreport.File{f})
	require.Error(t, err)
	assert.ErrorIs(t, err, qcreport.ErrNoSamples)
}

func TestPresentEnds_KeySetMismatchFatal(t *testing.T) {
	p := testParser(t)
	scanLines(p, currentLog)

	// The three histogram maps must always agree on their end keys; a
	// disagreement is a parser bug and must surface, not be patched over.
	delete(p.lengthObsExp, "3")
	_, err := p.presentEnds()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHistogramKeys)
}

func TestModuleRun_MissingVersionFatal(t *testing.T) {
	dir := t.TempDir()
	f := writeLog(t, dir, "noversion.log",
		"Command line parameters: x.fastq.gz\nTotal reads processed:  1,000\n")

	mod := New(testLogger(), samplename.New())
	_, err := mod.Run([]qcreport.File{f})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVersion)
}
