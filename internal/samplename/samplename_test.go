package samplename

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

var noFile qcreport.File

func TestClean_StripsStackedExtensions(t *testing.T) {
	c := New()
	tests := []struct {
		in   string
		want string
	}{
		{"sample1.fastq.gz", "sample1"},
		{"sample1.fq", "sample1"},
		{"path/to/sample2.trimmed.fastq.gz", "sample2"},
		{"sample3_trimmed.fq.gz", "sample3"},
		{"sample4", "sample4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Clean(noFile, tt.in), "input %s", tt.in)
	}
}

func TestClean_Idempotent(t *testing.T) {
	c := New()
	once := c.Clean(noFile, "sample_R1.fastq.gz")
	assert.Equal(t, once, c.Clean(noFile, once))
}

func TestClean_MergesReadPairs(t *testing.T) {
	c := New()
	assert.Equal(t, "sample", c.Clean(noFile, "sample_R1.fastq.gz", "sample_R2.fastq.gz"))
}

func TestClean_KeepsDistinctNames(t *testing.T) {
	c := New()
	assert.Equal(t, "a|b", c.Clean(noFile, "a.fastq", "b.fastq"))
}

func TestClean_ReadPairTrimmingDisabled(t *testing.T) {
	c := New(WithReadPairTrimming(false))
	assert.Equal(t, "sample_R1", c.Clean(noFile, "sample_R1.fastq.gz"))
}

func TestClean_ExtraExtensions(t *testing.T) {
	c := New(WithExtraExts(".custom"))
	assert.Equal(t, "sample", c.Clean(noFile, "sample.custom"))
}

func TestIsIgnored(t *testing.T) {
	c := New(WithIgnorePatterns("undetermined*", "control"))
	assert.True(t, c.IsIgnored("undetermined_S0"))
	assert.True(t, c.IsIgnored("control"))
	assert.False(t, c.IsIgnored("sample1"))
}
