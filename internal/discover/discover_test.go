package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFind_GlobAndContentMatch(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "sample1.log", "This is cutadapt 4.1\n")
	write(t, dir, "unrelated.log", "some other tool output\n")
	write(t, dir, "nested/deep/sample2.log", "cutadapt version 1.2\n")

	finder := NewFinder([]Spec{{
		Category: "trim",
		Globs:    []string{"*.log"},
		Contents: []string{"This is cutadapt", "cutadapt version"},
	}})

	found, err := finder.Find([]string{dir})
	require.NoError(t, err)
	require.Len(t, found["trim"], 2)

	names := []string{found["trim"][0].Name, found["trim"][1].Name}
	assert.Contains(t, names, "sample1.log")
	assert.Contains(t, names, "sample2.log")
}

func TestFind_DefaultSampleName(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "mysample.log", "marker\n")

	finder := NewFinder([]Spec{{Category: "c", Globs: []string{"*.log"}, Contents: []string{"marker"}}})
	found, err := finder.Find([]string{dir})
	require.NoError(t, err)
	require.Len(t, found["c"], 1)
	assert.Equal(t, "mysample", found["c"][0].SampleName)
}

func TestFind_SkipsBinaryFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "binary.log", "marker\x00junk")

	finder := NewFinder([]Spec{{Category: "c", Globs: []string{"*.log"}, Contents: []string{"marker"}}})
	found, err := finder.Find([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, found["c"])
}

func TestFind_FileCanLandInMultipleCategories(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "both.txt", "alpha beta\n")

	finder := NewFinder([]Spec{
		{Category: "a", Globs: []string{"*.txt"}, Contents: []string{"alpha"}},
		{Category: "b", Globs: []string{"*.txt"}, Contents: []string{"beta"}},
	})
	found, err := finder.Find([]string{dir})
	require.NoError(t, err)
	assert.Len(t, found["a"], 1)
	assert.Len(t, found["b"], 1)
}

func TestFind_MissingRootFails(t *testing.T) {
	finder := NewFinder([]Spec{{Category: "c", Globs: []string{"*"}}})
	_, err := finder.Find([]string{"/does/not/exist"})
	assert.Error(t, err)
}
