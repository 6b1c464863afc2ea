package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.txt")
	content := "genes/HTT.fna\n\n  genes/FMR1.fna  \n\t\ngenes/ACTB.fna"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	files, err := ReadFileList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"genes/HTT.fna", "genes/FMR1.fna", "genes/ACTB.fna"}, files)
}

func TestReadFileListMissing(t *testing.T) {
	_, err := ReadFileList(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestWriteFileList(t *testing.T) {
	dir := t.TempDir()
	name, err := WriteFileList(dir, []string{"a.fna", "b.fna"})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(name))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "a.fna\nb.fna\n", string(data))

	back, err := ReadFileList(name)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.fna", "b.fna"}, back)
}

func TestHeadTailGroups(t *testing.T) {
	files := []string{"c1", "c2", "c3", "x1", "k1", "k2"}

	tests := []struct {
		name               string
		files              []string
		cases, controls    int
		wantCase, wantCtrl []string
	}{
		{"Disjoint", files, 3, 2, []string{"c1", "c2", "c3"}, []string{"k1", "k2"}},
		{"Overlapping", files, 4, 4, []string{"c1", "c2", "c3", "x1"}, []string{"c3", "x1", "k1", "k2"}},
		{"ShortList", files[:2], 10, 10, []string{"c1", "c2"}, []string{"c1", "c2"}},
		{"NoControls", files, 1, 0, []string{"c1"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotCase, gotCtrl := HeadTailGroups(tc.files, tc.cases, tc.controls)
			assert.Equal(t, tc.wantCase, gotCase)
			assert.Equal(t, tc.wantCtrl, gotCtrl)
		})
	}
}

func TestContiguousGroups(t *testing.T) {
	files := []string{"c1", "c2", "k1", "k2", "extra"}

	cases, controls, err := ContiguousGroups(files, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, cases)
	assert.Equal(t, []string{"k1", "k2"}, controls)

	_, _, err = ContiguousGroups(files, 3, 3)
	assert.EqualError(t, err, "need at least 6 genes, got 5")
}
