// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtframework/xfs2json"
)

func writeSampleXFS(t *testing.T, path string) {
	t.Helper()
	defs := []xfs.Definition{{DtiHash: 1, Props: []xfs.PropertyDef{{Name: "hp", Type: xfs.TypeS32}}}}
	root := &xfs.Object{DefID: 0, ID: 0, Def: &defs[0], Fields: []xfs.Field{
		{Name: "hp", Type: xfs.TypeS32, Value: xfs.Data{Type: xfs.TypeS32, S32: 7}},
	}}
	doc := &xfs.Document{Header: xfs.Header{MajorVersion: 16}, Definitions: defs, Root: root}
	require.NoError(t, doc.Save(path))
}

func TestIsXFSFileDetectsMagic(t *testing.T) {
	dir := t.TempDir()
	xfsPath := filepath.Join(dir, "a.xfs")
	writeSampleXFS(t, xfsPath)
	assert.True(t, IsXFSFile(xfsPath))

	jsonPath := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"root":null,"$defs":[]}`), 0o644))
	assert.False(t, IsXFSFile(jsonPath))

	assert.False(t, IsXFSFile(filepath.Join(dir, "missing")))
}

func TestDerivedOutputName(t *testing.T) {
	assert.Equal(t, "foo.json.xfs", derivedOutputName("foo.json"))
	assert.Equal(t, "foo.xfs.json", derivedOutputName("foo.xfs"))
	assert.Equal(t, "foo.json", derivedOutputName("foo"))
}

func TestRunValidatesInputBeforeOutput(t *testing.T) {
	dir := t.TempDir()
	missingInput := filepath.Join(dir, "nope.xfs")
	missingOutput := filepath.Join(dir, "also-nope")

	err := Run(missingInput, Options{Output: missingOutput})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOutputMissing)
}

func TestRunRejectsMissingOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.xfs")
	writeSampleXFS(t, input)

	err := Run(input, Options{Output: filepath.Join(dir, "does-not-exist")})
	assert.ErrorIs(t, err, ErrOutputMissing)
}

func TestRunConvertsSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.xfs")
	writeSampleXFS(t, input)

	require.NoError(t, Run(input, Options{}))
	out := filepath.Join(dir, "a.xfs.json")
	_, err := os.Stat(out)
	require.NoError(t, err)
}

func TestRunBulkAggregatesFailures(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	writeSampleXFS(t, filepath.Join(dir, "good.xfs"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xfs"), []byte("not xfs at all"), 0o644))

	err := Run(dir, Options{Output: outDir})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "good.xfs.json"))
	assert.NoError(t, statErr)
}
