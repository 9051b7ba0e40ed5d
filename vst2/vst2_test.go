package vst2_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipelined/audiograph/vst2"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "bundle")
	assert.Nil(t, os.Mkdir(nested, 0755))
	touch := func(path string) {
		assert.Nil(t, os.WriteFile(path, nil, 0644))
	}
	touch(filepath.Join(dir, "chorus"+vst2.Ext))
	touch(filepath.Join(dir, "readme.txt"))
	touch(filepath.Join(nested, "reverb"+vst2.Ext))

	found := vst2.Scan(dir, filepath.Join(dir, "missing"))
	assert.Equal(t, []string{
		filepath.Join(nested, "reverb"+vst2.Ext),
		filepath.Join(dir, "chorus"+vst2.Ext),
	}, found)
}

func TestScanPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VST_PATH", dir)
	assert.Contains(t, vst2.ScanPaths(), dir)
}
