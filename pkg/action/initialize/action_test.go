package initialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/stylegen/pkg/parser"
)

func testOptions(t *testing.T, dir string) *parser.Options {
	t.Helper()
	opts := parser.NewOptions().Apply(
		parser.WithInDir(dir),
		parser.WithWorkers(4),
		parser.WithManifest("stylegen.lock"),
		parser.WithExclude("*_old.go"),
	)
	require.NoError(t, opts.Normalize())
	return opts
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)

	path, err := Generate(dir, opts, "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stylegen.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got parser.Options
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Empty(t, got.InDir)
	assert.Equal(t, 4, got.Workers)
	assert.Equal(t, "stylegen.lock", got.ManifestPath)
	assert.Equal(t, []string{"*_old.go"}, got.Exclude)
	assert.Equal(t, "_gen", got.OutSuffix)

	_, err = Generate(dir, opts, "yaml", false)
	assert.ErrorIs(t, err, ErrExists)

	_, err = Generate(dir, opts, "yaml", true)
	assert.NoError(t, err)
}

func TestGenerateTOML(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)

	path, err := Generate(dir, opts, "toml", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stylegen.toml"), path)

	var got parser.Options
	_, err = toml.DecodeFile(path, &got)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Workers)
	assert.Equal(t, "stylegen.lock", got.ManifestPath)
	assert.Equal(t, []string{"*_old.go"}, got.Exclude)
}

func TestGenerateFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(dir, testOptions(t, dir), "ini", false)
	assert.ErrorIs(t, err, ErrFormat)
}
