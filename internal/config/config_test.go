package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_YML(t *testing.T) {
	dir := t.TempDir()
	content := "dataFile: notes/lemmas.json\ndefaultFormat: markdown\nmcpAddr: :9130\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lemma.yml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "notes/lemmas.json", cfg.DataFile)
	assert.Equal(t, "markdown", cfg.DefaultFormat)
	assert.Equal(t, ":9130", cfg.MCPAddr)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lemma.yaml"), []byte(":\tnope"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
