package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "contacts.db", cfg.DatabasePath)
	assert.Equal(t, "photos", cfg.PhotoDir)
	assert.Equal(t, "", cfg.DeviceSourcePath)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"contacts", "-d", "other.db", "-s", "book.vcf"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "other.db", cfg.DatabasePath)
	assert.Equal(t, "photos", cfg.PhotoDir, "untouched flag keeps default")
	assert.Equal(t, "book.vcf", cfg.DeviceSourcePath)
}

func TestParseJson_OverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path":"json.db"}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"contacts", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "json.db", cfg.DatabasePath)
	assert.Equal(t, "photos", cfg.PhotoDir)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path":"json.db","photo_dir":"jsonphotos"}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"contacts", "-c", path, "-d", "flag.db"}

	cfg := LoadConfig()

	assert.Equal(t, "flag.db", cfg.DatabasePath)
	assert.Equal(t, "jsonphotos", cfg.PhotoDir)
}
