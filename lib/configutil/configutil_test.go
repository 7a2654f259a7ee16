package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Pause   int    `json:"pause"`
	Cache   struct {
		Backend string `json:"backend"`
		Path    string `json:"path"`
	} `json:"cache"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "railcodes.json5")

	writeFile(t, name, `{
		// comments are allowed
		base_url: "http://www.railwaycodes.org.uk",
		pause: 2,
		cache: { backend: "file", path: "data" },
	}`)
	writeFile(t, filepath.Join(dir, "railcodes.local.json5"), `{
		cache: { backend: "sqlite" },
	}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "http://www.railwaycodes.org.uk", cfg.BaseUrl)
	require.Equal(t, 2, cfg.Pause)
	require.Equal(t, "sqlite", cfg.Cache.Backend)
	require.Equal(t, "data", cfg.Cache.Path)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nothing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalName(t *testing.T) {
	require.Equal(t, filepath.Join("a", "b.local.json5"), LocalName(filepath.Join("a", "b.json5")))
	require.Equal(t, filepath.Join("a", "b.local"), LocalName(filepath.Join("a", "b")))
}

func TestEnvString(t *testing.T) {
	t.Setenv("RAILCODES_TEST_VALUE", "override")
	value := "default"
	EnvString(&value, "RAILCODES_TEST_VALUE")
	require.Equal(t, "override", value)

	EnvString(&value, "RAILCODES_TEST_UNSET")
	require.Equal(t, "override", value)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "RAILCODES_TEST_DOTENV=from-file\n")

	err := LoadEnv(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "from-file", os.Getenv("RAILCODES_TEST_DOTENV"))
	os.Unsetenv("RAILCODES_TEST_DOTENV")
}
