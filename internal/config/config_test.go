package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file is not an error")

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /tmp/corrections-test.db
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/corrections-test.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
`)
	t.Setenv("FORMSENSE_LOG_LEVEL", "error")
	t.Setenv("FORMSENSE_STORE_PATH", "/tmp/env-store.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/tmp/env-store.db", cfg.Store.Path)
	assert.Equal(t, "console", cfg.Log.Format, "unset fields keep their defaults")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "store: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"level", map[string]string{"FORMSENSE_LOG_LEVEL": "loud"}},
		{"format", map[string]string{"FORMSENSE_LOG_FORMAT": "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	good := &Config{
		Store: StoreConfig{Path: "corrections.db"},
		Log:   LogConfig{Level: "warn", Format: "console"},
	}
	require.NoError(t, good.Validate())

	empty := &Config{Log: LogConfig{Level: "info", Format: "json"}}
	require.Error(t, empty.Validate())
}
