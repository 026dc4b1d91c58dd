package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "api_url: https://crm.example.com\ntimeout: 5s\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://crm.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadConfig_EmptyURLKeepsDefault(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "timeout: 1m\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "api_url: [unterminated\n"},
		{name: "bad duration", content: "timeout: soon\n"},
		{name: "negative timeout", content: "timeout: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse config")
		})
	}
}

func TestOverride(t *testing.T) {
	cfg := &Config{APIURL: "http://file"}

	cfg.Override("", "")
	assert.Equal(t, "http://file", cfg.APIURL)

	cfg.Override("http://env", "")
	assert.Equal(t, "http://env", cfg.APIURL)

	cfg.Override("http://env", "http://flag")
	assert.Equal(t, "http://flag", cfg.APIURL)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/crmctl/config.yaml", path)
}
