package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:4000", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.NotEmpty(t, c.TokenFile)
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("RENTSCOPE_SERVER", "")
	t.Setenv("RENTSCOPE_TOKEN_FILE", "")
	t.Setenv("RENTSCOPE_TIMEOUT", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:4000", cfg.ServerURL)
}

func TestLoadConfig_EnvOverridesJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":      "http://json:1",
		"request_timeout": "3s",
		"token_file":      "/tmp/json-token",
	})
	t.Setenv("RENTSCOPE_SERVER", "http://env:2")
	t.Setenv("RENTSCOPE_TOKEN_FILE", "")
	t.Setenv("RENTSCOPE_TIMEOUT", "7s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.ServerURL)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/json-token", cfg.TokenFile)
}

func TestParseEnv_BadTimeoutIgnored(t *testing.T) {
	t.Setenv("RENTSCOPE_TIMEOUT", "soon")

	cfg := &Config{RequestTimeout: time.Second}
	parseEnv(cfg)
	assert.Equal(t, time.Second, cfg.RequestTimeout)
}
