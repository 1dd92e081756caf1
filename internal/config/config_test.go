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
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"api_key": "test-key",
		"database_url": "postgres://localhost/careerflow",
		"port": 9090,
		"timeout_seconds": 30,
		"use_browser": true,
		"models": {"standard": "gemini-2.5-flash"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/careerflow", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, "gemini-2.5-flash", cfg.Models["standard"])
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_JobAndJobURLExclusive(t *testing.T) {
	cfg := &Config{Job: "job.txt", JobURL: "https://example.com/job"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: 8080}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingResumeFile(t *testing.T) {
	cfg := &Config{Resume: "/nonexistent/resume.txt"}
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "explicit-key"}
	defaults := Config{
		APIKey:         "default-key",
		DatabaseURL:    "postgres://localhost/careerflow",
		Port:           8080,
		TimeoutSeconds: 60,
		Models:         map[string]string{"lite": "gemini-2.5-flash-lite"},
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "explicit-key", merged.APIKey, "explicit values win")
	assert.Equal(t, "postgres://localhost/careerflow", merged.DatabaseURL)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, 60, merged.TimeoutSeconds)
	assert.Equal(t, "gemini-2.5-flash-lite", merged.Models["lite"])
}
