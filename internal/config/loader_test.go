package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLoaderState clears the global viper instance and any DOCWARP_
// environment variables so tests do not leak state into each other.
func resetLoaderState(t *testing.T) {
	t.Helper()
	viper.Reset()
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			// t.Setenv restores the original value on cleanup; viper
			// ignores empty values by default.
			t.Setenv(strings.SplitN(env, "=", 2)[0], "")
		}
	}
	t.Cleanup(viper.Reset)
}

// chdirTemp moves the working directory to a fresh temp dir so no stray
// docwarp.yaml from the repo is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestNewLoader(t *testing.T) {
	resetLoaderState(t)

	loader := NewLoader()
	require.NotNil(t, loader)
	require.NotNil(t, loader.GetViper())
}

func TestLoadDefaults(t *testing.T) {
	resetLoaderState(t)
	chdirTemp(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 800, cfg.Detector.WorkingWidth)
	assert.Equal(t, "adaptive", cfg.Enhance.DefaultMode)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	resetLoaderState(t)
	chdirTemp(t)
	t.Setenv("DOCWARP_SERVER_PORT", "9090")
	t.Setenv("DOCWARP_LOG_LEVEL", "debug")
	t.Setenv("DOCWARP_DETECTOR_FALLBACK_FULL_IMAGE", "true")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Detector.FallbackFullImage)
}

func TestLoadWithFile(t *testing.T) {
	resetLoaderState(t)

	configFile := filepath.Join(t.TempDir(), "docwarp.yaml")
	content := `
log_level: warn
detector:
  working_width: 1024
  canny_low: 30
  canny_high: 90
enhance:
  default_mode: clahe
server:
  port: 9000
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.Detector.WorkingWidth)
	assert.Equal(t, 30.0, cfg.Detector.CannyLow)
	assert.Equal(t, "clahe", cfg.Enhance.DefaultMode)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, 16, cfg.Server.MaxUploadMB)
	assert.Equal(t, configFile, loader.GetConfigFileUsed())
}

func TestLoadWithFileMissing(t *testing.T) {
	resetLoaderState(t)

	_, err := NewLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	resetLoaderState(t)

	configFile := filepath.Join(t.TempDir(), "docwarp.yaml")
	content := "enhance:\n  default_mode: vivid\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	_, err := NewLoader().LoadWithFile(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadWithFileMalformedYAML(t *testing.T) {
	resetLoaderState(t)

	configFile := filepath.Join(t.TempDir(), "docwarp.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log_level: [unclosed"), 0o644))

	_, err := NewLoader().LoadWithFile(configFile)
	require.Error(t, err)
}

func TestLoadWithEmptyPathFallsBack(t *testing.T) {
	resetLoaderState(t)
	chdirTemp(t)

	cfg, err := NewLoader().LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, "/etc/docwarp")
}
