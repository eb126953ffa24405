package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 800, cfg.Detector.WorkingWidth)
	assert.Equal(t, 50.0, cfg.Detector.CannyLow)
	assert.Equal(t, 150.0, cfg.Detector.CannyHigh)
	assert.Equal(t, "adaptive", cfg.Enhance.DefaultMode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 16, cfg.Server.MaxUploadMB)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.False(t, cfg.Detector.FallbackFullImage)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "log_level",
		},
		{
			name:    "zero working width",
			mutate:  func(c *Config) { c.Detector.WorkingWidth = 0 },
			wantErr: "working_width",
		},
		{
			name:    "negative canny threshold",
			mutate:  func(c *Config) { c.Detector.CannyLow = -1 },
			wantErr: "canny",
		},
		{
			name:    "low above high",
			mutate:  func(c *Config) { c.Detector.CannyLow = 200 },
			wantErr: "canny_low",
		},
		{
			name:    "area ratio out of range",
			mutate:  func(c *Config) { c.Detector.MinAreaRatio = 1.5 },
			wantErr: "min_area_ratio",
		},
		{
			name:    "zero candidates",
			mutate:  func(c *Config) { c.Detector.MaxCandidates = 0 },
			wantErr: "max_candidates",
		},
		{
			name:    "even close kernel",
			mutate:  func(c *Config) { c.Detector.CloseKernel = 4 },
			wantErr: "close_kernel",
		},
		{
			name:    "empty epsilon schedule",
			mutate:  func(c *Config) { c.Detector.EpsilonSchedule = nil },
			wantErr: "epsilon_schedule",
		},
		{
			name:    "non-increasing epsilon schedule",
			mutate:  func(c *Config) { c.Detector.EpsilonSchedule = []float64{0.05, 0.02} },
			wantErr: "epsilon_schedule",
		},
		{
			name:    "max area ratio below min",
			mutate:  func(c *Config) { c.Detector.MaxAreaRatio = 0.1 },
			wantErr: "max_area_ratio",
		},
		{
			name:    "unknown enhance mode",
			mutate:  func(c *Config) { c.Enhance.DefaultMode = "vivid" },
			wantErr: "default_mode",
		},
		{
			name:    "even adaptive block size",
			mutate:  func(c *Config) { c.Enhance.AdaptiveBlockSize = 12 },
			wantErr: "adaptive_block_size",
		},
		{
			name:    "zero clahe clip limit",
			mutate:  func(c *Config) { c.Enhance.CLAHEClipLimit = 0 },
			wantErr: "clahe_clip_limit",
		},
		{
			name:    "zero clahe tiles",
			mutate:  func(c *Config) { c.Enhance.CLAHETiles = 0 },
			wantErr: "clahe_tiles",
		},
		{
			name:    "negative warp workers",
			mutate:  func(c *Config) { c.Warp.Workers = -1 },
			wantErr: "warp.workers",
		},
		{
			name:    "malformed warp border",
			mutate:  func(c *Config) { c.Warp.Border = "white" },
			wantErr: "warp.border",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadMB = 0 },
			wantErr: "max_upload_mb",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.TimeoutSec = 0 },
			wantErr: "timeout_sec",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "gif" },
			wantErr: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Detector.FallbackFullImage = true
	cfg.Server.Port = 9090

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *cfg, decoded)
}

func TestConfigJSONTags(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Contains(t, result, "log_level")
	assert.Contains(t, result, "detector")
	assert.Contains(t, result, "server")

	detector, ok := result["detector"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 800, detector["working_width"], 1e-9)
	assert.Contains(t, detector, "fallback_full_image")
}

func TestWarpConfigBorderColor(t *testing.T) {
	cfg := WarpConfig{Parallel: true, Border: "#FF8000"}
	c, err := cfg.BorderColor()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(255), c.A)

	cfg.Border = "FFFFFF"
	_, err = cfg.BorderColor()
	require.NoError(t, err)

	cfg.Border = "#GGHHII"
	_, err = cfg.BorderColor()
	require.Error(t, err)
}
