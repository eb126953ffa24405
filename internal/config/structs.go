// Package config defines the application configuration and loads it from
// files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Config represents the complete configuration for the docwarp application.
// It covers the scan and serve commands and supports loading from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection configuration
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Enhancement configuration
	Enhance EnhanceConfig `mapstructure:"enhance" yaml:"enhance" json:"enhance"`

	// Perspective warp configuration
	Warp WarpConfig `mapstructure:"warp" yaml:"warp" json:"warp"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Output configuration (for scan command)
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// DetectorConfig contains document boundary detection settings.
type DetectorConfig struct {
	WorkingWidth      int       `mapstructure:"working_width" yaml:"working_width" json:"working_width"`
	BlurSigma         float64   `mapstructure:"blur_sigma" yaml:"blur_sigma" json:"blur_sigma"`
	CannyLow          float64   `mapstructure:"canny_low" yaml:"canny_low" json:"canny_low"`
	CannyHigh         float64   `mapstructure:"canny_high" yaml:"canny_high" json:"canny_high"`
	CloseKernel       int       `mapstructure:"close_kernel" yaml:"close_kernel" json:"close_kernel"`
	CloseIterations   int       `mapstructure:"close_iterations" yaml:"close_iterations" json:"close_iterations"`
	EpsilonSchedule   []float64 `mapstructure:"epsilon_schedule" yaml:"epsilon_schedule" json:"epsilon_schedule"`
	MinAreaRatio      float64   `mapstructure:"min_area_ratio" yaml:"min_area_ratio" json:"min_area_ratio"`
	MaxAreaRatio      float64   `mapstructure:"max_area_ratio" yaml:"max_area_ratio" json:"max_area_ratio"`
	MaxCandidates     int       `mapstructure:"max_candidates" yaml:"max_candidates" json:"max_candidates"`
	FallbackFullImage bool      `mapstructure:"fallback_full_image" yaml:"fallback_full_image" json:"fallback_full_image"`
}

// EnhanceConfig contains enhancement settings.
type EnhanceConfig struct {
	DefaultMode       string  `mapstructure:"default_mode" yaml:"default_mode" json:"default_mode"`
	AdaptiveBlockSize int     `mapstructure:"adaptive_block_size" yaml:"adaptive_block_size" json:"adaptive_block_size"`
	AdaptiveBias      float64 `mapstructure:"adaptive_bias" yaml:"adaptive_bias" json:"adaptive_bias"`
	CLAHEClipLimit    float64 `mapstructure:"clahe_clip_limit" yaml:"clahe_clip_limit" json:"clahe_clip_limit"`
	CLAHETiles        int     `mapstructure:"clahe_tiles" yaml:"clahe_tiles" json:"clahe_tiles"`
}

// WarpConfig contains perspective warp settings.
type WarpConfig struct {
	Parallel bool `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
	// Workers bounds the parallel warp worker count. Zero picks one worker
	// per logical CPU.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
	// Border is the out-of-frame fill color as #RRGGBB hex.
	Border string `mapstructure:"border" yaml:"border" json:"border"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// OutputConfig contains scan output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", c.LogLevel)
	}
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	if err := c.Enhance.Validate(); err != nil {
		return err
	}
	if err := c.Warp.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

// Validate checks detector settings.
func (c *DetectorConfig) Validate() error {
	if c.WorkingWidth < 1 {
		return fmt.Errorf("detector.working_width must be positive, got %d", c.WorkingWidth)
	}
	if c.CannyLow <= 0 || c.CannyHigh <= 0 {
		return fmt.Errorf("detector canny thresholds must be positive, got %.1f/%.1f", c.CannyLow, c.CannyHigh)
	}
	if c.CannyLow >= c.CannyHigh {
		return fmt.Errorf("detector.canny_low (%.1f) must be below canny_high (%.1f)", c.CannyLow, c.CannyHigh)
	}
	if c.CloseKernel < 0 || c.CloseIterations < 0 {
		return fmt.Errorf("detector closing parameters must be non-negative, got kernel=%d iterations=%d",
			c.CloseKernel, c.CloseIterations)
	}
	if c.CloseKernel > 0 && c.CloseKernel%2 == 0 {
		return fmt.Errorf("detector.close_kernel must be odd, got %d", c.CloseKernel)
	}
	if len(c.EpsilonSchedule) == 0 {
		return fmt.Errorf("detector.epsilon_schedule must not be empty")
	}
	for i, eps := range c.EpsilonSchedule {
		if eps <= 0 {
			return fmt.Errorf("detector.epsilon_schedule[%d] must be positive, got %v", i, eps)
		}
		if i > 0 && eps <= c.EpsilonSchedule[i-1] {
			return fmt.Errorf("detector.epsilon_schedule must be strictly increasing")
		}
	}
	if c.MinAreaRatio <= 0 || c.MinAreaRatio >= 1 {
		return fmt.Errorf("detector.min_area_ratio must be in (0, 1), got %.3f", c.MinAreaRatio)
	}
	if c.MaxAreaRatio <= c.MinAreaRatio || c.MaxAreaRatio > 1 {
		return fmt.Errorf("detector.max_area_ratio must be in (min_area_ratio, 1], got %.3f", c.MaxAreaRatio)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("detector.max_candidates must be positive, got %d", c.MaxCandidates)
	}
	return nil
}

// Validate checks enhancement settings.
func (c *EnhanceConfig) Validate() error {
	switch c.DefaultMode {
	case "adaptive", "clahe", "sharpen", "original":
	default:
		return fmt.Errorf("invalid enhance.default_mode %q", c.DefaultMode)
	}
	if c.AdaptiveBlockSize < 3 || c.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("enhance.adaptive_block_size must be odd and >= 3, got %d", c.AdaptiveBlockSize)
	}
	if c.CLAHEClipLimit <= 0 {
		return fmt.Errorf("enhance.clahe_clip_limit must be positive, got %.2f", c.CLAHEClipLimit)
	}
	if c.CLAHETiles < 1 {
		return fmt.Errorf("enhance.clahe_tiles must be positive, got %d", c.CLAHETiles)
	}
	return nil
}

// Validate checks warp settings.
func (c *WarpConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("warp.workers must be non-negative, got %d", c.Workers)
	}
	if _, err := c.BorderColor(); err != nil {
		return err
	}
	return nil
}

// BorderColor parses the hex border fill into an opaque RGBA color.
func (c *WarpConfig) BorderColor() (color.RGBA, error) {
	s := strings.TrimPrefix(c.Border, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid warp.border %q (expected #RRGGBB)", c.Border)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid warp.border %q: %w", c.Border, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// Validate checks server settings.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Port)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.TimeoutSec < 1 {
		return fmt.Errorf("server.timeout_sec must be positive, got %d", c.TimeoutSec)
	}
	if c.ShutdownTimeout < 1 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %d", c.ShutdownTimeout)
	}
	return nil
}

// Validate checks output settings.
func (c *OutputConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "png", "jpeg", "jpg":
		return nil
	}
	return fmt.Errorf("invalid output.format %q (expected png or jpeg)", c.Format)
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Detector: DetectorConfig{
			WorkingWidth:      800,
			BlurSigma:         2.0,
			CannyLow:          50,
			CannyHigh:         150,
			CloseKernel:       5,
			CloseIterations:   2,
			EpsilonSchedule:   []float64{0.02, 0.03, 0.05, 0.08},
			MinAreaRatio:      0.20,
			MaxAreaRatio:      0.95,
			MaxCandidates:     5,
			FallbackFullImage: false,
		},
		Enhance: EnhanceConfig{
			DefaultMode:       "adaptive",
			AdaptiveBlockSize: 11,
			AdaptiveBias:      2.0,
			CLAHEClipLimit:    2.0,
			CLAHETiles:        8,
		},
		Warp: WarpConfig{
			Parallel: true,
			Workers:  0,
			Border:   "#FFFFFF",
		},
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     16,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
		Output: OutputConfig{
			Format: "png",
		},
	}
}
