// Package batch scans many document photos in one run, with parallel
// workers and per-file error reporting.
package batch

import (
	"fmt"
	"runtime"

	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/docwarp/docwarp/internal/scan"
)

// Config holds batch processing settings.
type Config struct {
	// Pipeline is the scan pipeline configuration applied to every file.
	Pipeline scan.Config
	// Mode is the enhancement mode applied to every file.
	Mode enhance.Mode
	// OutputDir receives the scanned images, named <input>_scanned.png.
	OutputDir string
	// Workers is the number of files processed concurrently.
	Workers int
	// Recursive descends into subdirectories when an input is a directory.
	Recursive bool
	// IncludePatterns and ExcludePatterns filter discovered files by base
	// name (filepath.Match syntax). Exclusions win.
	IncludePatterns []string
	ExcludePatterns []string
	// ContinueOnError keeps processing after individual file failures.
	ContinueOnError bool
}

// DefaultConfig returns batch defaults with one worker per CPU.
func DefaultConfig() *Config {
	return &Config{
		Pipeline:        scan.DefaultConfig(),
		Mode:            enhance.DefaultMode,
		OutputDir:       ".",
		Workers:         runtime.NumCPU(),
		Recursive:       false,
		ContinueOnError: true,
	}
}

// Validate checks batch settings.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if _, err := enhance.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	return nil
}
