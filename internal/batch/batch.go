package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/docwarp/docwarp/internal/scan"
	"github.com/docwarp/docwarp/internal/utils"
)

// ItemResult records the outcome for a single input file.
type ItemResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// Result summarizes a batch run.
type Result struct {
	Items       []ItemResult
	Duration    time.Duration
	WorkerCount int
	Succeeded   int
	Failed      int
}

// ProcessBatch discovers image files among the given paths and scans them
// with a pool of workers. Per-file failures do not abort the run unless
// ContinueOnError is disabled.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	files, err := discoverImageFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	if err := os.MkdirAll(config.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	pl, err := scan.NewBuilder().
		WithDetectorConfig(config.Pipeline.Detector).
		WithEnhanceParams(config.Pipeline.Enhance).
		WithWarpOptions(config.Pipeline.Warp).
		WithDefaultMode(config.Mode).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan pipeline: %w", err)
	}

	workers := config.Workers
	if workers > len(files) {
		workers = len(files)
	}

	start := time.Now()
	items := make([]ItemResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = processFile(pl, files[i], config)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &Result{
		Items:       items,
		Duration:    time.Since(start),
		WorkerCount: workers,
	}
	for _, item := range items {
		if item.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	if !config.ContinueOnError && result.Failed > 0 {
		return result, fmt.Errorf("batch processing failed on %d file(s)", result.Failed)
	}
	return result, nil
}

// processFile scans one image and writes the result into the output dir.
func processFile(pl *scan.Pipeline, path string, config *Config) ItemResult {
	start := time.Now()
	item := ItemResult{InputPath: path}

	img, err := utils.LoadImage(path)
	if err != nil {
		item.Err = fmt.Errorf("failed to load %s: %w", path, err)
		item.Duration = time.Since(start)
		return item
	}

	res, err := pl.Scan(img, config.Mode)
	if err != nil {
		item.Err = fmt.Errorf("scan failed for %s: %w", path, err)
		item.Duration = time.Since(start)
		return item
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "_scanned.png"
	item.OutputPath = filepath.Join(config.OutputDir, name)

	if err := utils.SaveImage(item.OutputPath, res.Image); err != nil {
		item.Err = fmt.Errorf("failed to save %s: %w", item.OutputPath, err)
		item.OutputPath = ""
		item.Duration = time.Since(start)
		return item
	}

	item.Duration = time.Since(start)
	slog.Debug("batch item complete",
		"input", path, "output", item.OutputPath, "duration_ms", item.Duration.Milliseconds())
	return item
}
