package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/docwarp/docwarp/internal/config"
	"github.com/docwarp/docwarp/internal/detector"
	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/docwarp/docwarp/internal/rectify"
	"github.com/docwarp/docwarp/internal/scan"
	"github.com/docwarp/docwarp/internal/utils"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [image]",
	Short: "Scan a document photo into a rectified image",
	Long: `Detect the document in a photo, warp it flat and enhance it.

Examples:
  docwarp scan photo.jpg
  docwarp scan photo.jpg -o scan.png --mode clahe
  docwarp scan photo.jpg --fallback-full-image`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		inputPath := args[0]

		mode := cfg.Enhance.DefaultMode
		if cmd.Flags().Changed("mode") {
			mode, _ = cmd.Flags().GetString("mode")
		}
		parsedMode, err := enhance.ParseMode(mode)
		if err != nil {
			return err
		}

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			ext := filepath.Ext(inputPath)
			base := strings.TrimSuffix(inputPath, ext)
			outputPath = base + "_scanned.png"
		}

		detCfg := detectorConfig(cfg)
		if cmd.Flags().Changed("fallback-full-image") {
			detCfg.FallbackFullImage, _ = cmd.Flags().GetBool("fallback-full-image")
		}
		if cmd.Flags().Changed("working-width") {
			detCfg.WorkingWidth, _ = cmd.Flags().GetInt("working-width")
		}
		if cmd.Flags().Changed("min-area-ratio") {
			detCfg.MinAreaRatio, _ = cmd.Flags().GetFloat64("min-area-ratio")
		}

		pl, err := scan.NewBuilder().
			WithDetectorConfig(detCfg).
			WithEnhanceParams(enhanceParams(cfg)).
			WithWarpOptions(warpOptions(cfg)).
			WithDefaultMode(parsedMode).
			Build()
		if err != nil {
			return fmt.Errorf("failed to initialize pipeline: %w", err)
		}

		img, err := utils.LoadImage(inputPath)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", inputPath, err)
		}

		res, err := pl.Scan(img, parsedMode)
		if err != nil {
			var detErr *scan.DetectionError
			if errors.As(err, &detErr) {
				return fmt.Errorf("no document found in %s (try --fallback-full-image)", inputPath)
			}
			return err
		}

		if err := utils.SaveImage(outputPath, res.Image); err != nil {
			return fmt.Errorf("failed to save %s: %w", outputPath, err)
		}

		slog.Info("document scanned",
			"input", inputPath,
			"output", outputPath,
			"mode", res.Mode,
			"input_size", fmt.Sprintf("%dx%d", res.InputWidth, res.InputHeight),
			"output_size", fmt.Sprintf("%dx%d", res.OutputWidth, res.OutputHeight),
			"total_ms", res.Timings.Total.Milliseconds())

		fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s -> %s (%dx%d, %s)\n",
			inputPath, outputPath, res.OutputWidth, res.OutputHeight, res.Mode)
		return nil
	},
}

// detectorConfig maps the loaded application config onto detector settings.
func detectorConfig(cfg *config.Config) detector.Config {
	det := detector.DefaultConfig()
	det.WorkingWidth = cfg.Detector.WorkingWidth
	det.BlurSigma = cfg.Detector.BlurSigma
	det.CannyLow = cfg.Detector.CannyLow
	det.CannyHigh = cfg.Detector.CannyHigh
	det.CloseKernel = cfg.Detector.CloseKernel
	det.CloseIterations = cfg.Detector.CloseIterations
	det.EpsilonSchedule = cfg.Detector.EpsilonSchedule
	det.MinAreaRatio = cfg.Detector.MinAreaRatio
	det.MaxAreaRatio = cfg.Detector.MaxAreaRatio
	det.MaxCandidates = cfg.Detector.MaxCandidates
	det.FallbackFullImage = cfg.Detector.FallbackFullImage
	return det
}

// enhanceParams maps the loaded application config onto enhancement tuning.
func enhanceParams(cfg *config.Config) enhance.Params {
	return enhance.Params{
		AdaptiveBlockSize: cfg.Enhance.AdaptiveBlockSize,
		AdaptiveBias:      cfg.Enhance.AdaptiveBias,
		CLAHEClipLimit:    cfg.Enhance.CLAHEClipLimit,
		CLAHETiles:        cfg.Enhance.CLAHETiles,
	}
}

// warpOptions maps the loaded application config onto warp settings.
func warpOptions(cfg *config.Config) rectify.WarpOptions {
	opts := rectify.DefaultWarpOptions()
	opts.Parallel = cfg.Warp.Parallel
	opts.Workers = cfg.Warp.Workers
	if border, err := cfg.Warp.BorderColor(); err == nil {
		opts.Border = border
	}
	return opts
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("output", "o", "", "output file path (default <input>_scanned.png)")
	scanCmd.Flags().StringP("mode", "m", "adaptive", "enhancement mode: adaptive, clahe, sharpen, original")
	scanCmd.Flags().Bool("fallback-full-image", false, "rectify the full frame when no document is found")
	scanCmd.Flags().Int("working-width", 800, "detection working width in pixels")
	scanCmd.Flags().Float64("min-area-ratio", 0.20, "minimum document area relative to the frame")
}
