package cmd

import (
	"fmt"
	"time"

	"github.com/docwarp/docwarp/internal/batch"
	"github.com/docwarp/docwarp/internal/enhance"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Scan many document photos in one run",
	Long: `Scan multiple images or whole directories with parallel workers.

Each input file produces <name>_scanned.png in the output directory.
Per-file failures are reported at the end and do not abort the run
unless --continue-on-error=false.

Examples:
  docwarp batch photos/
  docwarp batch photos/ --recursive --workers 8 -o scans/
  docwarp batch a.jpg b.jpg --mode clahe`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		mode := cfg.Enhance.DefaultMode
		if cmd.Flags().Changed("mode") {
			mode, _ = cmd.Flags().GetString("mode")
		}
		parsedMode, err := enhance.ParseMode(mode)
		if err != nil {
			return err
		}

		batchCfg := batch.DefaultConfig()
		batchCfg.Pipeline.Detector = detectorConfig(cfg)
		batchCfg.Pipeline.Enhance = enhanceParams(cfg)
		batchCfg.Pipeline.Warp = warpOptions(cfg)
		batchCfg.Mode = parsedMode
		batchCfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
		batchCfg.Recursive, _ = cmd.Flags().GetBool("recursive")
		batchCfg.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
		batchCfg.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
		batchCfg.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
		if cmd.Flags().Changed("workers") {
			batchCfg.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("fallback-full-image") {
			batchCfg.Pipeline.Detector.FallbackFullImage, _ = cmd.Flags().GetBool("fallback-full-image")
		}

		result, err := batch.ProcessBatch(args, batchCfg)
		if result != nil {
			for _, item := range result.Items {
				if item.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", item.InputPath, item.Err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d/%d file(s) in %s with %d worker(s)\n",
				result.Succeeded, len(result.Items), result.Duration.Round(time.Millisecond), result.WorkerCount)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("output-dir", "o", ".", "directory for scanned images")
	batchCmd.Flags().StringP("mode", "m", "adaptive", "enhancement mode: adaptive, clahe, sharpen, original")
	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel workers (default: CPU count)")
	batchCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	batchCmd.Flags().Bool("continue-on-error", true, "keep going after per-file failures")
	batchCmd.Flags().StringSlice("include", nil, "only scan files matching these base-name patterns")
	batchCmd.Flags().StringSlice("exclude", nil, "skip files matching these base-name patterns")
	batchCmd.Flags().Bool("fallback-full-image", false, "rectify the full frame when no document is found")
}
