package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/MeKo-Tech/idscan/internal/pipeline"
	"github.com/MeKo-Tech/idscan/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch [directory or files...]",
	Short: "Scan a batch of identity document images in parallel",
	Long: `Scan many images with a worker pool. Arguments may be directories
(scanned for supported images) or individual files. Failures are isolated per
image; the batch keeps running and failed items are reported in their slot.

Examples:
  idscan batch ./scans
  idscan batch ./scans --workers 8 --output results.json
  idscan batch a.jpg b.jpg c.png`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input paths provided")
		}

		cfg := GetConfig()
		if cmd.Flags().Changed("output") {
			cfg.Output.File, _ = cmd.Flags().GetString("output")
		}

		recursive, _ := cmd.Flags().GetBool("recursive")
		paths, err := collectImagePaths(args, recursive)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errors.New("no supported image files found")
		}

		items := make([]pipeline.BatchItem, 0, len(paths))
		for _, path := range paths {
			data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied input path
			if err != nil {
				if cfg.Batch.ContinueOnError {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping %s: %v\n", path, err)
					continue
				}
				return fmt.Errorf("reading %s: %w", path, err)
			}
			items = append(items, pipeline.BatchItem{Filename: path, Data: data})
		}

		pl, err := pipeline.NewBuilder().
			WithConfig(cfg.ToPipelineConfig()).
			Build(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to build scan pipeline: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %d image(s) with %d worker(s)\n",
			len(items), cfg.Batch.Workers)

		results, err := pl.ProcessBatch(cmd.Context(), items, pipeline.ParallelConfig{
			MaxWorkers: cfg.Batch.Workers,
			ProgressCallback: func(done, total int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rProcessed %d/%d", done, total)
				if done == total {
					fmt.Fprintln(cmd.ErrOrStderr())
				}
			},
		})
		if err != nil {
			return fmt.Errorf("batch scan failed: %w", err)
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				if !cfg.Batch.ContinueOnError {
					return fmt.Errorf("scan failed for %s: %w", r.Filename, r.Err)
				}
			}
		}

		out, err := pipeline.ToJSONBatch(results)
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}

		if cfg.Output.File != "" {
			if err := os.WriteFile(cfg.Output.File, []byte(out), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s (%d failed)\n", cfg.Output.File, failed)
			return nil
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

// collectImagePaths expands directories into their supported image files.
func collectImagePaths(args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if utils.IsSupportedImage(arg) {
				paths = append(paths, arg)
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if utils.IsSupportedImage(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 4, "number of parallel workers")
	batchCmd.Flags().Bool("continue-on-error", true, "keep scanning after individual failures")
	batchCmd.Flags().Bool("recursive", false, "recurse into subdirectories")
	batchCmd.Flags().StringP("format", "f", "json", "output format (json)")
	batchCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	// output.format and output.file stay bound to the scan command's flags;
	// batch overrides them per invocation in RunE.
	for _, binding := range []struct{ key, flag string }{
		{"batch.workers", "workers"},
		{"batch.continue_on_error", "continue-on-error"},
	} {
		if err := viper.BindPFlag(binding.key, batchCmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

// GetBatchCommand returns the batch command for testing purposes.
func GetBatchCommand() *cobra.Command {
	return batchCmd
}
