package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/idscan/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan identity document images",
	Long: `Scan one or more identity document images. Each image is searched for
barcode symbols, sent through document field recognition when configured, and
the two channels are reconciled into a structured identity record.

Supported formats: JPEG, PNG, BMP

Examples:
  idscan scan license.jpg
  idscan scan front.png back.png --format text
  idscan scan license.jpg --output result.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		outputFile := cfg.Output.File
		if format != outputFormatJSON && format != outputFormatText {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text)", format)
		}

		pl, err := pipeline.NewBuilder().
			WithConfig(cfg.ToPipelineConfig()).
			Build(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to build scan pipeline: %w", err)
		}

		var outputs []string
		for _, path := range args {
			res, err := pl.ProcessFile(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("scan failed for %s: %w", path, err)
			}

			var out string
			switch format {
			case outputFormatText:
				out, err = pipeline.ToSummary(res)
			default:
				out, err = pipeline.ToJSON(res)
			}
			if err != nil {
				return fmt.Errorf("formatting failed for %s: %w", path, err)
			}
			outputs = append(outputs, out)
		}

		final := strings.Join(outputs, "\n")
		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(final), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile); err != nil {
				return err
			}
			return nil
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), final); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "json", "output format (json, text)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().Int("min-width", 1000, "upscale inputs narrower than this before decoding")
	cmd.Flags().StringSlice("barcode-format", nil,
		"restrict barcode symbologies (e.g. pdf417,qr); default searches all")
	cmd.Flags().Bool("try-harder", true, "enable the decoder's exhaustive search mode")
	cmd.Flags().String("aws-region", "", "AWS region for document recognition")
	cmd.Flags().String("aws-endpoint", "", "AWS endpoint override for document recognition")
}

func bindScanFlags(cmd *cobra.Command) {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"output.format", "format"},
		{"output.file", "output"},
		{"decoder.min_width", "min-width"},
		{"decoder.formats", "barcode-format"},
		{"decoder.try_harder", "try-harder"},
		{"recognition.region", "aws-region"},
		{"recognition.endpoint", "aws-endpoint"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, cmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addScanFlags(scanCmd)
	bindScanFlags(scanCmd)
}

// GetScanCommand returns the scan command for testing purposes.
func GetScanCommand() *cobra.Command {
	return scanCmd
}
