package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pdfslim/pkg/optimizer"
)

var (
	extractOutputDir string
	extractFormat    string
	extractQuality   int
)

var extractCmd = &cobra.Command{
	Use:   "extract [input file]",
	Short: "Extract embedded images to individual files",
	Long: `Extract decodes every embedded raster image and writes it to the output
directory as jpeg, png or webp.

Examples:
  pdfslim extract report.pdf -o images/
  pdfslim extract report.pdf -o images/ --format webp --quality 80`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutputDir, "output", "o", "", "Output directory (required)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "jpeg", "Output format (jpeg, png, webp)")
	extractCmd.Flags().IntVarP(&extractQuality, "quality", "q", 90, "Quality for lossy output formats (1-100)")

	extractCmd.MarkFlagRequired("output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := args[0]

	if err := validateInputFile(input); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	if err := validateExtractFormat(extractFormat); err != nil {
		return fmt.Errorf("format validation failed: %w", err)
	}

	cfg := optimizer.DefaultConfig()
	cfg.JPEGQuality = extractQuality
	// Extraction wants everything, including tiny icons.
	cfg.SkipSmallImages = false
	cfg.MinStreamBytes = 0

	opt := optimizer.New(cfg, optimizer.DefaultCapabilities())
	opt.SetVerbose(verbose)

	extracted, err := opt.ExtractImages(input, extractOutputDir, extractFormat)
	if err != nil {
		return err
	}

	for _, img := range extracted {
		if verbose {
			fmt.Printf("  ✓ %s\n", img.Path)
		}
	}
	fmt.Printf("✅ Extracted %d images to %s\n", len(extracted), extractOutputDir)
	return nil
}

func validateExtractFormat(format string) error {
	valid := []string{"jpeg", "png", "webp"}
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (valid options: %s)", format, strings.Join(valid, ", "))
}
