package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pdfslim/pkg/optimizer"
)

var inspectLevel int

var inspectCmd = &cobra.Command{
	Use:   "inspect [input file]",
	Short: "List the embedded images of a PDF without modifying it",
	Long: `Inspect prints every image XObject per page: dimensions, color space,
stream filter, size, soft-mask presence, estimated DPI and whether the
image would be classified as a page background.

Examples:
  pdfslim inspect report.pdf
  pdfslim inspect report.pdf --level 4`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVarP(&inspectLevel, "level", "l", 3, "Optimization level used for classification (1-4)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]

	if err := validateInputFile(input); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	if inspectLevel < 1 || inspectLevel > 4 {
		return fmt.Errorf("invalid level %d (valid: 1-4)", inspectLevel)
	}

	opt := optimizer.New(optimizer.LevelConfig(inspectLevel), optimizer.DefaultCapabilities())

	reports, err := opt.Inspect(input)
	if err != nil {
		return err
	}

	total := 0
	var totalBytes int64
	for _, report := range reports {
		if len(report.Images) == 0 {
			continue
		}
		fmt.Printf("Page %d:\n", report.Page)
		for _, img := range report.Images {
			flags := ""
			if img.HasSoftMask {
				flags += " +smask"
			}
			if img.Background {
				flags += " background"
			}
			fmt.Printf("  %-12s %5dx%-5d %-8s %-12s %4dbpc %8s  ~%.0fdpi%s\n",
				img.Name, img.Width, img.Height, img.ColorSpace, img.Filter,
				img.BitsPerComponent, humanize.Bytes(uint64(img.StreamLength)),
				img.EstimatedDPI, flags)
			total++
			totalBytes += int64(img.StreamLength)
		}
	}

	fmt.Printf("\n%d images, %s of image data across %d pages\n",
		total, humanize.Bytes(uint64(totalBytes)), len(reports))
	return nil
}
