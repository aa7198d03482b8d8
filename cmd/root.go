package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pdfslim",
	Short: "Shrink PDF files by recompressing embedded images",
	Long: `Pdfslim is a CLI tool that reduces PDF file size by re-encoding the
raster images embedded in each page, while keeping soft-mask (SMask)
transparency references intact.

Currently supports:
- In-place recompression of FlateDecode and DCTDecode image XObjects
- DPI-based downscaling and aggressive background-image degradation
- Read-only inspection of a document's embedded images
- Extraction of embedded images to jpeg, png or webp files`,
	Version: "0.1.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// validateInputFile checks the PDF exists and looks like a file we can read.
func validateInputFile(path string) error {
	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if stat.IsDir() {
		return fmt.Errorf("input path is a directory: %s", path)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("input file is empty: %s", path)
	}
	return nil
}
