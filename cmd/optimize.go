package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pdfslim/pkg/optimizer"
)

var (
	optimizeLevel      int
	optimizeQuality    int
	optimizeDPI        int
	optimizeOutput     string
	optimizeSuffix     string
	optimizeGrayscale  bool
	preserveBackground bool
	optimizeSimilarity float64
	optimizeLossless   bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [input files]",
	Short: "Recompress embedded images to reduce PDF file size",
	Long: `Recompress the raster images embedded in one or more PDF files.

Images are decoded, optionally downscaled to the target DPI, re-encoded
as JPEG and written back in place. Images carrying a soft mask have the
mask resized and re-encoded in lockstep so transparency survives.

Examples:
  pdfslim optimize report.pdf
  pdfslim optimize report.pdf -o small.pdf --level 4
  pdfslim optimize *.pdf -o out/ --dpi 150 --quality 70
  pdfslim optimize scan.pdf --grayscale --min-similarity 0.9`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().IntVarP(&optimizeLevel, "level", "l", 3, "Optimization level (1=gentle .. 4=maximum)")
	optimizeCmd.Flags().IntVarP(&optimizeQuality, "quality", "q", 0, "JPEG quality 1-100 (overrides level default)")
	optimizeCmd.Flags().IntVar(&optimizeDPI, "dpi", 0, "Target image DPI (overrides level default)")
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "Output file (single input) or directory")
	optimizeCmd.Flags().StringVar(&optimizeSuffix, "suffix", "_optimized", "Suffix for output files when no output path is given")
	optimizeCmd.Flags().BoolVar(&optimizeGrayscale, "grayscale", false, "Convert all images to grayscale")
	optimizeCmd.Flags().BoolVar(&preserveBackground, "preserve-background", false, "Do not apply the extra degradation pass to background images")
	optimizeCmd.Flags().Float64Var(&optimizeSimilarity, "min-similarity", 0, "Reject results scoring below this similarity (0 disables the gate)")
	optimizeCmd.Flags().BoolVar(&optimizeLossless, "lossless-masks", false, "Keep soft masks as raw FlateDecode data instead of JPEG")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if optimizeLevel < 1 || optimizeLevel > 4 {
		return fmt.Errorf("invalid level %d (valid: 1-4)", optimizeLevel)
	}

	cfg := optimizer.LevelConfig(optimizeLevel)
	if optimizeQuality > 0 {
		cfg.JPEGQuality = optimizeQuality
	}
	if optimizeDPI > 0 {
		cfg.MaxDPI = optimizeDPI
	}
	if preserveBackground {
		cfg.DegradeBackgrounds = false
	}
	cfg.Grayscale = optimizeGrayscale
	cfg.MinSimilarity = optimizeSimilarity
	cfg.LosslessMasks = optimizeLossless

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	caps := optimizer.DefaultCapabilities()
	caps.SimilarityScoring = cfg.MinSimilarity > 0

	if len(args) > 1 {
		if err := validateOutputDir(optimizeOutput); err != nil {
			return err
		}
	}

	opt := optimizer.New(cfg, caps)
	opt.SetVerbose(verbose)

	// Sequential loop on purpose: each document handle is mutated in
	// place and owns its objects exclusively.
	for _, input := range args {
		if err := validateInputFile(input); err != nil {
			return fmt.Errorf("input validation failed: %w", err)
		}

		output := outputPathFor(input, len(args))
		if err := optimizeOne(opt, input, output); err != nil {
			return err
		}
	}

	return nil
}

func optimizeOne(opt *optimizer.Optimizer, input, output string) error {
	origInfo, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("cannot stat input: %w", err)
	}

	fmt.Printf("Optimizing %s (%s)...\n", input, humanize.Bytes(uint64(origInfo.Size())))

	stats, err := opt.OptimizeFile(input, output)
	if err != nil {
		return fmt.Errorf("optimization of %s failed: %w", input, err)
	}

	outInfo, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("cannot stat output: %w", err)
	}

	printSummary(input, output, origInfo.Size(), outInfo.Size(), stats)
	return nil
}

func printSummary(input, output string, sizeBefore, sizeAfter int64, stats *optimizer.Stats) {
	fmt.Printf("✅ %s -> %s\n", filepath.Base(input), filepath.Base(output))
	fmt.Printf("   images: %d optimized, %d skipped, %d errors\n",
		stats.Processed, stats.Skipped, stats.Errors)
	fmt.Printf("   image bytes: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(stats.BytesBefore)), humanize.Bytes(uint64(stats.BytesAfter)),
		stats.ReductionPercent())

	fileReduction := 0.0
	if sizeBefore > 0 {
		fileReduction = float64(sizeBefore-sizeAfter) / float64(sizeBefore) * 100
	}
	fmt.Printf("   file size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(sizeBefore)), humanize.Bytes(uint64(sizeAfter)), fileReduction)

	if len(stats.SimilarityScores) > 0 {
		fmt.Printf("   mean similarity: %.3f\n", stats.MeanSimilarity())
	}
}

// outputPathFor picks the destination for one input. With a single input,
// --output names the file directly; with several it names a directory.
func outputPathFor(input string, inputCount int) string {
	if optimizeOutput != "" {
		if inputCount == 1 && !isDir(optimizeOutput) {
			return optimizeOutput
		}
		return filepath.Join(optimizeOutput, filepath.Base(input))
	}

	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + optimizeSuffix + ext
}

func isDir(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

func validateOutputDir(path string) error {
	if path == "" {
		return nil
	}
	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	if err != nil {
		return fmt.Errorf("cannot access output directory: %w", err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("output must be a directory when optimizing multiple files: %s", path)
	}
	return nil
}
