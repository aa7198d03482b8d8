package optimizer

import "fmt"

// Config holds the tuning knobs for one optimization run. It is built once
// from CLI flags and never mutated afterwards.
type Config struct {
	// JPEG quality (1-100) for ordinary images.
	JPEGQuality int

	// JPEG quality for images classified as background. Backgrounds are
	// non-essential page decoration, so this is typically much lower.
	BackgroundJPEGQuality int

	// Target resolution. Images whose estimated DPI exceeds this are
	// downscaled.
	MaxDPI int

	// Fraction of the page (per dimension) an image must cover to be
	// classified as background.
	BackgroundAreaFraction float64

	// Stream size above which an image is classified as background
	// regardless of coverage.
	BackgroundByteThreshold int

	// Apply the extra downscale-then-upscale degradation pass to
	// background images.
	DegradeBackgrounds bool

	// Images whose shorter side is below MinImageSize are skipped when
	// SkipSmallImages is set.
	MinImageSize    int
	SkipSmallImages bool

	// Streams smaller than this are treated as noise, not image data.
	MinStreamBytes int

	// Similarity gate. Results scoring below MinSimilarity are reverted.
	// Zero disables the gate.
	MinSimilarity float64

	// Convert all images to grayscale before re-encoding.
	Grayscale bool

	// Re-encode soft masks as raw pixels behind FlateDecode instead of
	// JPEG, keeping the alpha channel lossless.
	LosslessMasks bool
}

// DefaultConfig returns the settings for optimization level 3, the
// recommended middle ground.
func DefaultConfig() Config {
	return LevelConfig(3)
}

// LevelConfig maps an optimization level (1 = gentle, 4 = maximum) to a
// concrete configuration.
func LevelConfig(level int) Config {
	cfg := Config{
		JPEGQuality:             85,
		BackgroundJPEGQuality:   1,
		MaxDPI:                  300,
		BackgroundAreaFraction:  0.8,
		BackgroundByteThreshold: 1 << 20, // 1 MiB
		MinImageSize:            64,
		SkipSmallImages:         true,
		MinStreamBytes:          1024,
	}

	switch level {
	case 1:
		cfg.JPEGQuality = 85
		cfg.MaxDPI = 300
	case 2:
		cfg.JPEGQuality = 75
		cfg.MaxDPI = 200
	case 4:
		cfg.JPEGQuality = 60
		cfg.MaxDPI = 120
		cfg.DegradeBackgrounds = true
	default: // level 3
		cfg.JPEGQuality = 70
		cfg.MaxDPI = 150
		cfg.DegradeBackgrounds = true
	}

	return cfg
}

// Validate checks the configuration for values outside their documented
// ranges.
func (c Config) Validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100, got %d", c.JPEGQuality)
	}
	if c.BackgroundJPEGQuality < 1 || c.BackgroundJPEGQuality > 100 {
		return fmt.Errorf("background jpeg quality must be 1-100, got %d", c.BackgroundJPEGQuality)
	}
	if c.MaxDPI <= 0 {
		return fmt.Errorf("max dpi must be positive, got %d", c.MaxDPI)
	}
	if c.BackgroundAreaFraction <= 0 || c.BackgroundAreaFraction > 1 {
		return fmt.Errorf("background area fraction must be in (0,1], got %g", c.BackgroundAreaFraction)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("min similarity must be in [0,1], got %g", c.MinSimilarity)
	}
	return nil
}
