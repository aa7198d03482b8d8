package optimizer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"pdfslim/pkg/progress"
)

// Optimizer runs the image re-encoding decision procedure over a document.
type Optimizer struct {
	config  Config
	caps    Capabilities
	verbose bool
}

// New builds an Optimizer. The capability set is fixed here for the whole
// run; nothing downstream probes for optional features.
func New(cfg Config, caps Capabilities) *Optimizer {
	return &Optimizer{config: cfg, caps: caps}
}

// SetVerbose enables per-image diagnostics on stdout.
func (o *Optimizer) SetVerbose(v bool) {
	o.verbose = v
}

// OptimizeFile opens input, recompresses its images page by page and
// writes the result to output. The output file is always produced unless
// opening failed; per-image trouble degrades to skip/error counters.
func (o *Optimizer) OptimizeFile(input, output string) (*Stats, error) {
	doc, err := OpenDocument(input)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	tracker := progress.NewTracker(doc.PageCount())

	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		page, err := doc.Page(pageNr)
		if err != nil {
			// A malformed page must not block the rest of the document.
			o.logf("page %d: %v (skipped)\n", pageNr, err)
			tracker.PageDone(pageNr, 0)
			continue
		}

		pageStats := o.optimizePage(doc, page)
		stats.add(pageStats)
		tracker.PageDone(pageNr, pageStats.Processed)
		if o.verbose {
			tracker.Print()
		}
	}

	if err := doc.SaveTo(output); err != nil {
		return stats, err
	}
	return stats, nil
}

// optimizePage applies the decision procedure to every surviving record of
// one page.
func (o *Optimizer) optimizePage(doc *Document, page *Page) Stats {
	var stats Stats

	records := o.Inventory(doc, page)
	for _, rec := range records {
		before := pairStreamLength(rec)
		stats.BytesBefore += int64(before)

		after, score, err := o.processRecord(rec, before)
		switch {
		case err == nil:
			stats.Processed++
			stats.BytesAfter += int64(after)
			if score > 0 {
				stats.SimilarityScores = append(stats.SimilarityScores, score)
			}
			o.logf("  %s: %d -> %d bytes\n", rec.Name, before, after)
		case errors.Is(err, ErrNotBeneficial) || errors.Is(err, ErrQualityGate):
			stats.Skipped++
			stats.BytesAfter += int64(before)
			o.logf("  %s: skipped (%v)\n", rec.Name, err)
		default:
			stats.Errors++
			stats.BytesAfter += int64(before)
			o.logf("  %s: error (%v)\n", rec.Name, err)
		}
	}

	return stats
}

// pairStreamLength counts the base stream plus its mask, since both are
// rewritten together.
func pairStreamLength(rec *ImageRecord) int {
	n := rec.StreamLength
	if rec.HasSoftMask && rec.smask != nil {
		n += len(rec.smask.Raw)
	}
	return n
}

// processRecord runs one image through decode, resize, re-encode and
// commit. It returns the committed byte count and the similarity score
// when the gate ran.
func (o *Optimizer) processRecord(rec *ImageRecord, before int) (after int, score float64, err error) {
	// Already-compressed images that need neither a resize, the
	// background treatment nor a grayscale conversion have nothing to
	// gain from another generation of JPEG loss.
	if rec.Filter == "DCTDecode" && !rec.Background && !o.config.Grayscale &&
		rec.EstimatedDPI <= float64(o.config.MaxDPI) {
		return 0, 0, fmt.Errorf("%w: already JPEG at acceptable resolution", ErrNotBeneficial)
	}

	if rec.HasSoftMask && !o.caps.MaskPreservingWrite {
		return 0, 0, fmt.Errorf("%w: mask-preserving writes disabled", ErrNotBeneficial)
	}

	decoded, err := o.decodeImage(rec)
	if err != nil {
		return 0, 0, err
	}
	if decoded.placeholder {
		o.logf("  %s: %v, substituting placeholder\n", rec.Name, ErrDataSizeMismatch)
	}

	img := o.resizeForDPI(decoded.img, rec.EstimatedDPI)

	quality := o.config.JPEGQuality
	if rec.Background && o.config.DegradeBackgrounds {
		img = degradeBackground(img)
		quality = o.config.BackgroundJPEGQuality
	}

	// Collapse to gray after the resamplers: they return RGBA buffers,
	// which would defeat the single-channel encode.
	if o.config.Grayscale {
		img = toGray(img)
	}

	baseData, err := encodeJPEG(img, quality)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNotBeneficial, err)
	}

	colorSpace := "DeviceRGB"
	if isGrayBuffer(img) {
		colorSpace = "DeviceGray"
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	if rec.HasSoftMask {
		return o.processMaskedRecord(rec, decoded.img, baseData, colorSpace, quality, before, width, height)
	}

	if !beneficial(before, len(baseData)) {
		return 0, 0, ErrNotBeneficial
	}

	score, err = o.qualityGate(decoded.img, baseData)
	if err != nil {
		return 0, 0, err
	}

	if err := commitBase(rec, baseData, colorSpace, width, height); err != nil {
		return 0, 0, err
	}
	return len(baseData), score, nil
}

// processMaskedRecord walks the pair state machine: DecodeBoth already
// produced the base buffer, so this covers AlignSizes, EncodeBoth, the
// gate and CommitBoth.
func (o *Optimizer) processMaskedRecord(rec *ImageRecord, original image.Image, baseData []byte, colorSpace string, quality int, before, width, height int) (int, float64, error) {
	// DecodeBoth: a mask that cannot be decoded aborts the pair with both
	// objects untouched. Replacing one sibling but not the other is the
	// single outcome that must never be observable.
	maskImg, err := o.decodeMask(rec)
	if err != nil {
		return 0, 0, fmt.Errorf("mask decode aborted pair: %w", err)
	}

	// AlignSizes: the mask always matches the base's post-resize
	// dimensions.
	maskImg = resizeTo(maskImg, width, height)

	maskData, maskFilter, err := o.encodeMask(maskImg, quality)
	if err != nil {
		return 0, 0, fmt.Errorf("mask encode aborted pair: %w", err)
	}

	if !beneficial(before, len(baseData)+len(maskData)) {
		return 0, 0, ErrNotBeneficial
	}

	score, err := o.qualityGate(original, baseData)
	if err != nil {
		return 0, 0, err
	}

	// A lossy mask faces the same gate as the base: transparency drift is
	// just as visible as color drift. The lossless path round-trips byte
	// for byte and needs no check.
	if !o.config.LosslessMasks {
		maskScore, err := o.qualityGate(maskImg, maskData)
		if err != nil {
			return 0, 0, err
		}
		if maskScore < score {
			score = maskScore
		}
	}

	if err := commitPair(rec, baseData, colorSpace, maskData, maskFilter, width, height); err != nil {
		return 0, 0, err
	}
	return len(baseData) + len(maskData), score, nil
}

// qualityGate scores the re-encoded bytes against the pre-commit buffer.
// It runs before any object is mutated, so a rejection is a true no-op.
func (o *Optimizer) qualityGate(original image.Image, encoded []byte) (float64, error) {
	if !o.caps.SimilarityScoring || o.config.MinSimilarity <= 0 {
		return 0, nil
	}

	roundTrip, err := jpeg.Decode(bytes.NewReader(encoded))
	if err != nil {
		return 0, fmt.Errorf("%w: round-trip decode failed", ErrQualityGate)
	}

	score := Similarity(original, roundTrip)
	if score < o.config.MinSimilarity {
		return 0, fmt.Errorf("%w: %.3f < %.3f", ErrQualityGate, score, o.config.MinSimilarity)
	}
	return score, nil
}

func isGrayBuffer(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

func (o *Optimizer) logf(format string, args ...interface{}) {
	if o.verbose {
		fmt.Printf(format, args...)
	}
}
