package optimizer

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
)

// ExtractedImage describes one image written to disk.
type ExtractedImage struct {
	Page int
	Name string
	Path string
}

// ExtractImages decodes every image XObject and writes it to outputDir in
// the requested format ("jpeg", "png" or "webp"). Images that defeat every
// decode strategy are reported and skipped.
func (o *Optimizer) ExtractImages(input, outputDir, format string) ([]ExtractedImage, error) {
	doc, err := OpenDocument(input)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var extracted []ExtractedImage
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		page, err := doc.Page(pageNr)
		if err != nil {
			continue
		}

		for _, rec := range o.Inventory(doc, page) {
			decoded, err := o.decodeImage(rec)
			if err != nil || decoded.placeholder {
				o.logf("  page %d %s: not extractable\n", pageNr, rec.Name)
				continue
			}

			name := fmt.Sprintf("page%03d_%s.%s", pageNr, rec.Name, extension(format))
			path := filepath.Join(outputDir, name)
			if err := writeImageFile(path, format, decoded, o.config.JPEGQuality); err != nil {
				o.logf("  page %d %s: %v\n", pageNr, rec.Name, err)
				continue
			}

			extracted = append(extracted, ExtractedImage{Page: pageNr, Name: rec.Name, Path: path})
		}
	}
	return extracted, nil
}

func extension(format string) string {
	switch format {
	case "png":
		return "png"
	case "webp":
		return "webp"
	default:
		return "jpg"
	}
}

func writeImageFile(path, format string, decoded decodeResult, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch format {
	case "png":
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(f, decoded.img)
	case "webp":
		return webp.Encode(f, decoded.img, &webp.Options{Lossless: false, Quality: float32(quality)})
	default:
		data, err := encodeJPEG(decoded.img, quality)
		if err != nil {
			return err
		}
		_, err = f.Write(data)
		return err
	}
}
