package optimizer

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// notBeneficialMargin: a re-encode must shave at least this fraction off
// the original stream to be worth committing.
const notBeneficialMargin = 0.05

// encodeJPEG serializes a buffer to JPEG bytes at the given quality.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeMask produces the replacement mask stream: JPEG grayscale by
// default, or raw samples behind zlib when lossless preservation is
// requested.
func (o *Optimizer) encodeMask(img image.Image, quality int) (data []byte, filter string, err error) {
	gray := toGray(img)

	if o.config.LosslessMasks {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(gray.Pix); err != nil {
			zw.Close()
			return nil, "", fmt.Errorf("flate encode: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, "", fmt.Errorf("flate encode: %w", err)
		}
		return buf.Bytes(), "FlateDecode", nil
	}

	data, err = encodeJPEG(gray, quality)
	if err != nil {
		return nil, "", err
	}
	return data, "DCTDecode", nil
}

// toGray collapses any buffer to single-channel 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	nrgba := imaging.Grayscale(img)
	for p := 0; p < bounds.Dx()*bounds.Dy(); p++ {
		gray.Pix[p] = nrgba.Pix[p*4]
	}
	return gray
}

// beneficial reports whether the new bytes are meaningfully smaller than
// the original stream.
func beneficial(originalLen, newLen int) bool {
	return float64(newLen) <= float64(originalLen)*(1-notBeneficialMargin)
}
