package optimizer

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Comparison happens on a bounded grayscale raster so the gate stays cheap
// even for very large images.
const similaritySample = 256

// Similarity scores how close two buffers are on a 0-1 scale. Both are
// resampled to a common grayscale raster and compared with a global
// SSIM-style statistic (luminance, contrast and structure terms).
func Similarity(a, b image.Image) float64 {
	w, h := commonSampleSize(a, b)
	ga := sampleGray(a, w, h)
	gb := sampleGray(b, w, h)
	return ssim(ga, gb)
}

func commonSampleSize(a, b image.Image) (int, int) {
	w := a.Bounds().Dx()
	h := a.Bounds().Dy()
	if bw := b.Bounds().Dx(); bw < w {
		w = bw
	}
	if bh := b.Bounds().Dy(); bh < h {
		h = bh
	}
	if w > similaritySample {
		w = similaritySample
	}
	if h > similaritySample {
		h = similaritySample
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func sampleGray(img image.Image, width, height int) *image.Gray {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	gray := image.NewGray(image.Rect(0, 0, width, height))
	for p := 0; p < width*height; p++ {
		r := float64(rgba.Pix[p*4])
		g := float64(rgba.Pix[p*4+1])
		b := float64(rgba.Pix[p*4+2])
		gray.Pix[p] = uint8(0.299*r + 0.587*g + 0.114*b)
	}
	return gray
}

// ssim computes the structural similarity of two equal-sized grayscale
// rasters over a single global window.
func ssim(a, b *image.Gray) float64 {
	n := float64(len(a.Pix))
	if n == 0 || len(a.Pix) != len(b.Pix) {
		return 0
	}

	var sumA, sumB float64
	for i := range a.Pix {
		sumA += float64(a.Pix[i])
		sumB += float64(b.Pix[i])
	}
	muA := sumA / n
	muB := sumB / n

	var varA, varB, cov float64
	for i := range a.Pix {
		da := float64(a.Pix[i]) - muA
		db := float64(b.Pix[i]) - muB
		varA += da * da
		varB += db * db
		cov += da * db
	}
	varA /= n
	varB /= n
	cov /= n

	const (
		c1 = (0.01 * 255) * (0.01 * 255)
		c2 = (0.03 * 255) * (0.03 * 255)
	)

	s := ((2*muA*muB + c1) * (2*cov + c2)) /
		((muA*muA + muB*muB + c1) * (varA + varB + c2))

	return math.Max(0, math.Min(1, s))
}
