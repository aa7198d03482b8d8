package optimizer

import (
	"image"

	"github.com/disintegration/imaging"
)

// backgroundScale is the linear factor for the degradation pass: quarter
// resolution, then back up.
const backgroundScale = 0.25

// resizeForDPI downscales a buffer whose estimated resolution exceeds the
// configured target. Dimensions never drop below one pixel.
func (o *Optimizer) resizeForDPI(img image.Image, estimatedDPI float64) image.Image {
	if estimatedDPI <= float64(o.config.MaxDPI) {
		return img
	}

	scale := float64(o.config.MaxDPI) / estimatedDPI
	bounds := img.Bounds()
	newW := scaled(bounds.Dx(), scale)
	newH := scaled(bounds.Dy(), scale)

	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// degradeBackground scales the buffer down to a quarter of its linear size
// and immediately back up. The round trip destroys detail on purpose:
// backgrounds are decoration, and the blur costs far fewer JPEG bytes.
func degradeBackground(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	smallW := scaled(w, backgroundScale)
	smallH := scaled(h, backgroundScale)

	small := imaging.Resize(img, smallW, smallH, imaging.Lanczos)
	return imaging.Resize(small, w, h, imaging.Lanczos)
}

// resizeTo resamples a buffer to exact target dimensions. Used to keep a
// soft mask aligned with its base image.
func resizeTo(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

func scaled(dim int, factor float64) int {
	n := int(float64(dim) * factor)
	if n < 1 {
		return 1
	}
	return n
}
