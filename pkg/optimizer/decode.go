package optimizer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// decodeResult carries the decoded buffer plus whether it is a lossy
// stand-in for data that could not be recovered.
type decodeResult struct {
	img         image.Image
	placeholder bool
}

// decodeStrategy is one entry in the ordered plan-A/plan-B chain. Each
// strategy either produces a buffer or reports why it could not.
type decodeStrategy struct {
	name string
	fn   func(*ImageRecord) (decodeResult, error)
}

// decodeImage tries the strategies in order and returns the first success.
// A record that defeats every strategy is a DecodeError; the caller skips
// it with the original bytes intact.
func (o *Optimizer) decodeImage(rec *ImageRecord) (decodeResult, error) {
	strategies := []decodeStrategy{
		{"codec", o.decodeViaCodec},
		{"raw", o.decodeRaw},
	}

	var lastErr error
	for _, s := range strategies {
		res, err := s.fn(rec)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return decodeResult{}, fmt.Errorf("%w: %v", ErrDecode, lastErr)
}

// decodeViaCodec handles streams whose payload is itself an image format,
// currently DCTDecode via the JPEG codec.
func (o *Optimizer) decodeViaCodec(rec *ImageRecord) (decodeResult, error) {
	if rec.Filter != "DCTDecode" {
		return decodeResult{}, fmt.Errorf("no codec for filter %q", rec.Filter)
	}
	img, err := jpeg.Decode(bytes.NewReader(rec.sd.Raw))
	if err != nil {
		return decodeResult{}, fmt.Errorf("jpeg decode: %w", err)
	}
	return decodeResult{img: img}, nil
}

// decodeRaw reinterprets the filter-decoded byte stream as a fixed-width
// pixel buffer. Indexed images are refused here: expanding a palette
// without its lookup table would invent colors.
func (o *Optimizer) decodeRaw(rec *ImageRecord) (decodeResult, error) {
	if rec.ColorSpace == ColorSpaceIndexed {
		return decodeResult{}, fmt.Errorf("indexed color space not recompressed")
	}
	if rec.BitsPerComponent != 8 {
		return decodeResult{}, fmt.Errorf("unsupported bits per component %d", rec.BitsPerComponent)
	}

	if err := rec.sd.Decode(); err != nil {
		return decodeResult{}, fmt.Errorf("stream decode: %w", err)
	}

	return reinterpretRaw(rec.sd.Content, rec.Width, rec.Height, rec.Components), nil
}

// reinterpretRaw maps packed samples onto the declared geometry. Longer
// data is truncated (trailing padding is common); shorter data cannot be
// recovered and degrades to a visible stand-in rather than crashing the
// page.
func reinterpretRaw(data []byte, width, height, components int) decodeResult {
	expected := width * height * components
	switch {
	case len(data) >= expected:
		data = data[:expected]
	default:
		return decodeResult{
			img:         grayPlaceholder(width, height),
			placeholder: true,
		}
	}
	return decodeResult{img: rawToImage(data, width, height, components)}
}

// rawToImage builds an image from packed 8-bit samples.
func rawToImage(data []byte, width, height, components int) image.Image {
	switch components {
	case 1:
		img := image.NewGray(image.Rect(0, 0, width, height))
		copy(img.Pix, data)
		return img
	case 4:
		return cmykToRGB(data, width, height)
	default:
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		i := 0
		for p := 0; p < width*height; p++ {
			img.Pix[p*4] = data[i]
			img.Pix[p*4+1] = data[i+1]
			img.Pix[p*4+2] = data[i+2]
			img.Pix[p*4+3] = 255
			i += 3
		}
		return img
	}
}

// cmykToRGB converts packed CMYK samples with the uncalibrated
// per-channel formula. ICC profiles are ignored.
func cmykToRGB(data []byte, width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	i := 0
	for p := 0; p < width*height; p++ {
		c := float64(data[i])
		m := float64(data[i+1])
		y := float64(data[i+2])
		k := float64(data[i+3])

		img.Pix[p*4] = uint8(255 * (1 - c/255) * (1 - k/255))
		img.Pix[p*4+1] = uint8(255 * (1 - m/255) * (1 - k/255))
		img.Pix[p*4+2] = uint8(255 * (1 - y/255) * (1 - k/255))
		img.Pix[p*4+3] = 255
		i += 4
	}
	return img
}

// grayPlaceholder is the neutral stand-in for unrecoverable image data.
func grayPlaceholder(width, height int) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}

// decodeMask obtains the grayscale alpha channel of a soft mask.
func (o *Optimizer) decodeMask(rec *ImageRecord) (image.Image, error) {
	if rec.smask == nil {
		return nil, fmt.Errorf("no soft mask attached")
	}

	maskRec := &ImageRecord{
		Name:             rec.Name + ".smask",
		Components:       1,
		BitsPerComponent: 8,
		ColorSpace:       ColorSpaceGray,
		sd:               rec.smask,
	}
	if w := rec.smask.IntEntry("Width"); w != nil {
		maskRec.Width = *w
	}
	if h := rec.smask.IntEntry("Height"); h != nil {
		maskRec.Height = *h
	}
	if bpc := rec.smask.IntEntry("BitsPerComponent"); bpc != nil {
		maskRec.BitsPerComponent = *bpc
	}
	maskRec.Filter = declaredFilter(nil, rec.smask.Dict)

	if maskRec.Width <= 0 || maskRec.Height <= 0 {
		return nil, fmt.Errorf("soft mask has degenerate dimensions")
	}

	res, err := o.decodeImage(maskRec)
	if err != nil {
		return nil, err
	}
	return res.img, nil
}
