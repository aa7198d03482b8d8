package optimizer

import (
	"image"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestReinterpretRawExactFit(t *testing.T) {
	data := make([]byte, 4*4*3)
	for i := range data {
		data[i] = byte(i)
	}

	res := reinterpretRaw(data, 4, 4, 3)
	if res.placeholder {
		t.Fatal("exact-fit data must not produce a placeholder")
	}
	if b := res.img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("unexpected dimensions %dx%d", b.Dx(), b.Dy())
	}
}

func TestReinterpretRawTruncatesLongerData(t *testing.T) {
	data := make([]byte, 4*4*3+17) // trailing padding

	res := reinterpretRaw(data, 4, 4, 3)
	if res.placeholder {
		t.Fatal("longer data should be truncated, not replaced")
	}
}

func TestReinterpretRawShortDataYieldsPlaceholder(t *testing.T) {
	// Too short for any plausible component count (1, 3 or 4).
	data := make([]byte, 7)

	for _, comps := range []int{1, 3, 4} {
		res := reinterpretRaw(data, 16, 16, comps)
		if !res.placeholder {
			t.Errorf("components=%d: want placeholder for short data", comps)
		}
		if b := res.img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Errorf("components=%d: placeholder must keep declared dimensions, got %dx%d",
				comps, b.Dx(), b.Dy())
		}
	}
}

func TestRawToImageGray(t *testing.T) {
	data := []byte{0, 64, 128, 255}
	img := rawToImage(data, 2, 2, 1)

	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", img)
	}
	for i, want := range data {
		if gray.Pix[i] != want {
			t.Errorf("pixel %d = %d, want %d", i, gray.Pix[i], want)
		}
	}
}

func TestRawToImageRGB(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50, 60}
	img := rawToImage(data, 2, 1, 3)

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected *image.NRGBA, got %T", img)
	}
	if nrgba.Pix[0] != 10 || nrgba.Pix[1] != 20 || nrgba.Pix[2] != 30 || nrgba.Pix[3] != 255 {
		t.Errorf("first pixel = %v", nrgba.Pix[:4])
	}
	if nrgba.Pix[4] != 40 || nrgba.Pix[5] != 50 || nrgba.Pix[6] != 60 || nrgba.Pix[7] != 255 {
		t.Errorf("second pixel = %v", nrgba.Pix[4:8])
	}
}

func TestCMYKToRGBFormula(t *testing.T) {
	tests := []struct {
		name       string
		c, m, y, k byte
		r, g, b    byte
	}{
		{"white", 0, 0, 0, 0, 255, 255, 255},
		{"black via k", 0, 0, 0, 255, 0, 0, 0},
		{"pure cyan", 255, 0, 0, 0, 0, 255, 255},
		{"half k", 0, 0, 0, 128, 127, 127, 127},
	}

	for _, tt := range tests {
		img := cmykToRGB([]byte{tt.c, tt.m, tt.y, tt.k}, 1, 1)
		nrgba := img.(*image.NRGBA)
		if nrgba.Pix[0] != tt.r || nrgba.Pix[1] != tt.g || nrgba.Pix[2] != tt.b {
			t.Errorf("%s: got (%d,%d,%d), want (%d,%d,%d)", tt.name,
				nrgba.Pix[0], nrgba.Pix[1], nrgba.Pix[2], tt.r, tt.g, tt.b)
		}
	}
}

// A mask may declare its filter as a one-element array; the codec path
// must still recognize it.
func TestDecodeMaskFilterArray(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range mask.Pix {
		mask.Pix[i] = byte(i)
	}
	data, err := encodeJPEG(mask, 90)
	if err != nil {
		t.Fatalf("encodeJPEG() error: %v", err)
	}

	rec := &ImageRecord{Name: "Im1", HasSoftMask: true}
	rec.smask = imageStreamDict(32, 32, data, types.Dict{
		"ColorSpace": types.Name("DeviceGray"),
		"Filter":     types.Array{types.Name("DCTDecode")},
	})

	opt := New(DefaultConfig(), DefaultCapabilities())
	img, err := opt.decodeMask(rec)
	if err != nil {
		t.Fatalf("decodeMask() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("decoded mask is %dx%d, want 32x32", b.Dx(), b.Dy())
	}
}

func TestGrayPlaceholderIsNeutral(t *testing.T) {
	img := grayPlaceholder(3, 3)
	gray := img.(*image.Gray)
	for i, v := range gray.Pix {
		if v != 128 {
			t.Fatalf("pixel %d = %d, want neutral 128", i, v)
		}
	}
}
