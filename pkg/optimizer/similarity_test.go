package optimizer

import (
	"image"
	"math/rand"
	"strings"
	"testing"
)

func gradientImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*w+x] = uint8((x + y) * 255 / (w + h))
		}
	}
	return img
}

func TestSimilarityIdenticalImages(t *testing.T) {
	img := gradientImage(64, 64)
	if got := Similarity(img, img); got < 0.999 {
		t.Errorf("identical images scored %g, want ~1", got)
	}
}

func TestSimilarityInvertedImages(t *testing.T) {
	a := gradientImage(64, 64)
	b := image.NewGray(a.Bounds())
	for i, v := range a.Pix {
		b.Pix[i] = 255 - v
	}

	if got := Similarity(a, b); got > 0.5 {
		t.Errorf("inverted images scored %g, want well below identical", got)
	}
}

func TestSimilarityNoiseScoresBelowIdentical(t *testing.T) {
	a := gradientImage(64, 64)
	b := image.NewGray(a.Bounds())
	rng := rand.New(rand.NewSource(1))
	for i, v := range a.Pix {
		b.Pix[i] = uint8(int(v) + rng.Intn(81) - 40)
	}

	noisy := Similarity(a, b)
	clean := Similarity(a, a)
	if noisy >= clean {
		t.Errorf("noisy score %g not below clean score %g", noisy, clean)
	}
}

func TestSimilarityHandlesMismatchedSizes(t *testing.T) {
	a := gradientImage(100, 80)
	b := gradientImage(50, 40)

	got := Similarity(a, b)
	if got < 0 || got > 1 {
		t.Fatalf("score %g outside [0,1]", got)
	}
	// Same gradient at different resolutions should still look alike.
	if got < 0.8 {
		t.Errorf("downscaled gradient scored %g, expected high similarity", got)
	}
}

func TestQualityGateRejectsBelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSimilarity = 0.99
	opt := New(cfg, DefaultCapabilities())

	original := gradientImage(64, 64)

	// Encode a flat gray square: structurally nothing like the gradient.
	flat := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range flat.Pix {
		flat.Pix[i] = 128
	}
	encoded, err := encodeJPEG(flat, 90)
	if err != nil {
		t.Fatalf("encodeJPEG() error: %v", err)
	}

	_, err = opt.qualityGate(original, encoded)
	if err == nil {
		t.Fatal("expected quality gate rejection")
	}
	if !strings.Contains(err.Error(), "similarity") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestQualityGateDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSimilarity = 0
	opt := New(cfg, DefaultCapabilities())

	score, err := opt.qualityGate(gradientImage(8, 8), []byte("not a jpeg"))
	if err != nil {
		t.Fatalf("disabled gate must not run: %v", err)
	}
	if score != 0 {
		t.Errorf("disabled gate score = %g, want 0", score)
	}
}
