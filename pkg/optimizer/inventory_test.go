package optimizer

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestEstimateDPI(t *testing.T) {
	tests := []struct {
		name         string
		widthPx      int
		heightPx     int
		pageW, pageH float64
		want         float64
	}{
		{"letter page 300dpi", 2550, 3300, 612, 792, 300},
		{"square image wide page", 1000, 1000, 720, 720, 100},
		{"degenerate page falls back", 1000, 1000, 0, 0, 72},
	}

	for _, tt := range tests {
		got := estimateDPI(tt.widthPx, tt.heightPx, tt.pageW, tt.pageH)
		if got < tt.want-0.5 || got > tt.want+0.5 {
			t.Errorf("%s: estimateDPI() = %g, want %g", tt.name, got, tt.want)
		}
	}
}

func TestBackgroundClassification(t *testing.T) {
	opt := New(DefaultConfig(), DefaultCapabilities())
	page := &Page{Number: 1, WidthPts: 612, HeightPts: 792}

	tests := []struct {
		name   string
		width  int
		height int
		stream int
		want   bool
	}{
		{"small photo", 200, 200, 50_000, false},
		{"huge stream", 200, 200, 2 << 20, true},
		{"full page coverage", 612, 792, 50_000, true},
		{"covers width only", 612, 100, 50_000, false},
		{"just below coverage", 480, 620, 50_000, false},
	}

	for _, tt := range tests {
		rec := &ImageRecord{Width: tt.width, Height: tt.height, StreamLength: tt.stream}
		if got := opt.isBackground(rec, page); got != tt.want {
			t.Errorf("%s: isBackground() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBackgroundClassificationIsDeterministic(t *testing.T) {
	opt := New(DefaultConfig(), DefaultCapabilities())
	page := &Page{Number: 1, WidthPts: 612, HeightPts: 792}

	a := &ImageRecord{Width: 612, Height: 792, StreamLength: 123}
	b := &ImageRecord{Width: 612, Height: 792, StreamLength: 123}

	for i := 0; i < 10; i++ {
		if opt.isBackground(a, page) != opt.isBackground(b, page) {
			t.Fatal("identical geometry and config must yield the same verdict")
		}
	}
}

func TestAnalyzeColorSpace(t *testing.T) {
	tests := []struct {
		name      string
		dict      types.Dict
		wantKind  ColorSpaceKind
		wantComps int
	}{
		{"rgb", types.Dict{"ColorSpace": types.Name("DeviceRGB")}, ColorSpaceRGB, 3},
		{"cmyk", types.Dict{"ColorSpace": types.Name("DeviceCMYK")}, ColorSpaceCMYK, 4},
		{"gray", types.Dict{"ColorSpace": types.Name("DeviceGray")}, ColorSpaceGray, 1},
		{"calgray", types.Dict{"ColorSpace": types.Array{types.Name("CalGray"), types.Dict{}}}, ColorSpaceGray, 1},
		{"indexed", types.Dict{"ColorSpace": types.Array{types.Name("Indexed"), types.Name("DeviceRGB"), types.Integer(255)}}, ColorSpaceIndexed, 1},
		{"missing defaults to 3 components", types.Dict{}, ColorSpaceUnknown, 3},
		{"garbage defaults to 3 components", types.Dict{"ColorSpace": types.Integer(7)}, ColorSpaceUnknown, 3},
	}

	for _, tt := range tests {
		kind, comps := analyzeColorSpace(nil, tt.dict)
		if kind != tt.wantKind || comps != tt.wantComps {
			t.Errorf("%s: analyzeColorSpace() = (%v, %d), want (%v, %d)",
				tt.name, kind, comps, tt.wantKind, tt.wantComps)
		}
	}
}

func TestDeclaredFilter(t *testing.T) {
	tests := []struct {
		name string
		dict types.Dict
		want string
	}{
		{"single name", types.Dict{"Filter": types.Name("DCTDecode")}, "DCTDecode"},
		{"chain reports last", types.Dict{"Filter": types.Array{types.Name("ASCII85Decode"), types.Name("FlateDecode")}}, "FlateDecode"},
		{"none", types.Dict{}, ""},
	}

	for _, tt := range tests {
		if got := declaredFilter(nil, tt.dict); got != tt.want {
			t.Errorf("%s: declaredFilter() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
