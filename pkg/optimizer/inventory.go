package optimizer

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ColorSpaceKind is the coarse color classification used to pick a decode
// strategy.
type ColorSpaceKind int

const (
	ColorSpaceUnknown ColorSpaceKind = iota
	ColorSpaceRGB
	ColorSpaceCMYK
	ColorSpaceGray
	ColorSpaceIndexed
)

func (k ColorSpaceKind) String() string {
	switch k {
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceCMYK:
		return "CMYK"
	case ColorSpaceGray:
		return "Gray"
	case ColorSpaceIndexed:
		return "Indexed"
	}
	return "Unknown"
}

// ImageRecord describes one embedded raster image. Records are built fresh
// for every run and discarded afterwards; only the underlying PDF object
// persists.
type ImageRecord struct {
	Name             string
	Width            int
	Height           int
	ColorSpace       ColorSpaceKind
	Components       int
	BitsPerComponent int
	Filter           string
	StreamLength     int
	HasSoftMask      bool

	EstimatedDPI float64
	Background   bool

	sd    *types.StreamDict
	smask *types.StreamDict
}

// Inventory enumerates the page's image XObjects. A single malformed image
// never blocks the rest: attribute read failures fall back to documented
// defaults, and only degenerate or sub-threshold images are excluded.
func (o *Optimizer) Inventory(doc *Document, page *Page) []*ImageRecord {
	var records []*ImageRecord

	for _, name := range page.ImageNames() {
		sd, err := page.imageStream(name)
		if err != nil || sd == nil {
			continue
		}

		rec := o.readImageRecord(doc, name, sd)

		// Degenerate dimensions exclude the record entirely; it does not
		// appear in the statistics at all.
		if rec.Width <= 0 || rec.Height <= 0 {
			continue
		}
		if o.config.SkipSmallImages && min(rec.Width, rec.Height) < o.config.MinImageSize {
			continue
		}
		if rec.StreamLength < o.config.MinStreamBytes {
			continue
		}

		rec.EstimatedDPI = estimateDPI(rec.Width, rec.Height, page.WidthPts, page.HeightPts)
		rec.Background = o.isBackground(rec, page)

		records = append(records, rec)
	}

	return records
}

// readImageRecord pulls the intrinsic attributes out of the stream dict.
// Every read has a default so one bad entry degrades instead of aborting.
func (o *Optimizer) readImageRecord(doc *Document, name string, sd *types.StreamDict) *ImageRecord {
	rec := &ImageRecord{
		Name:             name,
		Components:       3,
		BitsPerComponent: 8,
		sd:               sd,
	}

	if w := sd.IntEntry("Width"); w != nil {
		rec.Width = *w
	}
	if h := sd.IntEntry("Height"); h != nil {
		rec.Height = *h
	}
	if bpc := sd.IntEntry("BitsPerComponent"); bpc != nil {
		rec.BitsPerComponent = *bpc
	}

	rec.StreamLength = len(sd.Raw)
	if rec.StreamLength == 0 {
		if l := sd.IntEntry("Length"); l != nil {
			rec.StreamLength = *l
		}
	}

	rec.Filter = declaredFilter(doc, sd.Dict)
	rec.ColorSpace, rec.Components = analyzeColorSpace(doc, sd.Dict)

	if smaskObj, found := sd.Dict.Find("SMask"); found {
		if msd, err := doc.streamDict(smaskObj); err == nil && msd != nil {
			rec.HasSoftMask = true
			rec.smask = msd
		}
	}

	return rec
}

// declaredFilter returns the outermost stream filter tag, or "" when none
// is declared. Filter chains report the last entry, which is the one that
// determines the payload format.
func declaredFilter(doc *Document, d types.Dict) string {
	o, found := d.Find("Filter")
	if !found {
		return ""
	}
	if doc != nil {
		if resolved, err := doc.dereference(o); err == nil {
			o = resolved
		}
	}
	switch f := o.(type) {
	case types.Name:
		return string(f)
	case types.Array:
		if len(f) > 0 {
			if n, ok := f[len(f)-1].(types.Name); ok {
				return string(n)
			}
		}
	}
	return ""
}

// analyzeColorSpace classifies the /ColorSpace entry. Unknown shapes
// default to RGB-like with 3 components, matching the decode default.
func analyzeColorSpace(doc *Document, d types.Dict) (ColorSpaceKind, int) {
	o, found := d.Find("ColorSpace")
	if !found {
		return ColorSpaceUnknown, 3
	}
	if doc != nil {
		if resolved, err := doc.dereference(o); err == nil {
			o = resolved
		}
	}

	switch cs := o.(type) {
	case types.Name:
		switch string(cs) {
		case "DeviceRGB":
			return ColorSpaceRGB, 3
		case "DeviceCMYK":
			return ColorSpaceCMYK, 4
		case "DeviceGray":
			return ColorSpaceGray, 1
		}
		return ColorSpaceUnknown, 3

	case types.Array:
		if len(cs) == 0 {
			return ColorSpaceUnknown, 3
		}
		family, ok := cs[0].(types.Name)
		if !ok {
			return ColorSpaceUnknown, 3
		}
		switch string(family) {
		case "ICCBased":
			if doc != nil && len(cs) > 1 {
				if sd, err := doc.streamDict(cs[1]); err == nil && sd != nil {
					if n := sd.IntEntry("N"); n != nil {
						switch *n {
						case 4:
							return ColorSpaceCMYK, 4
						case 1:
							return ColorSpaceGray, 1
						}
					}
				}
			}
			return ColorSpaceRGB, 3
		case "CalRGB":
			return ColorSpaceRGB, 3
		case "CalGray":
			return ColorSpaceGray, 1
		case "Indexed":
			return ColorSpaceIndexed, 1
		}
	}

	return ColorSpaceUnknown, 3
}

// isBackground applies the background heuristic: a very large stream, or
// pixel coverage of most of the page in both dimensions.
func (o *Optimizer) isBackground(rec *ImageRecord, page *Page) bool {
	if rec.StreamLength > o.config.BackgroundByteThreshold {
		return true
	}

	// At the 72 DPI reference, page points equal pixels.
	return float64(rec.Width) >= page.WidthPts*o.config.BackgroundAreaFraction &&
		float64(rec.Height) >= page.HeightPts*o.config.BackgroundAreaFraction
}

// estimateDPI derives the effective resolution from the page dimensions,
// assuming the image is displayed at page size. Falls back to 72 when the
// page geometry is unusable.
func estimateDPI(widthPx, heightPx int, pageWidthPts, pageHeightPts float64) float64 {
	widthIn := pageWidthPts / 72
	heightIn := pageHeightPts / 72
	if widthIn <= 0 || heightIn <= 0 {
		return 72
	}
	dpiX := float64(widthPx) / widthIn
	dpiY := float64(heightPx) / heightIn
	if dpiY > dpiX {
		return dpiY
	}
	return dpiX
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
