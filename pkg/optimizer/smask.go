package optimizer

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Base image and soft mask are sibling objects that must be updated
// together or not at all. A half-updated pair leaves the PDF with a
// dangling or mismatched transparency reference, which is exactly the
// breakage this tool exists to avoid. The commit therefore snapshots the
// base object first and restores it if the mask write fails.

// streamSnapshot captures every field the commit touches.
type streamSnapshot struct {
	dict           types.Dict
	raw            []byte
	content        []byte
	filterPipeline []types.PDFFilter
	streamLength   *int64
}

func snapshotStream(sd *types.StreamDict) streamSnapshot {
	dict := types.Dict{}
	for k, v := range sd.Dict {
		dict[k] = v
	}
	return streamSnapshot{
		dict:           dict,
		raw:            sd.Raw,
		content:        sd.Content,
		filterPipeline: sd.FilterPipeline,
		streamLength:   sd.StreamLength,
	}
}

func restoreStream(sd *types.StreamDict, snap streamSnapshot) {
	for k := range sd.Dict {
		delete(sd.Dict, k)
	}
	for k, v := range snap.dict {
		sd.Dict[k] = v
	}
	sd.Raw = snap.raw
	sd.Content = snap.content
	sd.FilterPipeline = snap.filterPipeline
	sd.StreamLength = snap.streamLength
}

// writeImageStream replaces the stream payload and the metadata that must
// stay in sync with it.
func writeImageStream(sd *types.StreamDict, data []byte, filter, colorSpace string, width, height int) error {
	if sd == nil || sd.Dict == nil {
		return fmt.Errorf("stream object not writable")
	}

	sd.Raw = data
	sd.Content = nil
	sd.FilterPipeline = []types.PDFFilter{{Name: filter}}
	length := int64(len(data))
	sd.StreamLength = &length

	sd.Dict["Length"] = types.Integer(len(data))
	sd.Dict["Filter"] = types.Name(filter)
	sd.Dict["Width"] = types.Integer(width)
	sd.Dict["Height"] = types.Integer(height)
	sd.Dict["ColorSpace"] = types.Name(colorSpace)
	sd.Dict["BitsPerComponent"] = types.Integer(8)
	delete(sd.Dict, "DecodeParms")
	delete(sd.Dict, "Decode")

	return nil
}

// commitBase rewrites the base image object only.
func commitBase(rec *ImageRecord, data []byte, colorSpace string, width, height int) error {
	return writeImageStream(rec.sd, data, "DCTDecode", colorSpace, width, height)
}

// commitPair applies base and mask updates all-or-nothing. On a mask
// failure the base is rolled back to its prior bytes, so the caller never
// observes a pair that disagrees.
func commitPair(rec *ImageRecord, baseData []byte, baseColorSpace string, maskData []byte, maskFilter string, width, height int) error {
	baseSnap := snapshotStream(rec.sd)

	if err := writeImageStream(rec.sd, baseData, "DCTDecode", baseColorSpace, width, height); err != nil {
		return err
	}

	if err := writeImageStream(rec.smask, maskData, maskFilter, "DeviceGray", width, height); err != nil {
		restoreStream(rec.sd, baseSnap)
		return fmt.Errorf("%w: %v", ErrMaskCommit, err)
	}

	// The base keeps its existing /SMask reference; the mask object was
	// rewritten in place, so the reference resolves to the new bytes.
	if _, found := rec.sd.Dict.Find("SMask"); !found {
		restoreStream(rec.sd, baseSnap)
		return fmt.Errorf("%w: base lost its soft mask reference", ErrMaskCommit)
	}

	return nil
}
