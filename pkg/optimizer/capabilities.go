package optimizer

// Capabilities enumerates which optional behaviors are active for a run.
// It is decided once at construction; nothing probes for features per
// image.
type Capabilities struct {
	// MaskPreservingWrite selects the commit path that rewrites base
	// image and soft mask together. When false, images carrying a soft
	// mask are left untouched rather than risking a dangling mask
	// reference.
	MaskPreservingWrite bool

	// SimilarityScoring enables the pre-commit quality gate.
	SimilarityScoring bool
}

// DefaultCapabilities returns the full capability set.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		MaskPreservingWrite: true,
		SimilarityScoring:   true,
	}
}
