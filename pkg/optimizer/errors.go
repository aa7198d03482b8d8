package optimizer

import "errors"

// Per-image conditions. All of these are caught inside the per-image loop
// and downgraded to a skip or error statistic; they never abort the run.
var (
	// ErrDecode means pixel data could not be obtained by any strategy.
	ErrDecode = errors.New("image data could not be decoded")

	// ErrDataSizeMismatch means the raw byte length disagrees with
	// width*height*components and was too short to truncate.
	ErrDataSizeMismatch = errors.New("raw data shorter than declared dimensions")

	// ErrNotBeneficial means the re-encoded bytes were not meaningfully
	// smaller than the original.
	ErrNotBeneficial = errors.New("re-encoding not beneficial")

	// ErrQualityGate means the similarity score fell below the configured
	// threshold.
	ErrQualityGate = errors.New("similarity below threshold")

	// ErrMaskCommit means base image and mask updates diverged. The
	// commit path rolls the base back, so seeing this error still leaves
	// the pair consistent, but it must be surfaced rather than dropped.
	ErrMaskCommit = errors.New("soft mask commit inconsistency")
)

// Fatal conditions. These abort the whole run before anything is written.
var (
	// ErrPasswordProtected marks encrypted input. Decryption is not
	// supported.
	ErrPasswordProtected = errors.New("input is password protected")
)
