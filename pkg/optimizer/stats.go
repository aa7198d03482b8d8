package optimizer

// Stats accumulates per-run counters. Mutated additively while the run
// progresses, read once at the end for the summary.
type Stats struct {
	Processed int
	Skipped   int
	Errors    int

	BytesBefore int64
	BytesAfter  int64

	SimilarityScores []float64
}

// BytesSaved returns the cumulative reduction across all processed images.
func (s *Stats) BytesSaved() int64 {
	return s.BytesBefore - s.BytesAfter
}

// ReductionPercent returns the size reduction as a percentage of the
// original image bytes, or 0 when nothing was measured.
func (s *Stats) ReductionPercent() float64 {
	if s.BytesBefore == 0 {
		return 0
	}
	return float64(s.BytesSaved()) / float64(s.BytesBefore) * 100
}

// MeanSimilarity returns the average of the collected similarity scores,
// or 1 when the gate never ran.
func (s *Stats) MeanSimilarity() float64 {
	if len(s.SimilarityScores) == 0 {
		return 1
	}
	var sum float64
	for _, v := range s.SimilarityScores {
		sum += v
	}
	return sum / float64(len(s.SimilarityScores))
}

// add merges page-level counters into the run totals.
func (s *Stats) add(other Stats) {
	s.Processed += other.Processed
	s.Skipped += other.Skipped
	s.Errors += other.Errors
	s.BytesBefore += other.BytesBefore
	s.BytesAfter += other.BytesAfter
	s.SimilarityScores = append(s.SimilarityScores, other.SimilarityScores...)
}
