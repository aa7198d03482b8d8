package optimizer

import "testing"

func TestStatsReduction(t *testing.T) {
	s := &Stats{BytesBefore: 1000, BytesAfter: 250}

	if got := s.BytesSaved(); got != 750 {
		t.Errorf("BytesSaved() = %d, want 750", got)
	}
	if got := s.ReductionPercent(); got != 75 {
		t.Errorf("ReductionPercent() = %g, want 75", got)
	}
}

func TestStatsEmptyReduction(t *testing.T) {
	s := &Stats{}
	if got := s.ReductionPercent(); got != 0 {
		t.Errorf("ReductionPercent() on empty stats = %g, want 0", got)
	}
	if got := s.MeanSimilarity(); got != 1 {
		t.Errorf("MeanSimilarity() with no scores = %g, want 1", got)
	}
}

func TestStatsAdd(t *testing.T) {
	total := &Stats{}
	total.add(Stats{Processed: 2, Skipped: 1, BytesBefore: 100, BytesAfter: 60, SimilarityScores: []float64{0.9}})
	total.add(Stats{Processed: 1, Errors: 1, BytesBefore: 50, BytesAfter: 50, SimilarityScores: []float64{0.8}})

	if total.Processed != 3 || total.Skipped != 1 || total.Errors != 1 {
		t.Errorf("counters = %d/%d/%d, want 3/1/1", total.Processed, total.Skipped, total.Errors)
	}
	if total.BytesBefore != 150 || total.BytesAfter != 110 {
		t.Errorf("bytes = %d/%d, want 150/110", total.BytesBefore, total.BytesAfter)
	}
	if len(total.SimilarityScores) != 2 {
		t.Errorf("scores = %d entries, want 2", len(total.SimilarityScores))
	}
}
