package progress

import (
	"fmt"
	"time"
)

// Tracker reports page-by-page progress for a single sequential run.
type Tracker struct {
	totalPages     int
	completedPages int
	imagesDone     int
	startTime      time.Time
	lastDisplay    time.Time
	displayRate    time.Duration
}

// NewTracker creates a tracker for a document with the given page count.
func NewTracker(totalPages int) *Tracker {
	return &Tracker{
		totalPages:  totalPages,
		startTime:   time.Now(),
		displayRate: 500 * time.Millisecond,
	}
}

// PageDone records a finished page and how many images it processed.
func (t *Tracker) PageDone(pageNr, imagesProcessed int) {
	t.completedPages++
	t.imagesDone += imagesProcessed
}

// Print writes a one-line progress update, rate-limited so fast pages
// don't flood the output.
func (t *Tracker) Print() {
	now := time.Now()
	if now.Sub(t.lastDisplay) < t.displayRate && t.completedPages < t.totalPages {
		return
	}
	t.lastDisplay = now

	pct := 0.0
	if t.totalPages > 0 {
		pct = float64(t.completedPages) / float64(t.totalPages) * 100
	}
	elapsed := now.Sub(t.startTime).Round(time.Second)
	fmt.Printf("  page %d/%d (%.0f%%), %d images optimized, %s elapsed\n",
		t.completedPages, t.totalPages, pct, t.imagesDone, elapsed)
}

// Summary returns the final progress line.
func (t *Tracker) Summary() string {
	return fmt.Sprintf("%d pages, %d images optimized in %s",
		t.completedPages, t.imagesDone, time.Since(t.startTime).Round(time.Millisecond))
}
