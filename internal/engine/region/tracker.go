// Package region implements the dirty region tracker: screen rectangles
// pending redraw, merged and filtered to the viewport for the external
// renderer. It is purely a performance signal; its failure mode is
// over-redraw, never incorrect evaluated state.
package region

import (
	"sync"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
)

// Tracker accumulates dirty regions between renderer redraws.
type Tracker struct {
	mu       sync.Mutex
	regions  []domain.DirtyRegion
	viewport ports.Viewport
}

// New creates a Tracker reading visible bounds from the viewport.
func New(viewport ports.Viewport) *Tracker {
	return &Tracker{viewport: viewport}
}

// MarkDirty records a region pending redraw. Overlapping and adjacent
// regions are merged into their bounding union, carrying the higher
// priority, so the list handed to the renderer stays short.
func (t *Tracker) MarkDirty(r domain.DirtyRegion) {
	if r.Empty() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Merging can make the union touch regions it previously missed, so
	// keep folding until nothing merges.
	for {
		merged := false
		for i, existing := range t.regions {
			if !existing.Touches(r.Region) {
				continue
			}
			r.Region = r.Union(existing.Region)
			r.Priority = max(r.Priority, existing.Priority)
			t.regions = append(t.regions[:i], t.regions[i+1:]...)
			merged = true
			break
		}
		if !merged {
			break
		}
	}
	t.regions = append(t.regions, r)
}

// VisibleDirty returns the regions marked dirty since the last clear that
// intersect the current viewport. An empty viewport means everything is
// visible.
func (t *Tracker) VisibleDirty() []domain.DirtyRegion {
	bounds := t.viewport.VisibleBounds()

	t.mu.Lock()
	defer t.mu.Unlock()

	visible := make([]domain.DirtyRegion, 0, len(t.regions))
	for _, r := range t.regions {
		if bounds.Empty() || r.Intersects(bounds) {
			visible = append(visible, r)
		}
	}
	return visible
}

// Clear drops all tracked regions. Called once the renderer has redrawn.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regions = nil
}
