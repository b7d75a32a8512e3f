// Package viewport provides the viewport adapter: the screen bounds the
// renderer currently shows, used to filter dirty regions.
package viewport

import (
	"sync"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
)

// Static is a viewport with explicitly set bounds. The editor updates it on
// pan and zoom; an empty bounds means everything is visible.
type Static struct {
	mu     sync.RWMutex
	bounds domain.Region
}

var _ ports.Viewport = (*Static)(nil)

// NewStatic creates a viewport with the given initial bounds.
func NewStatic(bounds domain.Region) *Static {
	return &Static{bounds: bounds}
}

// VisibleBounds returns the current visible screen bounds.
func (s *Static) VisibleBounds() domain.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// SetBounds updates the visible screen bounds.
func (s *Static) SetBounds(bounds domain.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = bounds
}
