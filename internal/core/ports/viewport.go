package ports

import "go.trai.ch/patchwork/internal/core/domain"

// Viewport reports the currently visible screen bounds. The dirty region
// tracker only hands the renderer regions that intersect these bounds.
//
//go:generate mockgen -source=viewport.go -destination=mocks/mock_viewport.go -package=mocks
type Viewport interface {
	VisibleBounds() domain.Region
}
