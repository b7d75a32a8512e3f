package domain

// Region is a screen-space rectangle. The zero value is the empty region.
type Region struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the region covers no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether two regions overlap.
func (r Region) Intersects(o Region) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Touches reports whether two regions overlap or share a boundary.
// Adjacent regions are merged by the dirty region tracker to keep the
// redraw list short.
func (r Region) Touches(o Region) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// Union returns the bounding rectangle of both regions.
func (r Region) Union(o Region) Region {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	x2 := max(r.X+r.Width, o.X+o.Width)
	y2 := max(r.Y+r.Height, o.Y+o.Height)
	return Region{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// DirtyRegion is a region pending redraw, with a render priority.
// Higher priority regions should be redrawn first.
type DirtyRegion struct {
	Region
	Priority int
}
