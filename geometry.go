package locus

// Point is an immutable location in the 2D Cartesian plane.
type Point struct {
	X float64
	Y float64
}

// NewPoint returns the point with the given coordinates.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// DistanceTo returns the squared Euclidean distance between two points.
//
// Distances stay squared throughout the library: heap keys, pruning
// thresholds and ball radii all compare in the same monotone form, so no
// square root is ever taken.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Box is an immutable axis-aligned rectangle described by its coordinate
// bounds. Degenerate boxes (zero width and/or height) are legal.
type Box struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// NewBox returns the box with the given coordinate bounds.
func NewBox(minX, maxX, minY, maxY float64) Box {
	return Box{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

// Valid reports whether the box's max bounds are not below its min bounds.
func (b Box) Valid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// axisDistance returns the distance from v to the interval [min, max],
// zero when v lies inside it.
func axisDistance(v, min, max float64) float64 {
	if v < min {
		return min - v
	}
	if v > max {
		return v - max
	}
	return 0
}

// DistanceToPoint returns the squared Euclidean distance from p to the
// closest point of the box. It is zero iff p lies inside the box, and equals
// p.DistanceTo(q) for the box point q nearest to p.
func (b Box) DistanceToPoint(p Point) float64 {
	dx := axisDistance(p.X, b.MinX, b.MaxX)
	dy := axisDistance(p.Y, b.MinY, b.MaxY)
	return dx*dx + dy*dy
}

// Contains reports whether other lies entirely inside the box, edges
// inclusive.
func (b Box) Contains(other Box) bool {
	return b.MinX <= other.MinX && other.MaxX <= b.MaxX &&
		b.MinY <= other.MinY && other.MaxY <= b.MaxY
}

// Intersects reports whether the two boxes share at least one point, edges
// inclusive.
func (b Box) Intersects(other Box) bool {
	return b.MinX <= other.MaxX && other.MinX <= b.MaxX &&
		b.MinY <= other.MaxY && other.MinY <= b.MaxY
}

// ContainsPoint reports whether p lies inside the box, edges inclusive.
func (b Box) ContainsPoint(p Point) bool {
	return b.MinX <= p.X && p.X <= b.MaxX && b.MinY <= p.Y && p.Y <= b.MaxY
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	u := b
	if other.MinX < u.MinX {
		u.MinX = other.MinX
	}
	if other.MaxX > u.MaxX {
		u.MaxX = other.MaxX
	}
	if other.MinY < u.MinY {
		u.MinY = other.MinY
	}
	if other.MaxY > u.MaxY {
		u.MaxY = other.MaxY
	}
	return u
}
