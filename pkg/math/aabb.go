package math

// BoundsSentinel seeds an empty AABB so the first extended point wins on every axis.
const BoundsSentinel = 1e38

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a box with inverted sentinel extremes.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{BoundsSentinel, BoundsSentinel, BoundsSentinel},
		Max: Vec3{-BoundsSentinel, -BoundsSentinel, -BoundsSentinel},
	}
}

// Extend returns the box grown to contain p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// IsEmpty reports whether no point has been added.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Corners returns the eight corner points in the order
// (---, --+, -++, -+-, +--, +-+, +++, ++-).
func (b AABB) Corners() [8]Vec3 {
	lo, hi := b.Min, b.Max
	return [8]Vec3{
		{lo.X, lo.Y, lo.Z},
		{lo.X, lo.Y, hi.Z},
		{lo.X, hi.Y, hi.Z},
		{lo.X, hi.Y, lo.Z},
		{hi.X, lo.Y, lo.Z},
		{hi.X, lo.Y, hi.Z},
		{hi.X, hi.Y, hi.Z},
		{hi.X, hi.Y, lo.Z},
	}
}
