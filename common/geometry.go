package common

import "math"

// Vec3 is a 3-component float vector in world space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum of v and other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns the component-wise difference of v and other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns the component-wise negation of v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// IsFinite reports whether all components are finite numbers.
//
// Returns:
//   - bool: true when no component is NaN or ±Inf
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Box3 is an axis-aligned bounding box. The zero value is an empty box
// (Min > Max on every axis) that any point extends.
type Box3 struct {
	Min, Max Vec3
}

// NewBox3 returns an empty bounding box ready to be extended by points.
//
// Returns:
//   - Box3: a box with Min at +Inf and Max at -Inf on every axis
func NewBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// ExpandByPoint grows the box so it contains the given point.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - Box3: the expanded box
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
	return b
}

// Empty reports whether the box contains no points.
//
// Returns:
//   - bool: true if the box has never been extended
func (b Box3) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the midpoint of the box.
//
// Returns:
//   - Vec3: the box center
func (b Box3) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) * 0.5,
		Y: (b.Min.Y + b.Max.Y) * 0.5,
		Z: (b.Min.Z + b.Max.Z) * 0.5,
	}
}

// Size returns the extent of the box along each axis.
//
// Returns:
//   - Vec3: per-axis dimensions
func (b Box3) Size() Vec3 {
	return Vec3{
		X: b.Max.X - b.Min.X,
		Y: b.Max.Y - b.Min.Y,
		Z: b.Max.Z - b.Min.Z,
	}
}

// MaxDimension returns the largest of the box's three extents.
// Returns 0 for an empty box.
//
// Returns:
//   - float32: the largest axis extent
func (b Box3) MaxDimension() float32 {
	if b.Empty() {
		return 0
	}
	s := b.Size()
	return max(s.X, max(s.Y, s.Z))
}
