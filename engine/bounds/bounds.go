// Package bounds provides the intersection and containment predicates the
// octree and culler traverse against: AABB, sphere, oriented box, cylinder,
// spherical sector, convex hull (plane list), and frustum. Every test here
// is conservative — false positives (reporting an intersection that isn't
// really there) are acceptable, false negatives are not. Culling code relies
// on that guarantee to prune subtrees without risking dropped geometry.
package bounds

import "github.com/go-gl/mathgl/mgl32"

// Plane is a half-space boundary: points p with Normal.Dot(p)+Distance >= 0
// are on the inside. Frustum, near-clip-volume, and shadow-caster-volume
// hulls are all expressed as slices of Plane.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Side returns the signed distance from p to the plane.
func (pl Plane) Side(p mgl32.Vec3) float32 {
	return pl.Normal.Dot(p) + pl.Distance
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Center returns the AABB's center point.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtent returns the AABB's half-size along each axis.
func (b AABB) HalfExtent() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Union returns the smallest AABB enclosing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min(b.Min[0], o.Min[0]), min(b.Min[1], o.Min[1]), min(b.Min[2], o.Min[2])},
		Max: mgl32.Vec3{max(b.Max[0], o.Max[0]), max(b.Max[1], o.Max[1]), max(b.Max[2], o.Max[2])},
	}
}

// BoundingSphere returns the sphere centered on the AABB's center with a
// radius that conservatively encloses all eight corners.
func (b AABB) BoundingSphere() Sphere {
	c := b.Center()
	return Sphere{Center: c, Radius: b.Max.Sub(c).Len()}
}

// Octant carves the AABB into one of its eight children, selecting the
// {0.25, 0.75} fractional offset along each axis that the strict-regular
// FastOctree variant uses to reconstruct child bounds without storing them.
func (b AABB) Octant(bit uint8) AABB {
	half := b.HalfExtent()
	c := b.Center()
	var childCenter mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		frac := float32(0.25)
		if bit&(1<<uint(axis)) != 0 {
			frac = 0.75
		}
		childCenter[axis] = b.Min[axis] + 2*half[axis]*frac
	}
	childHalf := half.Mul(0.5)
	_ = c
	return AABB{Min: childCenter.Sub(childHalf), Max: childCenter.Add(childHalf)}
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Cylinder is a capped cylinder aligned along Axis (normalized), extending
// HalfHeight in each direction from Center.
type Cylinder struct {
	Center     mgl32.Vec3
	Axis       mgl32.Vec3
	Radius     float32
	HalfHeight float32
}

// SphericalSector is a cone-capped-by-sphere volume: the intersection of a
// sphere of Radius centered at Apex and a cone of half-angle
// acos(CosHalfAngle) opening along Axis from Apex. Used for the spotlight
// light volume (spec §4.4): derived from the spotlight's attenuation range
// and the angular-attenuation cutoff.
type SphericalSector struct {
	Apex         mgl32.Vec3
	Axis         mgl32.Vec3
	Radius       float32
	CosHalfAngle float32
}

// Hull is a convex region described as the intersection of half-spaces.
// The near-clip volume and shadow-caster volume (spec Glossary) are both
// hulls: the convex combination of the view frustum's near rectangle (or
// full frustum) with the light position.
type Hull struct {
	Planes []Plane
}

// Verdict is the three-valued containment result BoundsQuery callers use
// to short-circuit octree recursion: CompletelyOutside prunes the whole
// subtree, CompletelyInside lets every descendant skip its own boundary
// test, PartiallyInside means children must still be tested individually.
type Verdict int

const (
	CompletelyOutside Verdict = iota
	PartiallyInside
	CompletelyInside
)

func (v Verdict) String() string {
	switch v {
	case CompletelyOutside:
		return "CompletelyOutside"
	case CompletelyInside:
		return "CompletelyInside"
	default:
		return "PartiallyInside"
	}
}

// Inside reports whether the verdict admits any part of the tested volume
// as visible (i.e. is not CompletelyOutside).
func (v Verdict) Inside() bool {
	return v != CompletelyOutside
}
