package bounds

import "github.com/go-gl/mathgl/mgl32"

// SpheresIntersect reports whether two spheres overlap.
func SpheresIntersect(a, b Sphere) bool {
	r := a.Radius + b.Radius
	return a.Center.Sub(b.Center).LenSqr() <= r*r
}

// SphereIntersectsAABB reports whether a sphere overlaps an AABB, using the
// closest-point-on-box distance check.
func SphereIntersectsAABB(s Sphere, b AABB) bool {
	closest := mgl32.Vec3{
		clamp(s.Center[0], b.Min[0], b.Max[0]),
		clamp(s.Center[1], b.Min[1], b.Max[1]),
		clamp(s.Center[2], b.Min[2], b.Max[2]),
	}
	return closest.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// AABBsIntersect reports whether two AABBs overlap.
func AABBsIntersect(a, b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// AABBContainsAABB reports whether outer fully encloses inner.
func AABBContainsAABB(outer, inner AABB) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Max[0] >= inner.Max[0] &&
		outer.Min[1] <= inner.Min[1] && outer.Max[1] >= inner.Max[1] &&
		outer.Min[2] <= inner.Min[2] && outer.Max[2] >= inner.Max[2]
}

// SphereIntersectsCylinder reports whether a sphere overlaps a capped
// cylinder, via closest-point-on-segment followed by a radial check.
func SphereIntersectsCylinder(s Sphere, c Cylinder) bool {
	toCenter := s.Center.Sub(c.Center)
	axialDist := toCenter.Dot(c.Axis)
	if axialDist > c.HalfHeight+s.Radius || axialDist < -c.HalfHeight-s.Radius {
		return false
	}
	radial := toCenter.Sub(c.Axis.Mul(axialDist))
	r := c.Radius + s.Radius
	return radial.LenSqr() <= r*r
}

// AABBIntersectsCylinder reports whether an AABB overlaps a capped cylinder.
// Conservative: tests the AABB's bounding sphere against an expanded
// cylinder (radius + sphere radius), which over-reports but never
// under-reports overlap.
func AABBIntersectsCylinder(b AABB, c Cylinder) bool {
	s := b.BoundingSphere()
	return SphereIntersectsCylinder(s, c)
}

// SphereIntersectsSector reports whether a sphere overlaps a spherical
// sector (the spotlight light volume). Conservative: true whenever the
// sphere crosses the bounding sphere of radius Radius centered at Apex,
// AND the sphere's center is not entirely behind the far side of the cone
// by more than its own radius.
func SphereIntersectsSector(s Sphere, sec SphericalSector) bool {
	bound := Sphere{Center: sec.Apex, Radius: sec.Radius}
	if !SpheresIntersect(s, bound) {
		return false
	}
	toCenter := s.Center.Sub(sec.Apex)
	dist := toCenter.Len()
	if dist <= s.Radius {
		// Sphere encloses or touches the apex: always overlaps the cone.
		return true
	}
	cosAngle := toCenter.Dot(sec.Axis) / dist
	// Expand the half-angle by the angle subtended by the sphere's radius
	// at this distance, so grazing spheres near the cone surface are not
	// incorrectly rejected.
	angularSlack := float32(0)
	if dist > 0 {
		angularSlack = s.Radius / dist
	}
	return cosAngle >= sec.CosHalfAngle-angularSlack
}

// AABBIntersectsSector reports whether an AABB overlaps a spherical sector,
// conservatively reduced to the AABB's bounding sphere.
func AABBIntersectsSector(b AABB, sec SphericalSector) bool {
	return SphereIntersectsSector(b.BoundingSphere(), sec)
}

// HullIntersectsAABB performs a conservative plane-vs-AABB test against
// every half-space of the hull: an AABB is rejected only when it lies
// entirely on the outside of some plane. This never produces a false
// negative, though (being a plane test rather than full SAT) it can
// report overlap for a small class of separated convex shapes — acceptable
// per the BoundsQuery contract.
func HullIntersectsAABB(h Hull, b AABB) bool {
	c := b.Center()
	e := b.HalfExtent()
	for _, p := range h.Planes {
		r := e[0]*abs(p.Normal[0]) + e[1]*abs(p.Normal[1]) + e[2]*abs(p.Normal[2])
		if p.Side(c) < -r {
			return false
		}
	}
	return true
}

// HullIntersectsSphere performs the equivalent plane test for a sphere.
func HullIntersectsSphere(h Hull, s Sphere) bool {
	for _, p := range h.Planes {
		if p.Side(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
