package bounds

// Frustum is a plane-bounded view volume: six half-spaces, oriented so the
// positive half-space (Side(p) >= 0) is inside. Wraps the same convention
// as common.Frustum so the two stay interchangeable at the octree/culler
// boundary (see engine/culler, which extracts this from a view-projection
// matrix via common.ExtractFrustumFromMatrix).
type Frustum struct {
	Planes [6]Plane
}

// VerdictAABB classifies an AABB against the frustum as CompletelyOutside,
// PartiallyInside, or CompletelyInside. CompletelyOutside is returned as
// soon as any single plane rejects the box entirely (false negatives are
// forbidden, so a plane that can't resolve the box contributes nothing).
func (f Frustum) VerdictAABB(b AABB) Verdict {
	c := b.Center()
	e := b.HalfExtent()
	allIn := true
	for _, p := range f.Planes {
		r := e[0]*abs(p.Normal[0]) + e[1]*abs(p.Normal[1]) + e[2]*abs(p.Normal[2])
		d := p.Side(c)
		if d < -r {
			return CompletelyOutside
		}
		if d < r {
			allIn = false
		}
	}
	if allIn {
		return CompletelyInside
	}
	return PartiallyInside
}

// VerdictSphere classifies a sphere against the frustum the same way
// VerdictAABB does for boxes. Cheaper than VerdictAABB, so BoundsQuery
// callers are expected to try this first (spec §4.1) and fall back to the
// tighter box/cylinder test only when it returns PartiallyInside.
func (f Frustum) VerdictSphere(s Sphere) Verdict {
	allIn := true
	for _, p := range f.Planes {
		d := p.Side(s.Center)
		if d < -s.Radius {
			return CompletelyOutside
		}
		if d < s.Radius {
			allIn = false
		}
	}
	if allIn {
		return CompletelyInside
	}
	return PartiallyInside
}

// Resolve applies the spec §4.1 "sphere first, tighter test only if
// undecided" policy: it runs the cheap sphere verdict and only invokes
// tighter when the sphere result is PartiallyInside (an outer sphere
// verdict of CompletelyOutside/CompletelyInside is already conservative
// and final).
func Resolve(sphereVerdict Verdict, tighter func() Verdict) Verdict {
	if sphereVerdict != PartiallyInside {
		return sphereVerdict
	}
	return tighter()
}
