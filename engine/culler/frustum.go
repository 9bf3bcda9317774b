// Package culler implements the traversal that turns a view frustum into
// the three per-frame lists the renderer consumes: visible objects, visible
// lights, and final-pass objects (spec.md §4.3).
package culler

import (
	"math"

	"github.com/Carmen-Shannon/oxy-go/common"
	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum extends common.Frustum with the per-frame change tracking and
// shadow-related hulls spec.md §3 assigns to it: the near-clip volume used
// to pick depth-pass vs. depth-fail, the shadow-caster volume used to
// reject whole shadow casters outside the union of the view and the light,
// and MostRecentFrameChanged, which lets DetermineVisibleEntities reuse the
// previous frame's static-prefix results untouched.
type Frustum struct {
	Planes bounds.Frustum

	// Viewpoint, FovY and ViewportHeight feed ProjectedSize; the tighter
	// bounding-volume math itself is an external collaborator (spec §1),
	// but this one projection formula is simple enough, and central enough
	// to every size-cutoff decision in the core, to live here rather than
	// behind an interface no test could exercise deterministically.
	Viewpoint     mgl32.Vec3
	FovY          float32
	ViewportHeight float32

	// NearClipVolume is the convex hull of the view frustum's near
	// rectangle and the active light's position (Glossary: near-clip
	// volume); recomputed per light by the renderer.
	NearClipVolume bounds.Hull
	// ShadowCasterVolume is the convex hull of the full view frustum and
	// the active light's position (Glossary: shadow-caster volume).
	ShadowCasterVolume bounds.Hull

	// MostRecentFrameChanged is the frame number the frustum last moved.
	// DetermineVisibleEntities compares this against the current frame
	// (not against a previous-frame snapshot) so "unchanged" simply means
	// this value is strictly less than CurrentFrame.
	MostRecentFrameChanged uint64
}

// FromMatrix builds a Frustum's plane set from a view-projection matrix,
// reusing the teacher's Gribb/Hartmann extraction (common.ExtractFrustumFromMatrix)
// and converting its [3]float32 plane representation into bounds.Plane.
func FromMatrix(viewProj []float32, viewpoint mgl32.Vec3, fovY, viewportHeight float32) Frustum {
	cf := common.ExtractFrustumFromMatrix(viewProj)
	var bf bounds.Frustum
	for i, p := range cf.Planes {
		bf.Planes[i] = bounds.Plane{
			Normal:   mgl32.Vec3{p.Normal[0], p.Normal[1], p.Normal[2]},
			Distance: p.Distance,
		}
	}
	return Frustum{Planes: bf, Viewpoint: viewpoint, FovY: fovY, ViewportHeight: viewportHeight}
}

// ProjectedSize returns an upper-bound screen-space size, in pixels, for a
// bounding sphere: the standard perspective-projection estimate
// (radius * viewportHeight) / (distance * tan(fovY/2)), clamped so an
// object the viewpoint sits inside of reports the full viewport height
// rather than dividing by a near-zero distance.
func (f Frustum) ProjectedSize(s bounds.Sphere) float32 {
	dist := s.Center.Sub(f.Viewpoint).Len()
	if dist < s.Radius {
		return f.ViewportHeight
	}
	tanHalfFov := float32(math.Tan(float64(f.FovY / 2)))
	if tanHalfFov <= 0 {
		return 0
	}
	return (s.Radius * f.ViewportHeight) / (dist * tanHalfFov)
}

// MarkChanged stamps the frustum as having moved on frame.
func (f *Frustum) MarkChanged(frame uint64) {
	f.MostRecentFrameChanged = frame
}

// Unchanged reports whether the frustum has been stable since before
// currentFrame, i.e. the static-prefix reuse path of DetermineVisibleEntities
// applies.
func (f Frustum) Unchanged(currentFrame uint64) bool {
	return f.MostRecentFrameChanged < currentFrame
}

// nearPlaneIndex matches common.FrustumNear's position in the Left, Right,
// Bottom, Top, Near, Far plane ordering bounds.Frustum shares with it.
const nearPlaneIndex = 4

// NearClipIntersectsCaster reports whether the near clip plane passes
// through casterBounds, the test the renderer uses to pick depth-fail
// (capped, stencil-safe even when the camera is inside the shadow volume)
// over depth-pass for one shadow caster under the active light (spec
// §4.5's method-selection rule). A full near-clip-volume hull test would
// also reject casters the near rectangle can't actually see; this plane
// test is the conservative, cheaper half of that: it never misses a caster
// that truly straddles the near plane, at the cost of occasionally picking
// depth-fail for one that the near rectangle's side planes would have
// excluded.
func (f Frustum) NearClipIntersectsCaster(casterBounds bounds.Sphere) bool {
	d := f.Planes.Planes[nearPlaneIndex].Side(casterBounds.Center)
	return d < casterBounds.Radius
}
