package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/go-gl/mathgl/mgl32"
)

// Model is the per-frame culling and shadow bookkeeping attached to a Light,
// mirroring the split sceneobject.Object makes between a GameObject and its
// culling state: Light owns color/intensity/GPU-facing fields, Model owns
// everything the octree, culler, and shadow-volume builder need to treat the
// light as a culled, shadow-casting entity in its own right.
type Model struct {
	Light Light

	// ID is the scene-wide stable identifier used as the shadow-volume
	// object-cache key's light half and as the geometry-scissors cache's
	// per-slot LightID.
	ID uint64

	// Dynamic marks a light whose position/direction changes every frame
	// (ChangingEveryFrame below is the per-frame-observed version of this:
	// Dynamic is the static classification decided at creation time, per
	// invariant I2's static/dynamic split).
	Dynamic bool

	// PrimarySphere is the tight bounding sphere used for the first cull
	// test (spec §4.1's sphere-first policy) — for a point/spot/beam light
	// this is built from Range (and, for spot/beam, extruded along
	// Direction); for a directional light it is meaningless and
	// Light.Type() is checked first instead.
	PrimarySphere bounds.Sphere
	// WorstCaseSphere bounds every position a dynamic non-directional light
	// could ever occupy (spec §4.3's "intersect the worst-case sphere
	// first" rule); zero value means HasWorstCase is false.
	WorstCaseSphere bounds.Sphere
	HasWorstCase    bool

	// SpotSector/BeamCylinder hold the tighter, type-specific bounding
	// volume tested only after PrimarySphere/WorstCaseSphere already
	// matched (spec §4.1). Only one is populated, matching Light.Type().
	SpotSector   bounds.SphericalSector
	BeamCylinder bounds.Cylinder

	// ProjectedSize is the upper-bound screen-space size computed during
	// the last DetermineVisibleEntities pass.
	ProjectedSize float32
	// MostRecentShadowVolumeChange is the frame this light's shadow
	// geometry last needed rebuilding — position, direction, or range
	// changed since the previous frame's value.
	MostRecentShadowVolumeChange uint64
	// ChangingEveryFrame marks a light whose Dynamic bit is true AND whose
	// position/direction actually moved on the current frame, as opposed
	// to a dynamic light that happens to be motionless this frame (spec
	// §9: "dynamic does not imply changing every frame").
	ChangingEveryFrame bool
	// ShadowMapRequired mirrors Light.CastsShadows() but is cached here so
	// the renderer's light-priority sort (spec §4.6) doesn't need to go
	// through the interface call on every comparison.
	ShadowMapRequired bool

	// LightVolumeObjects and ShadowCasterObjects are the two owned,
	// pre-partitioned lists CalculateStaticLightObjectLists fills in for a
	// static light (spec §4.4(a)): every static object whose world bounds
	// intersect this light's volume, split into "affected by this light's
	// illumination" and "casts a shadow for this light", respectively. A
	// dynamic light leaves both nil and relies on per-frame culling
	// instead.
	LightVolumeObjects  []uint64
	ShadowCasterObjects []uint64
}

// NewModel wraps l with zeroed culling state. id must be stable for the
// lifetime of the scene; it is the key used by the shadow-volume caches and
// the geometry-scissors cache.
func NewModel(id uint64, l Light, dynamic bool) *Model {
	return &Model{Light: l, ID: id, Dynamic: dynamic, ShadowMapRequired: l.CastsShadows()}
}

// Refresh recomputes PrimarySphere (and, for spot/beam lights, the tighter
// sector/cylinder) from the light's current position/direction/range.
// engine/scene's Core calls it when a light is added and from
// ChangeLightPosition/ChangeLightDirection; it is not re-run per frame.
func (m *Model) Refresh() {
	pos := vec3(m.Light.Position())
	dir := vec3(m.Light.Direction())
	r := m.Light.Range()

	switch m.Light.Type() {
	case LightTypeDirectional:
		// No position-based bound; the renderer treats directional lights
		// as always visible, matching spec §3's "frustum test does not
		// apply to directional lights" note.
		return
	case LightTypePoint:
		m.PrimarySphere = bounds.Sphere{Center: pos, Radius: r}
	case LightTypeSpot:
		// A sphere through the apex that encloses the whole sector: centred
		// on the axis at r/(2·cos) while that is shorter than the range,
		// otherwise the range sphere around the apex.
		cosOuter := spotOuterHalfAngleCos(m.Light.OuterCone())
		m.PrimarySphere = bounds.Sphere{Center: pos, Radius: r}
		if cosOuter > 0.5 {
			h := r / (2 * cosOuter)
			m.PrimarySphere = bounds.Sphere{Center: pos.Add(dir.Mul(h)), Radius: h}
		}
		m.SpotSector = bounds.SphericalSector{
			Apex:         pos,
			Axis:         dir,
			Radius:       r,
			CosHalfAngle: spotOuterHalfAngleCos(m.Light.OuterCone()),
		}
	case LightTypeBeam:
		center := pos.Add(dir.Mul(r * 0.5))
		radius := m.Light.BeamRadius()
		boundRadius := float32(math.Hypot(float64(r*0.5), float64(radius)))
		m.PrimarySphere = bounds.Sphere{Center: center, Radius: boundRadius}
		m.BeamCylinder = bounds.Cylinder{Center: center, Axis: dir, Radius: radius, HalfHeight: r * 0.5}
	}
}

// SetWorstCaseBounds records the sphere a dynamic non-directional light's
// position can never leave (spec §4.3), e.g. the bounding sphere of a patrol
// path or an elevator shaft. Call once after construction; a light without a
// worst-case sphere is culled using only its current-frame PrimarySphere.
func (m *Model) SetWorstCaseBounds(center mgl32.Vec3, radius float32) {
	m.WorstCaseSphere = bounds.Sphere{Center: center, Radius: radius}
	m.HasWorstCase = true
}

// TightVolumeHit re-tests a spot or beam light against the frustum, for use
// as a culler.LightRecord's TightVolumeHit callback. A spot light must pass
// its PrimarySphere and a check that the sector's apex lies no further than
// the sector's radius outside any frustum plane; a beam light is re-tested
// with PrimarySphere only (BeamCylinder is not consulted). Point and
// directional lights have no volume
// tighter than their sphere, so this always reports true for them, leaving
// PrimarySphere's own verdict as the deciding one.
func (m *Model) TightVolumeHit(f bounds.Frustum) bool {
	switch m.Light.Type() {
	case LightTypeSpot:
		return f.VerdictSphere(m.PrimarySphere) != bounds.CompletelyOutside &&
			spotSectorHitsFrustum(f, m.SpotSector)
	case LightTypeBeam:
		return f.VerdictSphere(m.PrimarySphere) != bounds.CompletelyOutside
	default:
		return true
	}
}

func spotSectorHitsFrustum(f bounds.Frustum, sec bounds.SphericalSector) bool {
	for _, p := range f.Planes {
		if p.Side(sec.Apex) < -sec.Radius {
			return false
		}
	}
	return true
}

// MarkShadowVolumeChanged stamps frame as the last frame this light's shadow
// geometry needs rebuilding, invalidating any object-cache/model-cache
// entries keyed on an earlier frame for this light.
func (m *Model) MarkShadowVolumeChanged(frame uint64) {
	m.MostRecentShadowVolumeChange = frame
}

// spotOuterHalfAngleCos converts a spot light's stored outer-cone cosine
// directly into the SphericalSector's CosHalfAngle — they are the same
// quantity, kept as a named conversion so the two Light representations
// (GPU-facing cosine, bounds-facing cosine) don't silently drift apart if
// one of their storage conventions changes later.
func spotOuterHalfAngleCos(outerCone float32) float32 {
	return outerCone
}

// beamHalfAngleFromRadius is unused by beam lights themselves (they bound
// with a cylinder, not a cone) and has no callers in this tree; it
// implements spec §9's acos(exp(ln(0.01)/exponent)) spotlight attenuation
// falloff formula for deriving an effective half-angle from a Phong exponent.
func beamHalfAngleFromRadius(exponent float32) float32 {
	if exponent <= 0 {
		return float32(math.Pi / 2)
	}
	return float32(math.Acos(math.Exp(math.Log(0.01) / float64(exponent))))
}

func vec3(a [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{a[0], a[1], a[2]}
}
