package sceneobject

import "github.com/go-gl/mathgl/mgl32"

// ShadowPrimitiveKind distinguishes the three precomputed shadow-volume
// bounding shapes LightModel.CalculateStaticLightObjectLists attaches to a
// static shadow caster (spec §4.4): a pyramid-cone for a single point/spot
// light, a half-cylinder for a beam light (which extrudes only away from
// the light), and a full cylinder for a directional light (which extrudes
// to infinity in one fixed direction).
type ShadowPrimitiveKind int

const (
	ShadowPrimitivePyramidCone ShadowPrimitiveKind = iota
	ShadowPrimitiveHalfCylinder
	ShadowPrimitiveCylinder
)

// ShadowPrimitive is a conservative bound on the volume a static object's
// shadow can ever occupy for one specific static light, used by the
// renderer's optional SHADOW_VOLUME_VISIBILITY_TEST to reject an entire
// shadow caster against the frustum without building geometry.
type ShadowPrimitive struct {
	Kind ShadowPrimitiveKind

	// Apex is the cone/cylinder origin (object-local shadow origin facing
	// the light) in world space.
	Apex mgl32.Vec3
	// Axis is the extrusion direction (normalized), pointing away from the
	// light.
	Axis mgl32.Vec3
	// Radius bounds the primitive's cross-section.
	Radius float32
	// HalfAngle is used only for ShadowPrimitivePyramidCone.
	HalfAngle float32
	// Length is the finite extent along Axis; cylinders extruded to
	// infinity (directional) use a length large enough to be conservative
	// for the active frustum's far plane rather than true infinity, so the
	// primitive stays representable as an ordinary bounds.Cylinder.
	Length float32
}

// StaticShadowVolume pairs a light with its precomputed ShadowPrimitive for
// one object, per spec §4.4(a)/§9: "store as a small per-object vector of
// (light_id, primitive); lookup is linear because the vector is short."
type StaticShadowVolume struct {
	LightID   uint64
	Primitive ShadowPrimitive
}
