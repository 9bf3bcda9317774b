package light

import (
	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
)

// StaticObjectSource is the minimal view CalculateStaticLightObjectLists
// needs of the scene's static object set: a stable list of (id, object)
// pairs it can test against a light's volume.
type StaticObjectSource interface {
	StaticObjects() []*sceneobject.Object
}

// CalculateStaticLightObjectLists is the static-light preprocessing step
// spec §4.4(a) calls for: run once, whenever a static light or static object
// is added (never per-frame), it partitions every static object against this
// light's volume into LightVolumeObjects (illuminated) and
// ShadowCasterObjects (the subset of those also flagged CastShadows),
// gives every illuminated object a geometry-scissors cache slot for this
// light (invariant I4), and attaches a precomputed ShadowPrimitive bound
// (pyramid-cone for point/spot, half-cylinder for beam, cylinder for
// directional) to each shadow caster it can derive one for, so the renderer's
// optional whole-caster rejection test doesn't need live shadow geometry.
func (m *Model) CalculateStaticLightObjectLists(objects StaticObjectSource) {
	m.LightVolumeObjects = m.LightVolumeObjects[:0]
	m.ShadowCasterObjects = m.ShadowCasterObjects[:0]

	for _, obj := range objects.StaticObjects() {
		if !m.intersectsVolume(obj.WorldSphere, obj.WorldAABB) {
			continue
		}
		m.LightVolumeObjects = append(m.LightVolumeObjects, obj.ID())
		obj.EnsureGeometryScissorsSlot(m.ID)
		if !obj.Flags.Has(sceneobject.CastShadows) {
			continue
		}
		m.ShadowCasterObjects = append(m.ShadowCasterObjects, obj.ID())

		if prim, ok := m.staticShadowPrimitiveFor(obj.WorldSphere); ok {
			obj.StaticShadowVolumes = append(obj.StaticShadowVolumes, sceneobject.StaticShadowVolume{
				LightID:   m.ID,
				Primitive: prim,
			})
		}
	}
}

func (m *Model) intersectsVolume(s bounds.Sphere, b bounds.AABB) bool {
	switch m.Light.Type() {
	case LightTypeDirectional:
		return true
	case LightTypePoint:
		return bounds.SphereIntersectsAABB(m.PrimarySphere, b)
	case LightTypeSpot:
		return bounds.AABBIntersectsSector(b, m.SpotSector)
	case LightTypeBeam:
		return bounds.AABBIntersectsCylinder(b, m.BeamCylinder)
	default:
		return false
	}
}

// staticShadowPrimitiveFor derives the conservative ShadowPrimitive for one
// static shadow caster under this light, following spec §4.4(a)'s three
// kinds: pyramid-cone for point/spot, half-cylinder for beam, cylinder for
// directional.
func (m *Model) staticShadowPrimitiveFor(casterBounds bounds.Sphere) (sceneobject.ShadowPrimitive, bool) {
	switch m.Light.Type() {
	case LightTypePoint, LightTypeSpot:
		pos := vec3(m.Light.Position())
		axis := casterBounds.Center.Sub(pos)
		length := axis.Len()
		if length == 0 {
			return sceneobject.ShadowPrimitive{}, false
		}
		axis = axis.Mul(1 / length)
		return sceneobject.ShadowPrimitive{
			Kind:      sceneobject.ShadowPrimitivePyramidCone,
			Apex:      pos,
			Axis:      axis,
			Radius:    casterBounds.Radius * 2,
			HalfAngle: 0.6,
			Length:    length * 4,
		}, true
	case LightTypeBeam:
		dir := vec3(m.Light.Direction())
		return sceneobject.ShadowPrimitive{
			Kind:   sceneobject.ShadowPrimitiveHalfCylinder,
			Apex:   casterBounds.Center,
			Axis:   dir,
			Radius: casterBounds.Radius * 2,
			Length: m.Light.Range(),
		}, true
	case LightTypeDirectional:
		dir := vec3(m.Light.Direction())
		return sceneobject.ShadowPrimitive{
			Kind:   sceneobject.ShadowPrimitiveCylinder,
			Apex:   casterBounds.Center,
			Axis:   dir,
			Radius: casterBounds.Radius * 2,
			Length: 1000,
		}, true
	default:
		return sceneobject.ShadowPrimitive{}, false
	}
}
