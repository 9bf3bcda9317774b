package scene

import (
	"github.com/Carmen-Shannon/oxy-go/engine/light"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
	"github.com/Carmen-Shannon/oxy-go/engine/shadowvolume"
	"github.com/go-gl/mathgl/mgl32"
)

// disabledEncodingKind matches none of shadowvolume's named LightKind
// constants, so Build's encoding switch falls through to its
// EncodingTriangleList default — the knob RenderFlags.UseTriangleStripsFor-
// ShadowVolumes/UseTriangleFansForShadowVolumes forces when disabled.
const disabledEncodingKind = shadowvolume.LightKind(-1)

// ShadowMeshFor is implemented by whatever owns mesh/edge-data import (a
// glTF or similar asset loader, not part of this package) to hand back the
// world-space-ready shadow topology for one object. Mesh/skeleton/animation
// I/O is an external collaborator's concern; Core only needs this one seam.
type ShadowMeshFor func(obj *sceneobject.Object) (*shadowvolume.Mesh, uint64)

// BuildShadowVolume resolves the world-space shadow geometry for obj under
// light m, using the object cache first, then the model cache, and finally
// building fresh geometry on a full miss (spec §4.5/§9's two-level cache).
// meshFor supplies the model-space mesh and a stable modelID for the
// model-cache key; nearClipIntersects selects depth-pass vs depth-fail.
func (c *Core) BuildShadowVolume(obj *sceneobject.Object, m *light.Model, meshFor ShadowMeshFor, modelMatrix mgl32.Mat4, nearClipIntersects bool) shadowvolume.Geometry {
	frame := c.ctx.CurrentFrame
	invalidateBefore := m.MostRecentShadowVolumeChange

	if c.flags.ShadowVolumeCachingEnabled {
		objKey := shadowvolume.ObjectCacheKey{ObjectID: obj.ID(), LightID: m.ID}
		if geo, ok := c.objectShadowCache.Lookup(objKey, invalidateBefore); ok {
			return geo
		}
	}

	mesh, modelID := meshFor(obj)

	if c.flags.ShadowVolumeCachingEnabled && !obj.Flags.Has(sceneobject.DynamicPosition) {
		modelKey := shadowvolume.ModelCacheKey{ModelID: modelID, LightID: m.ID}
		if geo, ok := c.modelShadowCache.Lookup(modelKey, invalidateBefore); ok {
			c.objectShadowCache.Store(shadowvolume.ObjectCacheKey{ObjectID: obj.ID(), LightID: m.ID}, geo, frame)
			return geo
		}
	}

	worldMesh := transformMesh(mesh, modelMatrix)
	lt := lightFor(m, worldMesh)
	switch lt.Kind {
	case shadowvolume.LightKindPoint, shadowvolume.LightKindSpot:
		if !c.flags.UseTriangleStripsForShadowVolumes {
			lt.Kind = disabledEncodingKind
		}
	case shadowvolume.LightKindDirectional, shadowvolume.LightKindBeam:
		if !c.flags.UseTriangleFansForShadowVolumes {
			lt.Kind = disabledEncodingKind
		}
	}
	geo := shadowvolume.Build(worldMesh, lt, nearClipIntersects)
	if geo.EncodingFellBack {
		logDebugf("object %d light %d: triangle-fan side encoding fell back to triangle list (silhouette did not chain into one closed loop)", obj.ID(), m.ID)
	}

	if c.flags.ShadowVolumeCachingEnabled {
		c.objectShadowCache.Store(shadowvolume.ObjectCacheKey{ObjectID: obj.ID(), LightID: m.ID}, geo, frame)
		if !obj.Flags.Has(sceneobject.DynamicPosition) {
			c.modelShadowCache.Store(shadowvolume.ModelCacheKey{ModelID: modelID, LightID: m.ID}, geo, frame)
		}
	}

	c.ctx.Stats.ObjectShadowCacheHits, c.ctx.Stats.ObjectShadowCacheMisses = c.objectShadowCache.Stats()
	c.ctx.Stats.ModelShadowCacheHits, c.ctx.Stats.ModelShadowCacheMisses = c.modelShadowCache.Stats()

	return geo
}

func lightFor(m *light.Model, _ *shadowvolume.Mesh) shadowvolume.Light {
	kind := shadowvolume.LightKindPoint
	switch m.Light.Type() {
	case light.LightTypeSpot:
		kind = shadowvolume.LightKindSpot
	case light.LightTypeDirectional:
		kind = shadowvolume.LightKindDirectional
	case light.LightTypeBeam:
		kind = shadowvolume.LightKindBeam
	}
	// Beam lights extrude along their direction, like directional lights.
	return shadowvolume.Light{
		Directional: m.Light.Type() == light.LightTypeDirectional || m.Light.Type() == light.LightTypeBeam,
		Position:    vec3Of(m.Light.Position()),
		Direction:   vec3Of(m.Light.Direction()),
		Kind:        kind,
	}
}

func vec3Of(a [3]float32) mgl32.Vec3 { return mgl32.Vec3{a[0], a[1], a[2]} }

// transformMesh returns a copy of mesh with every position transformed by
// modelMatrix, sharing the same Triangles/Edges slices (topology never
// changes under a rigid/affine transform, only positions do).
func transformMesh(mesh *shadowvolume.Mesh, modelMatrix mgl32.Mat4) *shadowvolume.Mesh {
	positions := make([]mgl32.Vec3, len(mesh.Positions))
	for i, p := range mesh.Positions {
		transformed := modelMatrix.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
		positions[i] = mgl32.Vec3{transformed[0], transformed[1], transformed[2]}
	}
	return &shadowvolume.Mesh{Positions: positions, Triangles: mesh.Triangles, Edges: mesh.Edges}
}

// ComputeGeometryScissors runs the per-(object, light) scissors lookup
// (spec §4.6/§4.7): returns the cached rectangle if this object's cursor
// slot for lightID already holds one, IsNotComputed() otherwise. Core
// itself never computes or stores a rectangle; the entry is returned by
// pointer, so a caller that computes one stores it by assigning its Rect.
func (c *Core) ComputeGeometryScissors(obj *sceneobject.Object, lightID uint64) (*sceneobject.GeometryScissorsEntry, bool) {
	if !c.flags.GeometryScissorsEnabled {
		return nil, false
	}
	obj.ResetGeometryScissorsCursor(c.ctx.CurrentFrame)
	return obj.NextGeometryScissorsSlot(lightID)
}
