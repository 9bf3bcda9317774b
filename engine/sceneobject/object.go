// Package sceneobject holds the per-frame culling and shadow-volume
// bookkeeping the spec's Object data model (spec.md §3) attaches to every
// renderable, layered on top of the teacher's game_object.GameObject
// (which stores its transform directly on the object). An Object
// here is the thing the octree, culler, LightModel, and renderer actually
// operate on; GameObject remains the thing the GPU-instanced draw path
// consumes.
package sceneobject

import (
	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// Object is an addressable renderable with the culling/shadow state the
// core subsystems mutate each frame. Embeds the teacher's GameObject for
// identity, model reference, and GPU transform; everything below the
// embed is new state this spec requires.
type Object struct {
	game_object.GameObject

	Flags Flags

	// World-space bounds, refreshed whenever the underlying transform
	// changes (dynamic objects: every frame; static objects: never, per
	// invariant I2).
	WorldSphere bounds.Sphere
	WorldAABB   bounds.AABB
	// OBBPlanes is the tighter oriented-box test (spec §3: "bounding box
	// with planes"), six half-space planes in world space. Nil when the
	// object only needs the AABB/sphere tests.
	OBBPlanes []bounds.Plane

	ModelMatrix, InverseModelMatrix mgl32.Mat4

	// MostRecentFrameVisible is the timestamp of the last frame this
	// object passed culling as a lighting-pass object (not a final-pass
	// object — spec §4.3 testable property 1).
	MostRecentFrameVisible uint64

	// ProjectedSize is the upper-bound screen-space size computed during
	// culling; reused by the renderer's OCTREE_SIZE_CUTOFF-style rejection
	// and by LOD selection (external collaborator).
	ProjectedSize float32

	// GeometryScissorsCache holds one entry per static light whose volume
	// intersects this object, whether the object is partially or completely
	// inside it; sized by LightModel.CalculateStaticLightObjectLists.
	GeometryScissorsCache []GeometryScissorsEntry
	// StaticLightOrder is the per-frame cursor into GeometryScissorsCache;
	// reset to 0 whenever GeometryScissorsCacheTimestamp falls behind the
	// current frame.
	StaticLightOrder int
	// GeometryScissorsCacheTimestamp is the last frame the cursor was
	// reset.
	GeometryScissorsCacheTimestamp uint64

	// StaticShadowVolumes is the short, linearly-searched list of
	// precomputed shadow bounding primitives, one per static light this
	// object casts a shadow for.
	StaticShadowVolumes []StaticShadowVolume
}

// NewObject wraps an existing GameObject with zeroed culling state.
func NewObject(id uint64, g game_object.GameObject, flags Flags) *Object {
	return &Object{GameObject: g, Flags: flags}
}

// ID returns the stable scene-wide identifier used as the key for the
// shadow-volume object cache and for geometry-scissors cache slot
// ownership.
func (o *Object) ID() uint64 {
	return o.GameObject.ID()
}

// StaticShadowVolumeFor does the short linear scan spec §9 calls for,
// returning the precomputed primitive for lightID if one was attached
// during CalculateStaticLightObjectLists.
func (o *Object) StaticShadowVolumeFor(lightID uint64) (ShadowPrimitive, bool) {
	for _, sv := range o.StaticShadowVolumes {
		if sv.LightID == lightID {
			return sv.Primitive, true
		}
	}
	return ShadowPrimitive{}, false
}

// ResetGeometryScissorsCursor rewinds StaticLightOrder to 0 and stamps
// GeometryScissorsCacheTimestamp with currentFrame. The renderer calls this
// once per frame, the first time it touches the object, so repeated
// per-light visits advance through the cache slots in the stable order
// invariant I4 relies on.
func (o *Object) ResetGeometryScissorsCursor(currentFrame uint64) {
	if o.GeometryScissorsCacheTimestamp == currentFrame {
		return
	}
	o.StaticLightOrder = 0
	o.GeometryScissorsCacheTimestamp = currentFrame
}

// EnsureGeometryScissorsSlot gives obj a cache slot for lightID if it
// doesn't already have one, called once per static light during
// LightModel.CalculateStaticLightObjectLists for every object that light's
// volume touches (spec §3, invariant I4: one slot per static light, with no
// distinction between partial and complete containment). A no-op on repeat calls for the same
// lightID, so recomputing the static lists never grows the slice.
func (o *Object) EnsureGeometryScissorsSlot(lightID uint64) {
	for i := range o.GeometryScissorsCache {
		if o.GeometryScissorsCache[i].LightID == lightID {
			return
		}
	}
	o.GeometryScissorsCache = append(o.GeometryScissorsCache, GeometryScissorsEntry{
		LightID: lightID,
		Rect:    NotComputedScissors(),
	})
}

// NextGeometryScissorsSlot returns the cache entry at the current cursor
// for lightID, advancing the cursor, and a bool indicating whether the
// slot's LightID already matched (a cache hit) versus needed relabeling
// (the frustum changed since this slot was last assigned to a different
// light, which invariant I4 permits only when the frustum itself changed).
func (o *Object) NextGeometryScissorsSlot(lightID uint64) (*GeometryScissorsEntry, bool) {
	if o.StaticLightOrder >= len(o.GeometryScissorsCache) {
		return nil, false
	}
	slot := &o.GeometryScissorsCache[o.StaticLightOrder]
	o.StaticLightOrder++
	hit := slot.LightID == lightID
	if !hit {
		slot.LightID = lightID
		slot.Rect = NotComputedScissors()
	}
	return slot, hit
}
