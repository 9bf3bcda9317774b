package sceneobject

// Flags is the bitmask of per-object toggles from spec.md §3's Object flag
// set. Stored directly on Object rather than as a map or []string: the
// culler and renderer test these every frame for every candidate object, so
// they need to stay branch-free bit tests.
type Flags uint32

const (
	// Hidden marks an object as hidden. Neither engine/culler nor
	// engine/scene reads it, so a Hidden object is culled and drawn like
	// any other.
	Hidden Flags = 1 << iota
	// EmissionOnly objects render only in the final pass, bypassing the
	// per-light lighting loop entirely (spec §4.3).
	EmissionOnly
	// CastShadows marks the object as eligible for the shadow-caster lists
	// built by LightModel.CalculateStaticLightObjectLists.
	CastShadows
	// DynamicPosition objects live in the dynamic octree instead of the
	// static one and are never part of a static light's cached lists.
	DynamicPosition
	// InfiniteDistance marks an object at infinite distance. engine/scene
	// does not read it: Core.Rebuild places the object in the static or
	// dynamic tree by DynamicPosition alone, and it is tested against the
	// far plane like any other object.
	InfiniteDistance
	// ParticleSystem objects render only in the final pass, like
	// EmissionOnly.
	ParticleSystem
	// LightHalo objects render only in the final pass, like EmissionOnly.
	LightHalo
	// Billboard objects always face the camera; affects draw orientation
	// only, not culling.
	Billboard
	// NotOccluding objects are excluded from any occlusion-query path (not
	// modeled by this core; reserved for the renderer collaborator).
	NotOccluding
	// UseObjectShadowCache marks an object for the per-object shadow-volume
	// cache rather than the model-keyed one (spec §3). Core.BuildShadowVolume
	// does not read it; its cache choice is the same with or without it.
	UseObjectShadowCache
)

// Has reports whether every bit in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// FinalPassOnly reports whether the object is routed to the final pass
// instead of the per-light lighting loop (spec §4.3): emission-only light
// halos and particle systems skip visibility-timestamp bookkeeping.
func (f Flags) FinalPassOnly() bool {
	return f.Has(EmissionOnly) || f.Has(ParticleSystem) || f.Has(LightHalo)
}
