package scene

// RenderFlags toggles optional core-renderer behaviors, mirroring the
// teacher's builder-option style but expressed as a plain struct since
// these are read every frame rather than set once at construction (spec §6).
type RenderFlags struct {
	// GeometryScissorsEnabled enables the per-(static object, static light)
	// scissors optimization (spec §4.6/§4.7). Disabling it is a debug knob
	// for isolating scissors-related rendering bugs.
	GeometryScissorsEnabled bool
	// ShadowVolumeCachingEnabled enables the object/model shadow-volume
	// caches; disabling forces every shadow volume to be rebuilt every
	// frame, another debug knob.
	ShadowVolumeCachingEnabled bool
	// ShadowVolumeVisibilityTest is the toggle for whole-caster rejection
	// against a static shadow caster's precomputed ShadowPrimitive bound
	// (spec §4.4(a)). Core does not read it: every caster's shadow volume
	// is built and drawn whether it is set or not.
	ShadowVolumeVisibilityTest bool
	// WireframeShadowVolumes is the toggle for a wireframe debug view of
	// the constructed shadow volume geometry. Core does not read it: shadow
	// volumes always go through the stencil pass.
	WireframeShadowVolumes bool
	// UseTriangleStripsForShadowVolumes allows point/spot shadow volumes to
	// encode their sides as a triangle strip with primitive restart
	// (shadowvolume.EncodingTriangleStrip) instead of always falling back
	// to an independent triangle list; disabling is a debug knob for
	// isolating a primitive-restart-related rendering bug on a given
	// GPUDriver backend.
	UseTriangleStripsForShadowVolumes bool
	// UseTriangleFansForShadowVolumes allows directional/beam shadow
	// volumes on a closed mesh to encode their sides as a single triangle
	// fan (shadowvolume.EncodingTriangleFan) instead of always falling
	// back to a triangle list; same debug purpose as the strip flag above.
	UseTriangleFansForShadowVolumes bool
}

// DefaultRenderFlags returns every optimization enabled and debug aids off,
// the configuration a release build runs with.
func DefaultRenderFlags() RenderFlags {
	return RenderFlags{
		GeometryScissorsEnabled:           true,
		ShadowVolumeCachingEnabled:        true,
		ShadowVolumeVisibilityTest:        true,
		UseTriangleStripsForShadowVolumes: true,
		UseTriangleFansForShadowVolumes:   true,
	}
}
