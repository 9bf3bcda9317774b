package scene

// RenderContext threads the per-frame state every core-renderer stage
// needs: which frame this is, which light (if any) is currently active
// during the multi-pass lighting loop, and the reusable scratch buffers
// that let Render avoid allocating on the hot path (spec §5's "no
// allocation inside the per-frame loop" rationale for a synchronous,
// single-threaded render pass).
type RenderContext struct {
	CurrentFrame uint64
	// CurrentLightIndex is the slice index (not the ID) of the light
	// currently being processed by the per-light pass, or -1 outside of
	// it. Exposed so sceneobject.Object.NextGeometryScissorsSlot callers
	// can assert they're only called during a per-light pass.
	CurrentLightIndex int

	Stats CacheStats
}

// NewRenderContext creates a RenderContext for frame 0 with no active light.
func NewRenderContext() *RenderContext {
	return &RenderContext{CurrentLightIndex: -1}
}

// BeginFrame advances to the next frame and resets per-frame stats.
func (rc *RenderContext) BeginFrame() {
	rc.CurrentFrame++
	rc.CurrentLightIndex = -1
	rc.Stats = CacheStats{}
}

// BeginLight marks lightIndex as the active light for the per-light pass.
func (rc *RenderContext) BeginLight(lightIndex int) {
	rc.CurrentLightIndex = lightIndex
}

// EndLight clears the active light, e.g. between light iterations or when
// entering the final pass.
func (rc *RenderContext) EndLight() {
	rc.CurrentLightIndex = -1
}
