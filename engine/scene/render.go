package scene

import (
	"github.com/Carmen-Shannon/oxy-go/engine/culler"
	"github.com/Carmen-Shannon/oxy-go/engine/light"
	"github.com/Carmen-Shannon/oxy-go/engine/octree"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
	"github.com/Carmen-Shannon/oxy-go/engine/shadowvolume"
)

// ambientDepthStencil is the state for the unlit base pass: ordinary
// depth test and write, stencil untouched.
var ambientDepthStencil = DepthStencilState{
	DepthTestEnabled:  true,
	DepthWriteEnabled: true,
	DepthFunc:         DepthFuncLess,
}

// shadowStencilPass is the state for the stencil-only pass that marks
// shadowed pixels (spec §4.5): depth test only, no depth write, and the
// front/back increment-wrap/decrement-wrap pair that makes the net stencil
// value nonzero exactly where a fragment is inside at least one shadow
// volume, regardless of front-face winding convention.
var shadowStencilPass = DepthStencilState{
	DepthTestEnabled:  true,
	DepthWriteEnabled: false,
	DepthFunc:         DepthFuncLess,
	StencilEnabled:    true,
	StencilFunc:       StencilFuncAlways,
	FrontFaceOp:       StencilOpIncrWrap,
	BackFaceOp:        StencilOpDecrWrap,
}

// litPass is the state for the per-light contribution pass: draws only
// where the stencil-pass above left zero (no shadow), never writes depth
// again (the ambient pass already owns the depth buffer), and leaves the
// stencil buffer itself untouched so the next light's stencil pass starts
// from a clean value once cleared by the caller between lights.
var litPass = DepthStencilState{
	DepthTestEnabled:  true,
	DepthWriteEnabled: false,
	DepthFunc:         DepthFuncLessEqual,
	StencilEnabled:    true,
	StencilFunc:       StencilFuncEqual,
	StencilRef:        0,
	FrontFaceOp:       StencilOpKeep,
	BackFaceOp:        StencilOpKeep,
}

// finalPassDepthStencil is the state for emission-only/particle/halo
// objects (spec §4.3's final pass): depth-tested against what the ambient
// pass wrote, never touches the stencil buffer.
var finalPassDepthStencil = DepthStencilState{
	DepthTestEnabled:  true,
	DepthWriteEnabled: false,
	DepthFunc:         DepthFuncLessEqual,
}

// Hooks are the draw callbacks Render invokes at each stage. Render owns
// visibility, caching and GPU dynamic state; actual vertex/index buffer
// upload and draw-call submission belong to whatever owns material and
// mesh data (an external collaborator, spec §1), the same boundary
// ShadowMeshFor draws for mesh input.
type Hooks struct {
	// DrawAmbient renders one visible object's unlit/ambient contribution.
	DrawAmbient func(ref octree.Ref, obj *sceneobject.Object)
	// DrawShadowVolume renders one shadow volume's geometry into the
	// stencil buffer under the current DepthStencilState.
	DrawShadowVolume func(ref octree.Ref, obj *sceneobject.Object, geo shadowvolume.Geometry)
	// DrawLit renders one object's contribution from the active light,
	// with scissors already applied via GPUDriver.SetScissor when usable.
	DrawLit func(ref octree.Ref, obj *sceneobject.Object, lightID uint64)
	// DrawFinal renders one final-pass-only object (emission/particle/halo).
	DrawFinal func(ref octree.Ref, obj *sceneobject.Object)
	// ClearStencil resets the stencil buffer to zero; called once before
	// each light's stencil pass so lights don't accumulate into each
	// other's shadow masks.
	ClearStencil func()
}

// Render runs one frame's worth of spec §4.6/§4.7 orchestration: culls
// against frustum, draws the ambient pass, then for every visible light
// builds (or reuses, from cache) each caster's shadow volume, marks the
// stencil buffer, and draws that light's lit contribution with geometry
// scissors applied where usable, finishing with the final pass. meshFor
// supplies shadow topology per object; driver carries the dynamic
// depth/stencil/scissor/color-write state across GPU backends.
func (c *Core) Render(driver GPUDriver, frustum *culler.Frustum, meshFor ShadowMeshFor, hooks Hooks) {
	c.ctx.BeginFrame()
	c.DetermineVisibleEntities(frustum)

	driver.SetFullScissor()
	driver.SetColorWriteEnabled(true)
	driver.SetDepthStencilState(ambientDepthStencil)
	for _, ref := range c.result.VisibleObjects {
		if hooks.DrawAmbient != nil {
			hooks.DrawAmbient(ref, c.Object(ref))
		}
	}

	for _, lightRef := range c.result.VisibleLights {
		c.renderLight(driver, frustum, lightRef, meshFor, hooks)
	}

	driver.SetFullScissor()
	driver.SetColorWriteEnabled(true)
	driver.SetDepthStencilState(finalPassDepthStencil)
	for _, ref := range c.result.FinalPassObjects {
		if hooks.DrawFinal != nil {
			hooks.DrawFinal(ref, c.Object(ref))
		}
	}
}

func (c *Core) renderLight(driver GPUDriver, frustum *culler.Frustum, lightRef octree.Ref, meshFor ShadowMeshFor, hooks Hooks) {
	m := c.LightModel(lightRef)
	c.ctx.BeginLight(int(lightRef.Index()))
	defer c.ctx.EndLight()

	casters := c.shadowCastersFor(m)

	if hooks.ClearStencil != nil {
		hooks.ClearStencil()
	}

	driver.SetColorWriteEnabled(false)
	driver.SetFullScissor()
	for _, caster := range casters {
		nearClip := frustum.NearClipIntersectsCaster(caster.obj.WorldSphere)
		geo := c.BuildShadowVolume(caster.obj, m, meshFor, caster.obj.ModelMatrix, nearClip)
		driver.SetDepthStencilState(shadowStencilPass)
		if hooks.DrawShadowVolume != nil {
			hooks.DrawShadowVolume(caster.ref, caster.obj, geo)
		}
	}

	driver.SetColorWriteEnabled(true)
	driver.SetDepthStencilState(litPass)
	for _, caster := range casters {
		if !c.applyGeometryScissors(driver, caster.obj, m.ID) {
			continue
		}
		if hooks.DrawLit != nil {
			hooks.DrawLit(caster.ref, caster.obj, m.ID)
		}
	}
}

type shadowCaster struct {
	ref octree.Ref
	obj *sceneobject.Object
}

// shadowCastersFor resolves the shadow-casting objects a light illuminates
// this frame: the precomputed static list for a static light (spec
// §4.4(a)), or every visible object flagged CastShadows for a dynamic
// light, whose volume can't be precomputed once and reused.
func (c *Core) shadowCastersFor(m *light.Model) []shadowCaster {
	if !m.Dynamic {
		casters := make([]shadowCaster, 0, len(m.ShadowCasterObjects))
		for _, id := range m.ShadowCasterObjects {
			ref, obj, ok := c.ObjectByID(id)
			if !ok {
				continue
			}
			casters = append(casters, shadowCaster{ref: ref, obj: obj})
		}
		return casters
	}

	var casters []shadowCaster
	for _, ref := range c.result.VisibleObjects {
		obj := c.Object(ref)
		if obj.Flags.Has(sceneobject.CastShadows) {
			casters = append(casters, shadowCaster{ref: ref, obj: obj})
		}
	}
	return casters
}

// applyGeometryScissors sets driver's scissor rect from obj's cached
// geometry-scissors slot for lightID and reports whether obj is drawn at
// all: a slot marked outside the light volume, or a usable but degenerate
// rect, skips the draw (spec §4.6/§4.7, Testable Property 7: a degenerate
// rect must never reach the GPU). No slot, or a slot without a usable
// rect, falls back to the full scissor rect.
func (c *Core) applyGeometryScissors(driver GPUDriver, obj *sceneobject.Object, lightID uint64) bool {
	entry, _ := c.ComputeGeometryScissors(obj, lightID)
	if entry != nil && (entry.Rect.IsOutsideLight() || (entry.Rect.IsUsable() && !entry.Rect.Valid())) {
		return false
	}
	if entry == nil || !entry.Rect.IsUsable() {
		driver.SetFullScissor()
		return true
	}
	driver.SetScissor(ScissorRect{
		X:      uint32(entry.Rect.Left),
		Y:      uint32(entry.Rect.Bottom),
		Width:  uint32(entry.Rect.Right - entry.Rect.Left),
		Height: uint32(entry.Rect.Top - entry.Rect.Bottom),
	})
	return true
}
