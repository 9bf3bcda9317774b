package scene

import "github.com/cogentcore/webgpu/wgpu"

// DepthFunc selects the depth-comparison function a draw uses.
type DepthFunc int

const (
	DepthFuncLess DepthFunc = iota
	DepthFuncLessEqual
	DepthFuncAlways
)

// StencilOp selects a stencil update operation, named after the classic
// stencil shadow-volume algorithm's two passes (spec §4.5): increment/
// decrement wrap are what depth-pass and depth-fail each need on their
// front/back face draws.
type StencilOp int

const (
	StencilOpKeep StencilOp = iota
	StencilOpIncrWrap
	StencilOpDecrWrap
)

// StencilFunc selects the stencil comparison used by the per-light lit draw
// that tests accumulated shadow volume counts against the stencil buffer.
type StencilFunc int

const (
	StencilFuncAlways StencilFunc = iota
	StencilFuncEqual
	StencilFuncNotEqual
)

// DepthStencilState is the complete depth/stencil configuration for one
// draw call. GPUDriver implementations that bake this into a pipeline
// object (WebGPU) rather than expose it as dynamic state resolve it to a
// cached pipeline permutation; GPUDriver.SetDepthStencilState is the seam
// that hides this difference from the renderer orchestration code, which
// is written as if the state were freely settable per spec §6.
type DepthStencilState struct {
	DepthTestEnabled  bool
	DepthWriteEnabled bool
	DepthFunc         DepthFunc

	StencilEnabled  bool
	StencilFunc     StencilFunc
	StencilRef      uint32
	FrontFaceOp     StencilOp
	BackFaceOp      StencilOp
}

// ScissorRect is a screen-space rectangle in pixels, (0,0) at the top-left,
// matching sceneobject.ScissorsRect's Left/Right/Bottom/Top but in integer
// pixel coordinates as the GPU driver expects.
type ScissorRect struct {
	X, Y, Width, Height uint32
}

// GPUDriver is the core's own small dynamic-state contract (spec §6),
// deliberately shaped like an OpenGL-style immediate-mode driver rather
// than WebGPU's pipeline-object model: depth/stencil state, scissor rect and
// color-write mask as individually callable operations. A concrete adapter
// (wgpuDriver) is responsible for mapping these onto whatever the backend
// actually supports — some calls map directly to a dynamic
// RenderPassEncoder method, others select a cached GPURenderPipeline
// permutation baked ahead of time.
type GPUDriver interface {
	SetDepthStencilState(state DepthStencilState)
	SetScissor(rect ScissorRect)
	SetFullScissor()
	SetColorWriteEnabled(enabled bool)
}

// wgpuDriver adapts GPUDriver onto a wgpu render pass. Pass is expected to
// be the active encoder for the current render pass; it must be re-assigned
// (via SetPass) once per pass since wgpu has no notion of a persistent
// driver across passes.
type wgpuDriver struct {
	pass *wgpu.RenderPassEncoder

	viewportWidth, viewportHeight uint32

	// currentState/currentColorWrite are the two halves of the baked
	// pipeline permutation actually bound right now. SetDepthStencilState
	// and SetColorWriteEnabled each change only one half, but since wgpu
	// bakes both into a single GPURenderPipeline, either call must rebind
	// the pipeline for the *combined* (state, colorWrite) pair, not just
	// the half it was given.
	currentState      DepthStencilState
	currentColorWrite bool

	// pipelines caches one GPURenderPipeline per distinct baked-state
	// permutation this driver has been asked for, keyed by the
	// DepthStencilState + color-write-enabled combination (spec §9: "a
	// pipeline-baked backend should memoize permutations rather than
	// create one per draw call"). The renderer orchestration layer only
	// ever asks for a handful of distinct permutations per frame (ambient,
	// shadow-volume stencil, per-light lit, final pass), so this table
	// stays tiny.
	pipelines map[permutationKey]*wgpu.RenderPipeline
	// buildPipeline constructs a new permutation on a cache miss; supplied
	// by the caller since only engine/renderer knows how to assemble a
	// full GPURenderPipelineDescriptor (shader modules, vertex layout,
	// target formats) this driver has no access to.
	buildPipeline func(state DepthStencilState, colorWriteEnabled bool) *wgpu.RenderPipeline
}

type permutationKey struct {
	state             DepthStencilState
	colorWriteEnabled bool
}

// NewWGPUDriver creates a GPUDriver backed by a wgpu render pass. build is
// called once per distinct permutation ever requested and its result is
// cached for the adapter's lifetime.
func NewWGPUDriver(build func(state DepthStencilState, colorWriteEnabled bool) *wgpu.RenderPipeline) *wgpuDriver {
	return &wgpuDriver{
		pipelines:         make(map[permutationKey]*wgpu.RenderPipeline),
		buildPipeline:     build,
		currentColorWrite: true,
	}
}

// SetPass rebinds the driver to pass, the active render pass encoder for
// the frame or shadow pass currently being recorded.
func (d *wgpuDriver) SetPass(pass *wgpu.RenderPassEncoder) {
	d.pass = pass
}

func (d *wgpuDriver) SetDepthStencilState(state DepthStencilState) {
	d.currentState = state
	d.bindCurrentPermutation()
	if state.StencilEnabled {
		d.pass.SetStencilReference(state.StencilRef)
	}
}

func (d *wgpuDriver) SetScissor(rect ScissorRect) {
	d.pass.SetScissorRect(rect.X, rect.Y, rect.Width, rect.Height)
}

func (d *wgpuDriver) SetFullScissor() {
	// A zero-sized scissor is meaningless to wgpu; the caller supplies the
	// viewport's real extent the first time it calls this per frame, via
	// SetViewportExtent, cached here for exactly this purpose.
	d.SetScissor(ScissorRect{X: 0, Y: 0, Width: d.viewportWidth, Height: d.viewportHeight})
}

func (d *wgpuDriver) SetColorWriteEnabled(enabled bool) {
	d.currentColorWrite = enabled
	d.bindCurrentPermutation()
}

// bindCurrentPermutation binds the pipeline for the combined depth/stencil
// state and color-write flag currently set, building and caching it first
// if this exact permutation hasn't been requested before.
func (d *wgpuDriver) bindCurrentPermutation() {
	key := permutationKey{state: d.currentState, colorWriteEnabled: d.currentColorWrite}
	pipeline, ok := d.pipelines[key]
	if !ok {
		pipeline = d.buildPipeline(d.currentState, d.currentColorWrite)
		d.pipelines[key] = pipeline
	}
	d.pass.SetPipeline(pipeline)
}

// SetViewportExtent records the current render target size so SetFullScissor
// can restore an unscissored draw without the caller needing to repeat the
// dimensions at every call site.
func (d *wgpuDriver) SetViewportExtent(width, height uint32) {
	d.viewportWidth = width
	d.viewportHeight = height
}
