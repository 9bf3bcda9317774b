package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/culler"
	"github.com/Carmen-Shannon/oxy-go/engine/octree"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
	"github.com/Carmen-Shannon/oxy-go/engine/shadowvolume"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	scissorCalls     int
	fullScissorCalls int
	stateCalls       []DepthStencilState
	colorWrites      []bool
}

func (f *fakeDriver) SetDepthStencilState(state DepthStencilState) {
	f.stateCalls = append(f.stateCalls, state)
}
func (f *fakeDriver) SetScissor(rect ScissorRect) { f.scissorCalls++ }
func (f *fakeDriver) SetFullScissor()             { f.fullScissorCalls++ }
func (f *fakeDriver) SetColorWriteEnabled(enabled bool) {
	f.colorWrites = append(f.colorWrites, enabled)
}

func TestRenderSequencesAmbientShadowLitAndFinalPasses(t *testing.T) {
	c := NewCore()

	obj := newTestObject()
	obj.Flags = sceneobject.CastShadows
	obj.ModelMatrix = mgl32.Ident4()
	c.AddObject(obj)

	emissive := newTestObject()
	emissive.Flags = sceneobject.EmissionOnly
	c.AddObject(emissive)

	_, m := c.AddPointSource(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{1, 1, 1}, 1, 20, false)
	c.CalculateStaticLightObjectLists()
	require.Len(t, m.ShadowCasterObjects, 1)

	c.Rebuild(bounds.AABB{Min: mgl32.Vec3{-50, -50, -50}, Max: mgl32.Vec3{50, 50, 50}}, 4, 4)

	frustum := &culler.Frustum{Planes: axisFrustum(40), Viewpoint: mgl32.Vec3{0, 0, 30}, FovY: 1.2, ViewportHeight: 720}
	meshFor := func(o *sceneobject.Object) (*shadowvolume.Mesh, uint64) { return triMesh(), 1 }

	driver := &fakeDriver{}
	var ambientDraws, shadowDraws, litDraws, finalDraws int

	c.Render(driver, frustum, meshFor, Hooks{
		DrawAmbient: func(ref octree.Ref, obj *sceneobject.Object) { ambientDraws++ },
		DrawShadowVolume: func(ref octree.Ref, obj *sceneobject.Object, geo shadowvolume.Geometry) {
			shadowDraws++
			assert.Greater(t, geo.SideIndexCount, 0)
		},
		DrawLit:   func(ref octree.Ref, obj *sceneobject.Object, lightID uint64) { litDraws++ },
		DrawFinal: func(ref octree.Ref, obj *sceneobject.Object) { finalDraws++ },
	})

	assert.Equal(t, 1, ambientDraws)
	assert.Equal(t, 1, shadowDraws)
	assert.Equal(t, 1, litDraws)
	assert.Equal(t, 1, finalDraws)
	assert.GreaterOrEqual(t, driver.fullScissorCalls, 1)
	assert.NotEmpty(t, driver.stateCalls)
}
