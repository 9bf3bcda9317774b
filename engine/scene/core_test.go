package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/culler"
	"github.com/Carmen-Shannon/oxy-go/engine/game_object"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
	"github.com/Carmen-Shannon/oxy-go/engine/shadowvolume"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func axisFrustum(halfExtent float32) bounds.Frustum {
	return bounds.Frustum{Planes: [6]bounds.Plane{
		{Normal: mgl32.Vec3{1, 0, 0}, Distance: halfExtent},
		{Normal: mgl32.Vec3{-1, 0, 0}, Distance: halfExtent},
		{Normal: mgl32.Vec3{0, 1, 0}, Distance: halfExtent},
		{Normal: mgl32.Vec3{0, -1, 0}, Distance: halfExtent},
		{Normal: mgl32.Vec3{0, 0, 1}, Distance: halfExtent},
		{Normal: mgl32.Vec3{0, 0, -1}, Distance: halfExtent},
	}}
}

func newTestObject() *sceneobject.Object {
	obj := &sceneobject.Object{GameObject: game_object.NewGameObject(), Flags: sceneobject.CastShadows}
	obj.WorldSphere = bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}
	obj.WorldAABB = bounds.AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	return obj
}

func TestCoreDetermineVisibleEntitiesFindsObjectAndLight(t *testing.T) {
	c := NewCore()
	obj := newTestObject()
	c.AddObject(obj)
	_, m := c.AddPointSource(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 1, 1}, 1, 20, false)
	_ = m

	c.Rebuild(bounds.AABB{Min: mgl32.Vec3{-50, -50, -50}, Max: mgl32.Vec3{50, 50, 50}}, 4, 4)

	frustum := &culler.Frustum{Planes: axisFrustum(40), Viewpoint: mgl32.Vec3{0, 0, 30}, FovY: 1.2, ViewportHeight: 720}
	c.Context().BeginFrame()
	c.DetermineVisibleEntities(frustum)

	require.Len(t, c.Result().VisibleObjects, 1)
	require.Len(t, c.Result().VisibleLights, 1)
}

func TestCoreCalculateStaticLightObjectListsPopulatesCaster(t *testing.T) {
	c := NewCore()
	obj := newTestObject()
	c.AddObject(obj)
	c.AddPointSource(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{1, 1, 1}, 1, 50, false)

	c.CalculateStaticLightObjectLists()

	require.Len(t, c.lights, 1)
	assert.Len(t, c.lights[0].ShadowCasterObjects, 1)
	assert.Len(t, obj.GeometryScissorsCache, 1)
}

func triMesh() *shadowvolume.Mesh {
	m := &shadowvolume.Mesh{
		Positions: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Triangles: [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	}
	m.BuildEdges()
	return m
}

func TestCoreBuildShadowVolumeCachesAcrossFrames(t *testing.T) {
	c := NewCore()
	obj := newTestObject()
	obj.Flags = sceneobject.CastShadows
	_, m := c.AddPointSource(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{1, 1, 1}, 1, 20, false)

	meshFor := func(o *sceneobject.Object) (*shadowvolume.Mesh, uint64) { return triMesh(), 1 }

	c.Context().BeginFrame()
	first := c.BuildShadowVolume(obj, m, meshFor, mgl32.Ident4(), true)
	require.Greater(t, first.SideIndexCount, 0)

	hitsBefore, _ := c.objectShadowCache.Stats()
	c.Context().BeginFrame()
	second := c.BuildShadowVolume(obj, m, meshFor, mgl32.Ident4(), true)
	hitsAfter, _ := c.objectShadowCache.Stats()

	assert.Equal(t, first.SideIndexCount, second.SideIndexCount)
	assert.Greater(t, hitsAfter, hitsBefore)
}

func TestCoreBuildShadowVolumeInvalidatedAfterLightMoves(t *testing.T) {
	c := NewCore()
	obj := newTestObject()
	_, m := c.AddPointSource(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{1, 1, 1}, 1, 20, false)
	meshFor := func(o *sceneobject.Object) (*shadowvolume.Mesh, uint64) { return triMesh(), 1 }

	c.Context().BeginFrame()
	c.BuildShadowVolume(obj, m, meshFor, mgl32.Ident4(), true)

	c.Context().BeginFrame()
	c.ChangeLightPosition(m, mgl32.Vec3{3, 0, 5}, c.Context().CurrentFrame)

	_, missesBefore := c.objectShadowCache.Stats()
	c.BuildShadowVolume(obj, m, meshFor, mgl32.Ident4(), true)
	_, missesAfter := c.objectShadowCache.Stats()

	assert.Greater(t, missesAfter, missesBefore)
}
