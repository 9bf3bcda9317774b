package culler

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/octree"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	records map[uint32]ObjectRecord
	visible map[uint32]uint64
	final   map[uint32]bool
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{
		records: map[uint32]ObjectRecord{},
		visible: map[uint32]uint64{},
		final:   map[uint32]bool{},
	}
}

func (f *fakeObjects) Object(index uint32) ObjectRecord { return f.records[index] }
func (f *fakeObjects) MarkVisible(index uint32, frame uint64, size float32) {
	f.visible[index] = frame
}
func (f *fakeObjects) MarkFinalPass(index uint32, size float32) { f.final[index] = true }

type fakeLights struct {
	records map[uint32]LightRecord
	visible map[uint32]bool
}

func newFakeLights() *fakeLights {
	return &fakeLights{records: map[uint32]LightRecord{}, visible: map[uint32]bool{}}
}

func (f *fakeLights) Light(index uint32) LightRecord { return f.records[index] }
func (f *fakeLights) MarkVisible(index uint32, size float32) { f.visible[index] = true }

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

func buildSingleObjectTree(t *testing.T, ref octree.Ref, center mgl32.Vec3) *octree.Octree {
	t.Helper()
	root := bounds.AABB{Min: mgl32.Vec3{-100, -100, -100}, Max: mgl32.Vec3{100, 100, 100}}
	b := octree.NewBuilder(root, true, 4, 4)
	b.Insert(ref, bounds.AABB{Min: center.Sub(mgl32.Vec3{1, 1, 1}), Max: center.Add(mgl32.Vec3{1, 1, 1})})
	return b.Build()
}

func TestDetermineVisibleEntitiesBasic(t *testing.T) {
	ref := octree.NewObjectRef(0)
	tree := buildSingleObjectTree(t, ref, mgl32.Vec3{0, 0, 0})

	objects := newFakeObjects()
	objects.records[0] = ObjectRecord{Sphere: bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}}
	lights := newFakeLights()

	c := New(objects, lights)
	frustum := &Frustum{Planes: axisFrustum(50), Viewpoint: mgl32.Vec3{0, 0, 20}, FovY: 1.2, ViewportHeight: 720}

	var result Result
	c.DetermineVisibleEntities(frustum, Trees{Static: tree}, 1, &result)

	require.Len(t, result.VisibleObjects, 1)
	assert.Equal(t, ref, result.VisibleObjects[0])
	assert.Equal(t, uint64(1), objects.visible[0])
	assert.Equal(t, 1, result.NuStaticVisibleObjects)
}

func TestDetermineVisibleEntitiesIdempotentOnUnchangedFrustum(t *testing.T) {
	ref := octree.NewObjectRef(0)
	tree := buildSingleObjectTree(t, ref, mgl32.Vec3{0, 0, 0})

	objects := newFakeObjects()
	objects.records[0] = ObjectRecord{Sphere: bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}}
	lights := newFakeLights()

	c := New(objects, lights)
	frustum := &Frustum{Planes: axisFrustum(50), Viewpoint: mgl32.Vec3{0, 0, 20}, FovY: 1.2, ViewportHeight: 720}

	var result Result
	c.DetermineVisibleEntities(frustum, Trees{Static: tree}, 1, &result)
	first := append([]octree.Ref(nil), result.VisibleObjects...)

	// Frame 2: frustum unchanged (MostRecentFrameChanged stays 0), so the
	// static prefix must be reused verbatim rather than retraversed.
	c.DetermineVisibleEntities(frustum, Trees{Static: tree}, 2, &result)

	assert.Equal(t, first, result.VisibleObjects)
}

func TestDetermineVisibleEntitiesRejectsBelowSizeCutoff(t *testing.T) {
	ref := octree.NewObjectRef(0)
	tree := buildSingleObjectTree(t, ref, mgl32.Vec3{0, 0, 0})

	objects := newFakeObjects()
	objects.records[0] = ObjectRecord{Sphere: bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 0.0001}}
	lights := newFakeLights()

	c := New(objects, lights)
	frustum := &Frustum{Planes: axisFrustum(50), Viewpoint: mgl32.Vec3{0, 0, 5000}, FovY: 1.2, ViewportHeight: 720}

	var result Result
	c.DetermineVisibleEntities(frustum, Trees{Static: tree}, 1, &result)

	assert.Empty(t, result.VisibleObjects)
}

func TestDetermineVisibleEntitiesRoutesFinalPassObjects(t *testing.T) {
	ref := octree.NewObjectRef(0)
	tree := buildSingleObjectTree(t, ref, mgl32.Vec3{0, 0, 0})

	objects := newFakeObjects()
	objects.records[0] = ObjectRecord{
		Sphere:        bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1},
		FinalPassOnly: true,
	}
	lights := newFakeLights()

	c := New(objects, lights)
	frustum := &Frustum{Planes: axisFrustum(50), Viewpoint: mgl32.Vec3{0, 0, 20}, FovY: 1.2, ViewportHeight: 720}

	var result Result
	c.DetermineVisibleEntities(frustum, Trees{Static: tree}, 1, &result)

	assert.Empty(t, result.VisibleObjects)
	require.Len(t, result.FinalPassObjects, 1)
	assert.True(t, objects.final[0])
}

func TestDetermineVisibleEntitiesLightWorstCaseThenTight(t *testing.T) {
	lightRef := octree.NewLightRef(0)
	root := bounds.AABB{Min: mgl32.Vec3{-100, -100, -100}, Max: mgl32.Vec3{100, 100, 100}}
	b := octree.NewBuilder(root, true, 4, 4)
	b.Insert(lightRef, bounds.AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}})
	tree := b.Build()

	objects := newFakeObjects()
	lights := newFakeLights()

	tightCalled := false
	lights.records[0] = LightRecord{
		Sphere:          bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1},
		Directional:     false,
		HasWorstCase:    true,
		WorstCaseSphere: bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 5},
		TightVolumeHit: func(bounds.Frustum) bool {
			tightCalled = true
			return true
		},
	}

	c := New(objects, lights)
	frustum := &Frustum{Planes: axisFrustum(50), Viewpoint: mgl32.Vec3{0, 0, 20}, FovY: 1.2, ViewportHeight: 720}

	var result Result
	c.DetermineVisibleEntities(frustum, Trees{Static: tree}, 1, &result)

	require.Len(t, result.VisibleLights, 1)
	assert.True(t, tightCalled)
	assert.True(t, lights.visible[0])
}

func TestDetermineVisibleEntitiesDynamicRootReplaysEveryFrame(t *testing.T) {
	ref := octree.NewObjectRef(0)
	root := bounds.AABB{Min: mgl32.Vec3{-10, -10, -10}, Max: mgl32.Vec3{10, 10, 10}}
	b := octree.NewBuilder(root, false, 0, 4)
	b.Insert(ref, bounds.AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}})
	dynamic := b.Build()

	objects := newFakeObjects()
	objects.records[0] = ObjectRecord{Sphere: bounds.Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}}
	lights := newFakeLights()

	c := New(objects, lights)
	frustum := &Frustum{Planes: axisFrustum(50), Viewpoint: mgl32.Vec3{0, 0, 20}, FovY: 1.2, ViewportHeight: 720}

	var result Result
	c.DetermineVisibleEntities(frustum, Trees{Dynamic: dynamic}, 1, &result)
	require.Len(t, result.VisibleObjects, 1)

	c.DetermineVisibleEntities(frustum, Trees{Dynamic: dynamic}, 2, &result)
	require.Len(t, result.VisibleObjects, 1)
}
