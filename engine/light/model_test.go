package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/game_object"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRefreshPoint(t *testing.T) {
	l := NewLight(LightTypePoint, WithPosition(1, 2, 3), WithRange(10))
	m := NewModel(1, l, false)
	m.Refresh()

	assert.Equal(t, float32(1), m.PrimarySphere.Center[0])
	assert.Equal(t, float32(10), m.PrimarySphere.Radius)
}

func TestModelRefreshBeamBoundsCylinder(t *testing.T) {
	l := NewLight(LightTypeBeam, WithPosition(0, 0, 0), WithDirection(0, 0, -1), WithRange(20), WithBeamRadius(0.5))
	m := NewModel(2, l, false)
	m.Refresh()

	assert.Equal(t, float32(20), m.BeamCylinder.HalfHeight*2)
	assert.Equal(t, float32(0.5), m.BeamCylinder.Radius)
}

func TestModelTightVolumeHitSpotFallsBackToTrueWhenSphereHits(t *testing.T) {
	l := NewLight(LightTypeSpot, WithPosition(0, 0, 0), WithDirection(0, 0, -1), WithRange(10), WithSpotCone(20, 30))
	m := NewModel(3, l, false)
	m.Refresh()

	f := bounds.Frustum{Planes: [6]bounds.Plane{
		{Normal: mustVec3(1, 0, 0), Distance: 1000},
		{Normal: mustVec3(-1, 0, 0), Distance: 1000},
		{Normal: mustVec3(0, 1, 0), Distance: 1000},
		{Normal: mustVec3(0, -1, 0), Distance: 1000},
		{Normal: mustVec3(0, 0, 1), Distance: 1000},
		{Normal: mustVec3(0, 0, -1), Distance: 1000},
	}}
	assert.True(t, m.TightVolumeHit(f))
}

type fakeStaticObjects struct {
	objects []*sceneobject.Object
}

func (f fakeStaticObjects) StaticObjects() []*sceneobject.Object { return f.objects }

func TestCalculateStaticLightObjectListsPartitionsShadowCasters(t *testing.T) {
	l := NewLight(LightTypePoint, WithPosition(0, 0, 0), WithRange(100))
	m := NewModel(5, l, false)
	m.Refresh()

	inLight := &sceneobject.Object{GameObject: game_object.NewGameObject(), Flags: sceneobject.CastShadows}
	inLight.SetID(1)
	inLight.WorldSphere = bounds.Sphere{Center: mustVec3(1, 0, 0), Radius: 1}
	inLight.WorldAABB = bounds.AABB{Min: mustVec3(0, -1, -1), Max: mustVec3(2, 1, 1)}

	noShadow := &sceneobject.Object{GameObject: game_object.NewGameObject()}
	noShadow.SetID(2)
	noShadow.WorldSphere = bounds.Sphere{Center: mustVec3(2, 0, 0), Radius: 1}
	noShadow.WorldAABB = bounds.AABB{Min: mustVec3(1, -1, -1), Max: mustVec3(3, 1, 1)}

	outside := &sceneobject.Object{GameObject: game_object.NewGameObject(), Flags: sceneobject.CastShadows}
	outside.SetID(3)
	outside.WorldSphere = bounds.Sphere{Center: mustVec3(500, 500, 500), Radius: 1}
	outside.WorldAABB = bounds.AABB{Min: mustVec3(499, 499, 499), Max: mustVec3(501, 501, 501)}

	m.CalculateStaticLightObjectLists(fakeStaticObjects{objects: []*sceneobject.Object{inLight, noShadow, outside}})

	require.Len(t, m.LightVolumeObjects, 2)
	require.Len(t, m.ShadowCasterObjects, 1)
	require.Len(t, inLight.StaticShadowVolumes, 1)
	assert.Equal(t, sceneobject.ShadowPrimitivePyramidCone, inLight.StaticShadowVolumes[0].Primitive.Kind)

	require.Len(t, inLight.GeometryScissorsCache, 1)
	assert.Equal(t, m.ID, inLight.GeometryScissorsCache[0].LightID)
	assert.Empty(t, outside.GeometryScissorsCache)
}

func mustVec3(x, y, z float32) [3]float32 {
	return [3]float32{x, y, z}
}
