package shadowvolume

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadMesh builds a single-quad (two-triangle) flat mesh lying in the XY
// plane, facing +Z.
func quadMesh() *Mesh {
	m := &Mesh{
		Positions: []mgl32.Vec3{
			{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
		},
		Triangles: [][3]uint32{
			{0, 1, 2},
			{0, 2, 3},
		},
	}
	m.BuildEdges()
	return m
}

func TestBuildEdgesFindsSharedAndBoundaryEdges(t *testing.T) {
	m := quadMesh()
	require.Len(t, m.Edges, 5) // 3 per triangle = 6, minus 1 shared = 5 distinct

	shared := 0
	boundary := 0
	for _, e := range m.Edges {
		if e.TriB < 0 {
			boundary++
		} else {
			shared++
		}
	}
	assert.Equal(t, 1, shared)
	assert.Equal(t, 4, boundary)
}

func TestExtractSilhouetteOfFlatQuadUnderPointLightIsItsBoundary(t *testing.T) {
	m := quadMesh()
	light := Light{Position: mgl32.Vec3{0, 0, 5}}

	sil := ExtractSilhouette(m, light)
	assert.Len(t, sil, 4) // every boundary edge is silhouette; the shared interior edge never is since both triangles face the light identically
}

func TestExtractSilhouetteDirectionalLightBehindMeshYieldsNoFacingTriangles(t *testing.T) {
	m := quadMesh()
	light := Light{Directional: true, Direction: mgl32.Vec3{0, 0, 1}} // travels +Z, so it illuminates from -Z side

	facing := LightFacingTriangles(m, light)
	assert.Empty(t, facing)
}

func TestBuildDepthFailProducesCappedGeometry(t *testing.T) {
	m := quadMesh()
	light := Light{Position: mgl32.Vec3{0, 0, 5}}

	g := Build(m, light, true)
	assert.Equal(t, MethodDepthFail, g.Method)
	assert.Greater(t, g.LightCapIndexCount, 0)
	assert.Greater(t, g.SideIndexCount, 0)
	assert.Equal(t, len(g.Positions), 2*len(m.Positions))
}

func TestBuildDepthPassSkipsCaps(t *testing.T) {
	m := quadMesh()
	light := Light{Position: mgl32.Vec3{0, 0, 5}}

	g := Build(m, light, false)
	assert.Equal(t, MethodDepthPass, g.Method)
	assert.Equal(t, 0, g.LightCapIndexCount)
	assert.Equal(t, 0, g.DarkCapIndexCount)
	assert.Greater(t, g.SideIndexCount, 0)
}

func TestObjectCacheHitAfterStore(t *testing.T) {
	c := NewObjectCache()
	key := ObjectCacheKey{ObjectID: 1, LightID: 2}

	_, ok := c.Lookup(key, 0)
	assert.False(t, ok)

	geo := Geometry{SideIndexCount: 6}
	c.Store(key, geo, 5)

	got, ok := c.Lookup(key, 5)
	require.True(t, ok)
	assert.Equal(t, 6, got.SideIndexCount)
}

func TestObjectCacheInvalidatedByNewerChangeFrame(t *testing.T) {
	c := NewObjectCache()
	key := ObjectCacheKey{ObjectID: 1, LightID: 2}
	c.Store(key, Geometry{}, 5)

	_, ok := c.Lookup(key, 10) // light/object changed on frame 10, entry stamped at 5
	assert.False(t, ok)
}

// cubeMesh builds a closed unit cube (12 triangles, no boundary edges).
func cubeMesh() *Mesh {
	m := &Mesh{
		Positions: []mgl32.Vec3{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		},
		Triangles: [][3]uint32{
			{0, 1, 2}, {0, 2, 3}, // back (-Z)
			{5, 4, 7}, {5, 7, 6}, // front (+Z)
			{4, 0, 3}, {4, 3, 7}, // left (-X)
			{1, 5, 6}, {1, 6, 2}, // right (+X)
			{3, 2, 6}, {3, 6, 7}, // top (+Y)
			{4, 5, 1}, {4, 1, 0}, // bottom (-Y)
		},
	}
	m.BuildEdges()
	return m
}

func TestMeshClosedDetectsBoundaryEdges(t *testing.T) {
	assert.True(t, cubeMesh().Closed())
	assert.False(t, quadMesh().Closed())
}

func TestSilhouetteReversedFlagMatchesLightFacingOfFirstAdjacentTriangle(t *testing.T) {
	m := cubeMesh()
	light := Light{Position: mgl32.Vec3{0, 0, 5}, Kind: LightKindPoint}
	facing := classifyFaces(m, light)

	for _, e := range m.Edges {
		if e.TriB < 0 {
			continue
		}
		if facing[e.TriA] == facing[e.TriB] {
			continue
		}
		sil := findSilhouetteEdge(t, m, light, e)
		assert.Equal(t, facing[e.TriA], sil.Reversed, "Reversed must equal light_facing(adjacentTri0)")
	}
}

func findSilhouetteEdge(t *testing.T, m *Mesh, light Light, e Edge) SilhouetteEdge {
	t.Helper()
	for _, sil := range ExtractSilhouette(m, light) {
		if (sil.V0 == e.V0 && sil.V1 == e.V1) || (sil.V0 == e.V1 && sil.V1 == e.V0) {
			return sil
		}
	}
	t.Fatalf("silhouette edge for (%d,%d) not found", e.V0, e.V1)
	return SilhouetteEdge{}
}

func TestBuildPointLightUsesTriangleStripSideEncoding(t *testing.T) {
	m := quadMesh()
	light := Light{Position: mgl32.Vec3{0, 0, 5}, Kind: LightKindPoint}

	g := Build(m, light, false)
	assert.Equal(t, EncodingTriangleStrip, g.Encoding)
	assert.False(t, g.EncodingFellBack)
	// 4 boundary edges * 5 indices (4 verts + restart) each.
	assert.Equal(t, 20, g.SideIndexCount)
}

func TestBuildDirectionalLightOnClosedMeshUsesTriangleFan(t *testing.T) {
	m := cubeMesh()
	light := Light{Directional: true, Direction: mgl32.Vec3{0, 0, 1}, Kind: LightKindDirectional}

	g := Build(m, light, false)
	assert.Equal(t, EncodingTriangleFan, g.Encoding)
	assert.False(t, g.EncodingFellBack)
}

func TestBuildDirectionalLightOnOpenMeshFallsBackToTriangleList(t *testing.T) {
	m := quadMesh()
	light := Light{Directional: true, Direction: mgl32.Vec3{0, 0, 1}, Kind: LightKindDirectional}

	g := Build(m, light, false)
	assert.Equal(t, EncodingTriangleList, g.Encoding)
}

func TestObjectCacheEvictsOldestWithinSetWhenFull(t *testing.T) {
	c := NewObjectCache()
	base := ObjectCacheKey{ObjectID: 0, LightID: 0}

	// Force 5 distinct keys into the same set: with ObjectCacheSize/ways
	// sets and LightID fixed at 0, colliding on hash%numSets is guaranteed
	// by using multiples of numSets as the ObjectID.
	numSets := ObjectCacheSize / ways
	for i := 0; i < ways+1; i++ {
		k := base
		k.ObjectID = uint64(i * numSets)
		c.Store(k, Geometry{SideIndexCount: i}, uint64(i))
	}

	// The first-inserted (oldest, frame 0) key should have been evicted.
	evicted := base
	evicted.ObjectID = 0
	_, ok := c.Lookup(evicted, 0)
	assert.False(t, ok)

	// The most recently inserted key should still be present.
	newest := base
	newest.ObjectID = uint64(ways * numSets)
	got, ok := c.Lookup(newest, 0)
	require.True(t, ok)
	assert.Equal(t, ways, got.SideIndexCount)
}
