package bounds

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func unitCube() AABB {
	return AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
}

func axisFrustum(halfExtent float32) Frustum {
	var f Frustum
	// Six planes of a cube frustum centered on the origin with the given
	// half-extent, normals pointing inward.
	dirs := [6]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	for i, d := range dirs {
		f.Planes[i] = Plane{Normal: d, Distance: halfExtent}
	}
	return f
}

func TestVerdictAABB(t *testing.T) {
	f := axisFrustum(10)

	assert.Equal(t, CompletelyInside, f.VerdictAABB(unitCube()))

	far := AABB{Min: mgl32.Vec3{100, 100, 100}, Max: mgl32.Vec3{101, 101, 101}}
	assert.Equal(t, CompletelyOutside, f.VerdictAABB(far))

	straddling := AABB{Min: mgl32.Vec3{8, -1, -1}, Max: mgl32.Vec3{12, 1, 1}}
	assert.Equal(t, PartiallyInside, f.VerdictAABB(straddling))
}

func TestVerdictSphere(t *testing.T) {
	f := axisFrustum(10)
	assert.Equal(t, CompletelyInside, f.VerdictSphere(Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}))
	assert.Equal(t, CompletelyOutside, f.VerdictSphere(Sphere{Center: mgl32.Vec3{100, 0, 0}, Radius: 1}))
	assert.Equal(t, PartiallyInside, f.VerdictSphere(Sphere{Center: mgl32.Vec3{10, 0, 0}, Radius: 2}))
}

func TestResolveSkipsTighterWhenSphereDecides(t *testing.T) {
	called := false
	tighter := func() Verdict {
		called = true
		return PartiallyInside
	}

	got := Resolve(CompletelyOutside, tighter)
	assert.Equal(t, CompletelyOutside, got)
	assert.False(t, called, "tighter test must not run when the sphere already resolved the query")

	got = Resolve(PartiallyInside, tighter)
	assert.Equal(t, PartiallyInside, got)
	assert.True(t, called, "tighter test must run when the sphere verdict is undecided")
}

func TestSphereIntersectsAABB(t *testing.T) {
	box := unitCube()
	assert.True(t, SphereIntersectsAABB(Sphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 0.1}, box))
	assert.True(t, SphereIntersectsAABB(Sphere{Center: mgl32.Vec3{2, 0, 0}, Radius: 1.5}, box))
	assert.False(t, SphereIntersectsAABB(Sphere{Center: mgl32.Vec3{5, 0, 0}, Radius: 1}, box))
}

func TestAABBsIntersect(t *testing.T) {
	a := unitCube()
	b := AABB{Min: mgl32.Vec3{0.5, 0.5, 0.5}, Max: mgl32.Vec3{3, 3, 3}}
	assert.True(t, AABBsIntersect(a, b))

	c := AABB{Min: mgl32.Vec3{5, 5, 5}, Max: mgl32.Vec3{6, 6, 6}}
	assert.False(t, AABBsIntersect(a, c))
}

func TestAABBContainsAABB(t *testing.T) {
	outer := AABB{Min: mgl32.Vec3{-10, -10, -10}, Max: mgl32.Vec3{10, 10, 10}}
	assert.True(t, AABBContainsAABB(outer, unitCube()))
	assert.False(t, AABBContainsAABB(unitCube(), outer))
}

func TestSphereIntersectsSector(t *testing.T) {
	sec := SphericalSector{
		Apex:         mgl32.Vec3{0, 0, 0},
		Axis:         mgl32.Vec3{0, 0, 1},
		Radius:       10,
		CosHalfAngle: 0.9, // ~25.8 degrees
	}
	// Dead ahead, well within range and angle.
	assert.True(t, SphereIntersectsSector(Sphere{Center: mgl32.Vec3{0, 0, 5}, Radius: 1}, sec))
	// Directly behind the apex, outside the cone.
	assert.False(t, SphereIntersectsSector(Sphere{Center: mgl32.Vec3{0, 0, -5}, Radius: 0.5}, sec))
	// Beyond the range sphere entirely.
	assert.False(t, SphereIntersectsSector(Sphere{Center: mgl32.Vec3{0, 0, 50}, Radius: 1}, sec))
}

func TestOctantSubdivision(t *testing.T) {
	root := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	// Octant 0 (all low bits) should sit in the negative corner.
	c0 := root.Octant(0)
	assert.True(t, AABBContainsAABB(root, c0))
	assert.Less(t, c0.Center()[0], float32(0))

	// Octant 7 (all high bits) should sit in the positive corner.
	c7 := root.Octant(7)
	assert.True(t, AABBContainsAABB(root, c7))
	assert.Greater(t, c7.Center()[0], float32(0))
}
