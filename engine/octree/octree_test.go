package octree

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(minv, maxv float32) bounds.AABB {
	return bounds.AABB{Min: mgl32.Vec3{minv, minv, minv}, Max: mgl32.Vec3{maxv, maxv, maxv}}
}

func wideOpenFrustum() bounds.Frustum {
	var f bounds.Frustum
	dirs := [6]mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for i, d := range dirs {
		f.Planes[i] = bounds.Plane{Normal: d, Distance: 1000}
	}
	return f
}

func TestBuildAndTraverseStrict(t *testing.T) {
	root := box(-100, 100)
	b := NewBuilder(root, false, 4, 1)

	// One entity per octant corner plus one straddling the center.
	refs := []Ref{}
	for i := uint32(0); i < 8; i++ {
		ref := NewObjectRef(i)
		refs = append(refs, ref)
		sign := func(bit int) float32 {
			if i&(1<<uint(bit)) != 0 {
				return 60
			}
			return -60
		}
		b.Insert(ref, bounds.AABB{
			Min: mgl32.Vec3{sign(0) - 5, sign(1) - 5, sign(2) - 5},
			Max: mgl32.Vec3{sign(0) + 5, sign(1) + 5, sign(2) + 5},
		})
	}
	straddler := NewObjectRef(100)
	b.Insert(straddler, box(-1, 1))

	o := b.Build()
	require.NotEmpty(t, o.Data)

	seen := map[Ref]bounds.Verdict{}
	Traverse(o, wideOpenFrustum(), nil, func(ref Ref, v bounds.Verdict) {
		seen[ref] = v
	})

	for _, r := range refs {
		assert.Contains(t, seen, r)
		assert.Equal(t, bounds.CompletelyInside, seen[r])
	}
	assert.Contains(t, seen, straddler)
}

func TestTraverseOutsideFrustumYieldsNothing(t *testing.T) {
	root := box(-100, 100)
	b := NewBuilder(root, false, 4, 1)
	b.Insert(NewObjectRef(1), box(-5, 5))
	o := b.Build()

	var farFrustum bounds.Frustum
	dirs := [6]mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for i, d := range dirs {
		farFrustum.Planes[i] = bounds.Plane{Normal: d, Distance: -1000} // entirely behind every plane
	}

	count := 0
	Traverse(o, farFrustum, nil, func(ref Ref, v bounds.Verdict) { count++ })
	assert.Equal(t, 0, count)
}

func TestExplicitBoundsVariant(t *testing.T) {
	root := box(-50, 50)
	b := NewBuilder(root, true, 3, 1)
	b.Insert(NewLightRef(3), box(10, 20))
	b.Insert(NewObjectRef(7), box(-20, -10))
	o := b.Build()

	require.True(t, o.Explicit)
	require.NotEmpty(t, o.AABBTable)
	require.Equal(t, len(o.AABBTable), len(o.SphereTable))

	var lightSeen, objectSeen bool
	Traverse(o, wideOpenFrustum(), nil, func(ref Ref, v bounds.Verdict) {
		if ref.IsLight() {
			lightSeen = true
			assert.Equal(t, uint32(3), ref.Index())
		} else {
			objectSeen = true
			assert.Equal(t, uint32(7), ref.Index())
		}
	})
	assert.True(t, lightSeen)
	assert.True(t, objectSeen)
}

func TestRootEntitiesOnlyVisitsRoot(t *testing.T) {
	root := box(-10, 10)
	b := NewBuilder(root, false, 0, 1) // maxDepth 0: single node, everything at root
	b.Insert(NewObjectRef(1), box(-10, -9))
	b.Insert(NewObjectRef(2), box(9, 10))
	o := b.Build()

	var got []Ref
	RootEntities(o, func(ref Ref) { got = append(got, ref) })
	assert.Len(t, got, 2)
}

func TestRefTagging(t *testing.T) {
	o := NewObjectRef(42)
	l := NewLightRef(42)
	assert.True(t, o.IsObject())
	assert.False(t, o.IsLight())
	assert.True(t, l.IsLight())
	assert.Equal(t, uint32(42), o.Index())
	assert.Equal(t, uint32(42), l.Index())
	assert.NotEqual(t, o, l)
}
