package octree

import "github.com/Carmen-Shannon/oxy-go/engine/bounds"

// Octree is a compressed, array-backed spatial index. Data packs every node
// depth-first as a flat run of uint32 words; Explicit selects which of the
// two header encodings spec.md §3 describes:
//
//   - Explicit-bounds (Explicit == true): each node is
//     [node_index, octant_bitfield, entity_count, entity[0..n-1], child_offset[0..k-1]].
//     node_index looks up an arbitrary AABB/sphere in AABBTable/SphereTable.
//   - Strict-regular (Explicit == false): each node is
//     [octant_bitfield, entity_count, entity[0..n-1], child_offset[0..k-1]].
//     Bounds are never stored; a child's AABB is synthesized from its
//     parent's via AABB.Octant, following the regular {0.25, 0.75} half-split.
//
// Only one Octree instance exists per (entity kind × dynamism) slice of the
// scene: the static tree holds every object/light without a dynamic
// position (built once, immutable after CalculateStaticLightObjectLists —
// invariant I2); the dynamic tree holds only dynamic-position entities and,
// per spec, is built shallow enough that traversal only ever visits its
// root. engine/culler also accepts a parallel pair of infinite-distance
// trees and tests them against the same frustum planes, far plane
// included; engine/scene never builds that pair.
type Octree struct {
	Explicit    bool
	Data        []uint32
	AABBTable   []bounds.AABB
	SphereTable []bounds.Sphere
	RootOffset  uint32
	RootAABB    bounds.AABB
}

// NodeFilter lets a traversal caller prune a node's subtree for a reason
// unrelated to frustum containment — e.g. the OCTREE_SIZE_CUTOFF rule
// (spec §4.2), which drops a node once its projected screen size is
// negligible and the viewpoint sits outside its AABB. Returning false skips
// the node's entities and all descendants.
type NodeFilter func(nodeAABB bounds.AABB, verdict bounds.Verdict) bool

// VisitFunc receives every entity reference Traverse or RootEntities
// yields, tagged with the containment verdict of the node it was found in.
type VisitFunc func(ref Ref, verdict bounds.Verdict)

// Traverse walks the tree depth-first against f, threading the containment
// verdict downward so CompletelyInside nodes skip their own boundary test
// (spec §4.1/§4.2). filter may be nil.
func Traverse(o *Octree, f bounds.Frustum, filter NodeFilter, visit VisitFunc) {
	if o == nil || len(o.Data) == 0 {
		return
	}
	traverseNode(o, o.RootOffset, o.RootAABB, f, bounds.PartiallyInside, filter, visit)
}

func traverseNode(o *Octree, offset uint32, reconstructedAABB bounds.AABB, f bounds.Frustum, inherited bounds.Verdict, filter NodeFilter, visit VisitFunc) {
	pos := offset

	var nodeAABB bounds.AABB
	var nodeSphere bounds.Sphere
	if o.Explicit {
		nodeIndex := o.Data[pos]
		pos++
		nodeAABB = o.AABBTable[nodeIndex]
		nodeSphere = o.SphereTable[nodeIndex]
	} else {
		nodeAABB = reconstructedAABB
		nodeSphere = nodeAABB.BoundingSphere()
	}

	verdict := inherited
	if verdict != bounds.CompletelyInside {
		sphereVerdict := f.VerdictSphere(nodeSphere)
		verdict = bounds.Resolve(sphereVerdict, func() bounds.Verdict { return f.VerdictAABB(nodeAABB) })
		if verdict == bounds.CompletelyOutside {
			return
		}
	}

	if filter != nil && !filter(nodeAABB, verdict) {
		return
	}

	bitfield := o.Data[pos]
	pos++
	count := o.Data[pos]
	pos++
	for i := uint32(0); i < count; i++ {
		visit(Ref(o.Data[pos]), verdict)
		pos++
	}

	childSlot := uint32(0)
	for bit := 0; bit < 8; bit++ {
		if bitfield&(1<<uint(bit)) == 0 {
			continue
		}
		childOffset := o.Data[pos+childSlot]
		childSlot++
		var childAABB bounds.AABB
		if !o.Explicit {
			childAABB = nodeAABB.Octant(uint8(bit))
		}
		traverseNode(o, childOffset, childAABB, f, verdict, filter, visit)
	}
}

// RootEntities visits only the entities stored at the tree's root node,
// ignoring any children. Dynamic octrees and infinite-distance octrees are
// built shallow enough that all of their entities live at the root, so
// this is the cheap per-frame path spec §4.2 calls for instead of a full
// Traverse.
func RootEntities(o *Octree, visit func(Ref)) {
	if o == nil || len(o.Data) == 0 {
		return
	}
	pos := o.RootOffset
	if o.Explicit {
		pos++
	}
	pos++ // octant_bitfield
	count := o.Data[pos]
	pos++
	for i := uint32(0); i < count; i++ {
		visit(Ref(o.Data[pos]))
		pos++
	}
}
