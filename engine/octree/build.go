package octree

import "github.com/Carmen-Shannon/oxy-go/engine/bounds"

// Builder accumulates (entity, world AABB) pairs and flattens them into an
// Octree. Entities are pushed down into a single child octant only when
// their AABB fits entirely inside it; an entity straddling an octant
// boundary is kept at the node that contains it, which is what keeps
// traversal correct without per-entity boundary epsilon tuning.
type Builder struct {
	explicit     bool
	maxDepth     int
	leafCapacity int
	root         *buildNode
	rootAABB     bounds.AABB
}

type buildNode struct {
	aabb     bounds.AABB
	entities []Ref
	children [8]*buildNode
}

// NewBuilder creates a Builder rooted at rootAABB.
//
//   - explicit selects the explicit-bounds encoding (Octree.Explicit); pass
//     false for the strict-regular encoding.
//   - maxDepth caps subdivision; pass 0 to build a single-node (root-only)
//     tree, which is how dynamic and infinite-distance octrees are built
//     per spec §3 (their traversal only ever visits the root anyway).
//   - leafCapacity is the entity count a node tolerates before the builder
//     starts pushing new insertions into child octants.
func NewBuilder(rootAABB bounds.AABB, explicit bool, maxDepth, leafCapacity int) *Builder {
	if leafCapacity < 1 {
		leafCapacity = 1
	}
	return &Builder{
		explicit:     explicit,
		maxDepth:     maxDepth,
		leafCapacity: leafCapacity,
		root:         &buildNode{aabb: rootAABB},
		rootAABB:     rootAABB,
	}
}

// Insert adds an entity with its world-space AABB to the tree.
func (b *Builder) Insert(ref Ref, aabb bounds.AABB) {
	insert(b.root, aabb, ref, 0, b.maxDepth, b.leafCapacity)
}

func insert(n *buildNode, aabb bounds.AABB, ref Ref, depth, maxDepth, leafCapacity int) {
	if depth < maxDepth && len(n.entities) >= leafCapacity {
		if bit, ok := singleOctant(n.aabb, aabb); ok {
			child := n.children[bit]
			if child == nil {
				child = &buildNode{aabb: n.aabb.Octant(bit)}
				n.children[bit] = child
			}
			insert(child, aabb, ref, depth+1, maxDepth, leafCapacity)
			return
		}
	}
	n.entities = append(n.entities, ref)
}

// singleOctant reports which single child octant of parent fully contains
// child, if exactly one does.
func singleOctant(parent bounds.AABB, child bounds.AABB) (uint8, bool) {
	for bit := uint8(0); bit < 8; bit++ {
		oct := parent.Octant(bit)
		if bounds.AABBContainsAABB(oct, child) {
			return bit, true
		}
	}
	return 0, false
}

// Build flattens the accumulated tree into an Octree.
func (b *Builder) Build() *Octree {
	o := &Octree{Explicit: b.explicit, RootAABB: b.rootAABB}
	var nodeIndexCounter uint32
	rootOffset := serialize(b.root, o, &nodeIndexCounter)
	o.RootOffset = rootOffset
	return o
}

func serialize(n *buildNode, o *Octree, nodeIndexCounter *uint32) uint32 {
	var childOffsets []uint32
	var bitfield uint32
	for bit := 0; bit < 8; bit++ {
		if n.children[bit] == nil {
			continue
		}
		off := serialize(n.children[bit], o, nodeIndexCounter)
		childOffsets = append(childOffsets, off)
		bitfield |= 1 << uint(bit)
	}

	selfOffset := uint32(len(o.Data))
	if o.Explicit {
		nodeIndex := *nodeIndexCounter
		*nodeIndexCounter++
		o.AABBTable = append(o.AABBTable, n.aabb)
		o.SphereTable = append(o.SphereTable, n.aabb.BoundingSphere())
		o.Data = append(o.Data, nodeIndex)
	}
	o.Data = append(o.Data, bitfield)
	o.Data = append(o.Data, uint32(len(n.entities)))
	for _, e := range n.entities {
		o.Data = append(o.Data, uint32(e))
	}
	o.Data = append(o.Data, childOffsets...)
	return selfOffset
}
