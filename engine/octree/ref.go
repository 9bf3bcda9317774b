// Package octree implements the compressed, mixed-entity spatial index
// described in spec.md §3/§4.2: a single contiguous []uint32 array plus a
// parallel per-node bounds table, in two encodings — explicit-bounds
// (arbitrary per-node AABB/sphere looked up by node index) and
// strict-regular (bounds synthesized recursively from the parent AABB via
// the {0.25, 0.75} octant split, no bounds storage at all).
//
// Objects and lights share one tree via a tagged index: the high bit of
// each stored uint32 selects which of the two parallel scene tables
// (objects or lights) the low 31 bits index into. This avoids a
// polymorphic entity base type (spec Design Notes §9) in favor of a
// (kind, index) pair the visitor resolves against its own tables.
package octree

// Ref is a tagged 31-bit entity index: bit 31 selects object (0) vs. light
// (1); bits 0-30 index into the owning scene's object or light table.
type Ref uint32

const lightTagBit = uint32(1) << 31

// NewObjectRef tags index as an object reference.
func NewObjectRef(index uint32) Ref {
	return Ref(index &^ lightTagBit)
}

// NewLightRef tags index as a light reference.
func NewLightRef(index uint32) Ref {
	return Ref(index | lightTagBit)
}

// IsLight reports whether the reference points into the light table.
func (r Ref) IsLight() bool {
	return uint32(r)&lightTagBit != 0
}

// IsObject reports whether the reference points into the object table.
func (r Ref) IsObject() bool {
	return !r.IsLight()
}

// Index returns the untagged index into the owning table.
func (r Ref) Index() uint32 {
	return uint32(r) &^ lightTagBit
}
