// Package shadowvolume builds stencil shadow-volume geometry from a mesh's
// edge-adjacency data and a light (spec.md §4.5): silhouette extraction,
// depth-pass/depth-fail selection, light/dark cap and side assembly, and a
// two-level cache (per-object, per-model) that amortizes the work across
// frames and across instances sharing one model.
//
// Mesh input is intentionally a flat, renderer-agnostic structure rather
// than engine/model.Model directly — mesh/skeleton/animation I/O is an
// external collaborator's concern, so this package only needs the
// triangle/edge topology, not the GPU vertex-buffer encoding the model
// package owns. A glTF or similar asset loader is the adapter that would
// populate one of these from an imported mesh for a shadow-capable model.
package shadowvolume

import "github.com/go-gl/mathgl/mgl32"

// Mesh is the triangle/edge topology of one static or skinned mesh,
// expressed in model space. Positions index in parallel with nothing else —
// Triangles and Edges both reference into Positions by index.
type Mesh struct {
	Positions []mgl32.Vec3
	// Triangles is a flat list of vertex-index triples, one per face.
	Triangles [][3]uint32
	// Edges is the precomputed adjacency: every edge in the mesh, with the
	// one or two triangles that share it. BuildEdges constructs this from
	// Triangles; callers that already have edge data from an import step
	// may populate it directly instead.
	Edges []Edge
}

// Edge is one edge of the mesh's topology, shared by one or two triangles.
// TriB is -1 for a boundary edge (a mesh hole or an open surface), which is
// always part of the silhouette regardless of face classification (spec
// §4.5, edge case "open mesh").
type Edge struct {
	V0, V1   uint32
	TriA     int32
	TriB     int32
}

// BuildEdges derives Mesh.Edges from Mesh.Triangles by finding, for every
// unordered vertex pair that bounds a triangle, the other triangle (if any)
// that shares the same pair. O(n) via a map keyed on the sorted vertex pair.
func (m *Mesh) BuildEdges() {
	type key struct{ a, b uint32 }
	owners := make(map[key]int32, len(m.Triangles)*3/2)
	m.Edges = m.Edges[:0]

	normalizeKey := func(a, b uint32) key {
		if a > b {
			a, b = b, a
		}
		return key{a, b}
	}

	for triIdx, tri := range m.Triangles {
		edges := [3][2]uint32{{tri[0], tri[1]}, {tri[1], tri[2]}, {tri[2], tri[0]}}
		for _, e := range edges {
			k := normalizeKey(e[0], e[1])
			if owner, ok := owners[k]; ok {
				m.Edges = append(m.Edges, Edge{V0: e[0], V1: e[1], TriA: owner, TriB: int32(triIdx)})
				delete(owners, k)
			} else {
				owners[k] = int32(triIdx)
			}
		}
	}
	for k, owner := range owners {
		m.Edges = append(m.Edges, Edge{V0: k.a, V1: k.b, TriA: owner, TriB: -1})
	}
}

// Closed reports whether every edge borders exactly two triangles. A mesh
// with any boundary edge (a hole or open surface) can't form one continuous
// silhouette loop, which rules out the triangle-fan side encoding.
func (m *Mesh) Closed() bool {
	for _, e := range m.Edges {
		if e.TriB < 0 {
			return false
		}
	}
	return true
}

// faceNormal computes the unnormalized face normal of triangle tri using
// the standard cross-product winding (counter-clockwise front faces).
func (m *Mesh) faceNormal(tri [3]uint32) mgl32.Vec3 {
	a, b, c := m.Positions[tri[0]], m.Positions[tri[1]], m.Positions[tri[2]]
	return b.Sub(a).Cross(c.Sub(a))
}
