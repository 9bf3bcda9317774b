package shadowvolume

import "github.com/go-gl/mathgl/mgl32"

// LightKind distinguishes the four light shapes for shadow-side encoding
// purposes: point/spot lights extrude every silhouette vertex to its own
// position, so their sides are naturally a strip of independent quads;
// directional/beam lights extrude every vertex along the same direction, so
// their sides converge toward one shared vertex and can be wound as a
// single triangle fan around it when the mesh is closed.
type LightKind int

const (
	LightKindPoint LightKind = iota
	LightKindSpot
	LightKindDirectional
	LightKindBeam
)

// Light is the minimal description of a light source this package needs:
// enough to compute, for any surface point, the direction from that point
// toward the light. The caller (the renderer) applies the casting object's
// model matrix before calling into this package, since shadow volumes are
// built and cached in world space, not model space (spec §4.5, §9).
type Light struct {
	// Directional selects the infinite-distance formula.
	Directional bool
	// Position is meaningless when Directional is true.
	Position mgl32.Vec3
	// Direction is the direction light travels; meaningless when
	// Directional is false.
	Direction mgl32.Vec3
	// Kind selects the side encoding Build prefers; the zero value
	// (LightKindPoint) is the safe default for callers that only set
	// Directional/Position/Direction.
	Kind LightKind
}

func (l Light) vectorFromSurface(p mgl32.Vec3) mgl32.Vec3 {
	if l.Directional {
		return l.Direction.Mul(-1).Normalize()
	}
	return l.Position.Sub(p).Normalize()
}

// classifyFaces returns, for each triangle in order, whether it faces
// toward the light (true) or away from it (false). A face lying exactly
// edge-on to the light (dot == 0) is classified as facing away, matching
// the convention spec §4.5 calls out for the perpendicular-face edge case:
// treating it as "away" means its silhouette edges still get generated by
// any light-facing neighbor, so geometry is never dropped.
func classifyFaces(mesh *Mesh, light Light) []bool {
	facing := make([]bool, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		n := mesh.faceNormal(tri)
		centroid := mesh.Positions[tri[0]].Add(mesh.Positions[tri[1]]).Add(mesh.Positions[tri[2]]).Mul(1.0 / 3.0)
		toLight := light.vectorFromSurface(centroid)
		facing[i] = n.Dot(toLight) > 0
	}
	return facing
}

// SilhouetteEdge is one edge of the extruded shadow volume's side: a mesh
// edge where exactly one of its two adjacent triangles faces the light (or
// a boundary edge, which always qualifies). V0/V1 are oriented so the
// extruded quad comes out front-facing outward; Reversed equals whether the
// edge's first adjacent triangle (TriA in Mesh.Edges) faces the light, so a
// caller classifying edges by which side of the pair is the light-facing
// one doesn't need to re-run classifyFaces.
type SilhouetteEdge struct {
	V0, V1   uint32
	Reversed bool
}

// ExtractSilhouette walks mesh.Edges and returns the silhouette loop: every
// edge bordering exactly one light-facing triangle, plus every boundary
// edge of an open mesh (open meshes have no dark-side triangle to pair
// against, so their boundary is conservatively always silhouette — spec
// §4.5 edge case). mesh.Edges must already be populated (call BuildEdges
// first if it wasn't supplied by the importer).
func ExtractSilhouette(mesh *Mesh, light Light) []SilhouetteEdge {
	facing := classifyFaces(mesh, light)
	var out []SilhouetteEdge

	for _, e := range mesh.Edges {
		if e.TriB < 0 {
			out = append(out, SilhouetteEdge{V0: e.V0, V1: e.V1, Reversed: facing[e.TriA]})
			continue
		}
		aFacing := facing[e.TriA]
		bFacing := facing[e.TriB]
		if aFacing == bFacing {
			continue
		}
		// Orient the edge so it runs in the winding of whichever adjacent
		// triangle faces away from the light (edges are stored in B's
		// winding, so that is as stored when A faces the light and reversed
		// when B does), so every silhouette edge is wound consistently for
		// side-quad extrusion.
		if aFacing {
			out = append(out, SilhouetteEdge{V0: e.V0, V1: e.V1, Reversed: true})
		} else {
			out = append(out, SilhouetteEdge{V0: e.V1, V1: e.V0, Reversed: false})
		}
	}
	return out
}

// LightFacingTriangles returns the index of every triangle classified as
// facing the light, used by light/dark cap assembly.
func LightFacingTriangles(mesh *Mesh, light Light) []int {
	facing := classifyFaces(mesh, light)
	var out []int
	for i, f := range facing {
		if f {
			out = append(out, i)
		}
	}
	return out
}

// DarkFacingTriangles returns the complement of LightFacingTriangles.
func DarkFacingTriangles(mesh *Mesh, light Light) []int {
	facing := classifyFaces(mesh, light)
	var out []int
	for i, f := range facing {
		if !f {
			out = append(out, i)
		}
	}
	return out
}
