package shadowvolume

import "github.com/go-gl/mathgl/mgl32"

// Encoding picks how Geometry.Indices' side range should be interpreted by
// the GPU driver. Light cap and dark cap are always triangle lists; only
// the side range (SideIndexCount) varies:
//
//   - EncodingTriangleList: one independent triangle pair per silhouette
//     edge. The universal fallback — always correct, never the smallest.
//   - EncodingTriangleStrip: point/spot lights extrude each silhouette
//     vertex to its own position, so each edge's quad is encoded as a
//     4-index strip (one fewer index than the list form) followed by
//     RestartIndex, rather than needing the edges to chain into a loop.
//   - EncodingTriangleFan: directional/beam lights extrude every vertex
//     along the same direction, so the sides converge toward one shared
//     vertex; when the silhouette edges chain into a single closed loop
//     (mesh.Closed()), the whole side range is one triangle fan around
//     that vertex. Falls back to EncodingTriangleList when the loop can't
//     be chained (Geometry.EncodingFellBack records this).
type Encoding int

const (
	EncodingTriangleList Encoding = iota
	EncodingTriangleStrip
	EncodingTriangleFan
)

// RestartIndex is the sentinel index value a GPU driver must translate into
// a primitive-restart command when drawing an EncodingTriangleStrip side
// range; it never refers to an actual vertex.
const RestartIndex = ^uint32(0)

// Method distinguishes the two classic stencil shadow-volume algorithms
// (spec §4.5): depth-pass (Z-pass) increments/decrements front/back faces
// as seen from the eye and is cheap but breaks when the eye is inside the
// volume; depth-fail (Z-fail, Carmack's reverse) is selected whenever the
// near-clip volume test says the eye might be inside this caster's volume.
type Method int

const (
	MethodDepthPass Method = iota
	MethodDepthFail
)

// IndexWidth selects the index buffer's element size. A volume with more
// vertices than fit in 16 bits must fall back to 32-bit indices.
type IndexWidth int

const (
	IndexWidth16 IndexWidth = iota
	IndexWidth32
)

const maxVertexCountFor16Bit = 1 << 16

// Geometry is the fully assembled shadow volume for one (mesh, light, model
// matrix) combination: vertex positions already extruded as needed, a
// single index buffer covering light cap + dark cap + sides in that order,
// and the three index-count subranges so the renderer can issue light cap,
// dark cap, and sides as separate draws when Method is MethodDepthFail
// (which skips the sides-only fast path depth-pass normally uses).
type Geometry struct {
	Positions []mgl32.Vec3
	Indices   []uint32

	LightCapIndexCount int
	DarkCapIndexCount  int
	SideIndexCount     int

	Method   Method
	Encoding Encoding
	Width    IndexWidth

	// EncodingFellBack is true when a directional/beam light requested
	// EncodingTriangleFan but the silhouette didn't chain into one closed
	// loop (an unwelded seam or multi-loop silhouette), so Encoding ended
	// up EncodingTriangleList instead.
	EncodingFellBack bool
}

// extrusionDistance is how far a silhouette vertex is pushed away from the
// light to approximate "to infinity" while staying representable in finite
// precision; the near-clip/shadow-caster volume culling in engine/culler is
// what keeps this from ever being visibly finite to the viewer.
const extrusionDistance = float32(1000.0)

// Build assembles a complete shadow volume for mesh under light, given
// whether the viewer's near-clip volume intersects this caster (which picks
// depth-fail over depth-pass, per spec §4.5's "near-clip volume" rule).
// mesh.Edges must already be populated.
func Build(mesh *Mesh, light Light, nearClipIntersectsCaster bool) Geometry {
	silhouette := ExtractSilhouette(mesh, light)
	lightFacing := LightFacingTriangles(mesh, light)
	darkFacing := DarkFacingTriangles(mesh, light)

	method := MethodDepthPass
	if nearClipIntersectsCaster {
		method = MethodDepthFail
	}

	var g Geometry
	g.Method = method

	// Original mesh vertices are the light cap (kept at their real
	// position) and the source for the dark cap (extruded away from the
	// light). Both caps are only needed for depth-fail, since depth-pass
	// never requires capping the volume (spec §4.5: "depth-pass volumes
	// are open at both ends; depth-fail volumes must be capped").
	g.Positions = append(g.Positions, mesh.Positions...)
	extrudedOffset := uint32(len(mesh.Positions))
	for _, p := range mesh.Positions {
		toLight := light.vectorFromSurface(p)
		g.Positions = append(g.Positions, p.Sub(toLight.Mul(extrusionDistance)))
	}

	if method == MethodDepthFail {
		for _, triIdx := range lightFacing {
			tri := mesh.Triangles[triIdx]
			g.Indices = append(g.Indices, tri[0], tri[1], tri[2])
		}
		g.LightCapIndexCount = len(g.Indices)

		darkCapStart := len(g.Indices)
		for _, triIdx := range darkFacing {
			tri := mesh.Triangles[triIdx]
			// Dark cap uses the extruded vertex set and reversed winding,
			// since it closes off the volume's far end facing away from
			// the eye relative to how the source triangle faced the light.
			g.Indices = append(g.Indices,
				extrudedOffset+tri[2], extrudedOffset+tri[1], extrudedOffset+tri[0])
		}
		g.DarkCapIndexCount = len(g.Indices) - darkCapStart
	}

	sideStart := len(g.Indices)
	switch light.Kind {
	case LightKindPoint, LightKindSpot:
		g.Encoding = EncodingTriangleStrip
		g.Indices = append(g.Indices, sidesTriangleStrip(silhouette, extrudedOffset)...)
	case LightKindDirectional, LightKindBeam:
		if mesh.Closed() && len(silhouette) > 0 {
			apex := extrudedOffset + silhouette[0].V0
			if fan, ok := sidesTriangleFan(silhouette, apex); ok {
				g.Encoding = EncodingTriangleFan
				g.Indices = append(g.Indices, fan...)
				break
			}
			g.EncodingFellBack = true
		}
		g.Encoding = EncodingTriangleList
		g.Indices = append(g.Indices, sidesTriangleList(silhouette, extrudedOffset)...)
	default:
		g.Encoding = EncodingTriangleList
		g.Indices = append(g.Indices, sidesTriangleList(silhouette, extrudedOffset)...)
	}
	g.SideIndexCount = len(g.Indices) - sideStart

	if len(g.Positions) > maxVertexCountFor16Bit {
		g.Width = IndexWidth32
	} else {
		g.Width = IndexWidth16
	}
	return g
}

// sidesTriangleList emits two independent triangles per silhouette edge,
// wound so each quad's front face points away from the mesh interior. The
// universal fallback encoding — correct for every light kind and topology.
func sidesTriangleList(silhouette []SilhouetteEdge, extrudedOffset uint32) []uint32 {
	indices := make([]uint32, 0, len(silhouette)*6)
	for _, e := range silhouette {
		v0, v1 := e.V0, e.V1
		e0, e1 := extrudedOffset+v0, extrudedOffset+v1
		indices = append(indices, v0, v1, e1)
		indices = append(indices, v0, e1, e0)
	}
	return indices
}

// sidesTriangleStrip emits the same two triangles per silhouette edge as
// sidesTriangleList, but as a 4-index strip (v1, e1, v0, e0) followed by
// RestartIndex — one fewer index per quad, with no dependency on the
// silhouette edges chaining into a loop. Valid for any light kind whose
// silhouette vertices extrude independently (point, spot).
func sidesTriangleStrip(silhouette []SilhouetteEdge, extrudedOffset uint32) []uint32 {
	indices := make([]uint32, 0, len(silhouette)*5)
	for _, e := range silhouette {
		v0, v1 := e.V0, e.V1
		e0, e1 := extrudedOffset+v0, extrudedOffset+v1
		indices = append(indices, v1, e1, v0, e0, RestartIndex)
	}
	return indices
}

// sidesTriangleFan chains silhouette into one closed loop and emits it as a
// single triangle fan around apex (the shared extruded vertex directional
// and beam lights converge toward). Returns ok=false if the edges don't
// form exactly one closed loop — an unwelded seam or multiple disjoint
// silhouettes, which no single fan can represent — so the caller can fall
// back to sidesTriangleList.
func sidesTriangleFan(silhouette []SilhouetteEdge, apex uint32) ([]uint32, bool) {
	if len(silhouette) <= 1 {
		return nil, false
	}
	edgeStartingAt := make(map[uint32]int, len(silhouette))
	for i, e := range silhouette {
		edgeStartingAt[e.V0] = i
	}

	indices := make([]uint32, 0, len(silhouette)+2)
	indices = append(indices, apex)
	v0, v1 := silhouette[0].V0, silhouette[0].V1
	startingVertex := v0
	for {
		indices = append(indices, v0)
		v0 = v1
		if v0 == startingVertex {
			break
		}
		next, ok := edgeStartingAt[v0]
		if !ok {
			return nil, false
		}
		v1 = silhouette[next].V1
	}
	indices = append(indices, startingVertex)
	return indices, true
}
