package culler

import (
	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/octree"
)

// Size-cutoff thresholds (spec §4.3): an entity whose ProjectedSize falls
// below its cutoff is rejected regardless of frustum containment. Exposed
// as variables, not consts, so a scene can retune them without forking the
// package — the teacher's own builder-option style favors runtime
// configuration over compile-time constants for anything tunable.
var (
	ObjectSizeCutoff      float32 = 1.0
	LightVolumeSizeCutoff float32 = 1.0
	// OctreeSizeCutoff prunes a whole octree node during traversal once
	// its own projected size is negligible, provided the viewpoint sits
	// outside the node's AABB (spec §4.2). Nodes already CompletelyInside
	// the frustum are never pruned this way. Whether a far plane is in
	// effect is not checked.
	OctreeSizeCutoff float32 = 2.0
)

// ObjectRecord is the minimal per-object data DetermineVisibleEntities
// needs; Objects implementations resolve an octree.Ref's index into one of
// these without the culler needing to know about sceneobject.Object or
// game_object.GameObject directly.
type ObjectRecord struct {
	Sphere       bounds.Sphere
	AABB         bounds.AABB
	FinalPassOnly bool
}

// Objects resolves object indices to culling data and receives the
// per-frame visibility timestamp/size writes spec §4.3 requires.
type Objects interface {
	Object(index uint32) ObjectRecord
	MarkVisible(index uint32, frame uint64, projectedSize float32)
	MarkFinalPass(index uint32, projectedSize float32)
}

// LightRecord is the minimal per-light data the culler needs.
type LightRecord struct {
	Sphere           bounds.Sphere
	Directional      bool
	HasWorstCase     bool
	WorstCaseSphere  bounds.Sphere
	// TightVolumeHit is invoked only when the worst-case sphere already
	// matched, implementing spec §4.3's "intersect with the worst-case
	// sphere first, then with the tight volume" rule without the culler
	// needing to know which of sphere/cylinder/sector the light actually
	// uses.
	TightVolumeHit func(viewFrustum bounds.Frustum) bool
}

// Lights resolves light indices to culling data and receives the
// per-frame projected-size write.
type Lights interface {
	Light(index uint32) LightRecord
	MarkVisible(index uint32, projectedSize float32)
}

// Result accumulates the three output lists for one frame. Capacity growth
// is whatever append() already does (Go slices double their backing array
// on overflow) — spec §4.3's "grow by doubling, never drop entries"
// requirement the C++ original implements by hand falls out of the
// language for free here.
type Result struct {
	VisibleObjects   []octree.Ref
	FinalPassObjects []octree.Ref
	VisibleLights    []octree.Ref

	// NuStaticVisibleObjects/NuStaticVisibleLights/NuStaticFinalPassObjects
	// are the counts captured at the end of a full traversal, used to
	// truncate back to the static prefix on frames where the frustum is
	// unchanged (spec §4.3 step 1, testable property 2).
	NuStaticVisibleObjects   int
	NuStaticVisibleLights    int
	NuStaticFinalPassObjects int
}

// Reset clears all three lists and counts, keeping backing arrays.
func (r *Result) Reset() {
	r.VisibleObjects = r.VisibleObjects[:0]
	r.FinalPassObjects = r.FinalPassObjects[:0]
	r.VisibleLights = r.VisibleLights[:0]
	r.NuStaticVisibleObjects = 0
	r.NuStaticVisibleLights = 0
	r.NuStaticFinalPassObjects = 0
}

// TruncateToStaticPrefix drops everything appended after the last full
// traversal's static counts, so the dynamic-root pass that follows appends
// fresh dynamic-entity results behind a stable static prefix (testable
// property 2: the prefix must stay byte-identical frame over frame while
// the frustum doesn't move).
func (r *Result) TruncateToStaticPrefix() {
	r.VisibleObjects = r.VisibleObjects[:r.NuStaticVisibleObjects]
	r.FinalPassObjects = r.FinalPassObjects[:r.NuStaticFinalPassObjects]
	r.VisibleLights = r.VisibleLights[:r.NuStaticVisibleLights]
}

// Trees bundles the (up to) four octrees a scene maintains: static and
// dynamic, each optionally paired with an infinite-distance variant (spec
// §3). The infinite-distance trees are tested against the same frustum
// planes as the others, far plane included. Any of the four may be nil.
type Trees struct {
	Static           *octree.Octree
	Dynamic          *octree.Octree
	StaticInfinite   *octree.Octree
	DynamicInfinite  *octree.Octree
}

// Culler runs DetermineVisibleEntities against a fixed pair of data
// sources. It carries no frame-to-frame state itself — all of that lives
// on Frustum and Result, which the caller (engine/scene) owns for the
// lifetime of the scene.
type Culler struct {
	Objects Objects
	Lights  Lights
}

// New creates a Culler over the given object/light data sources.
func New(objects Objects, lights Lights) *Culler {
	return &Culler{Objects: objects, Lights: lights}
}

// DetermineVisibleEntities implements spec §4.3. On frames where the
// frustum hasn't moved since before currentFrame, the static-prefix lists
// from the last full traversal are reused verbatim and only the dynamic
// (and dynamic-infinite) octree roots are re-processed. Otherwise every
// tree is walked from scratch and the static counts are recaptured.
func (c *Culler) DetermineVisibleEntities(frustum *Frustum, trees Trees, currentFrame uint64, result *Result) {
	if frustum.Unchanged(currentFrame) && result.NuStaticVisibleObjects+result.NuStaticVisibleLights+result.NuStaticFinalPassObjects > 0 {
		result.TruncateToStaticPrefix()
	} else {
		result.Reset()
		c.traverseFull(trees.Static, frustum, currentFrame, result)
		c.traverseFull(trees.StaticInfinite, frustum, currentFrame, result)
		result.NuStaticVisibleObjects = len(result.VisibleObjects)
		result.NuStaticVisibleLights = len(result.VisibleLights)
		result.NuStaticFinalPassObjects = len(result.FinalPassObjects)
	}

	octree.RootEntities(trees.Dynamic, func(ref octree.Ref) {
		c.visit(ref, frustum, currentFrame, result)
	})
	octree.RootEntities(trees.DynamicInfinite, func(ref octree.Ref) {
		c.visit(ref, frustum, currentFrame, result)
	})
}

func (c *Culler) traverseFull(tree *octree.Octree, frustum *Frustum, currentFrame uint64, result *Result) {
	if tree == nil {
		return
	}
	filter := func(nodeAABB bounds.AABB, verdict bounds.Verdict) bool {
		if verdict == bounds.CompletelyInside {
			return true
		}
		sphere := nodeAABB.BoundingSphere()
		projected := frustum.ProjectedSize(sphere)
		if projected < OctreeSizeCutoff && !bounds.AABBContainsAABB(nodeAABB, bounds.AABB{Min: frustum.Viewpoint, Max: frustum.Viewpoint}) {
			return false
		}
		return true
	}
	octree.Traverse(tree, frustum.Planes, filter, func(ref octree.Ref, verdict bounds.Verdict) {
		c.visit(ref, frustum, currentFrame, result)
	})
}

func (c *Culler) visit(ref octree.Ref, frustum *Frustum, currentFrame uint64, result *Result) {
	if ref.IsLight() {
		c.visitLight(ref, frustum, result)
		return
	}
	c.visitObject(ref, frustum, currentFrame, result)
}

func (c *Culler) visitObject(ref octree.Ref, frustum *Frustum, currentFrame uint64, result *Result) {
	rec := c.Objects.Object(ref.Index())
	size := frustum.ProjectedSize(rec.Sphere)
	if size < ObjectSizeCutoff {
		return
	}
	if rec.FinalPassOnly {
		result.FinalPassObjects = append(result.FinalPassObjects, ref)
		c.Objects.MarkFinalPass(ref.Index(), size)
		return
	}
	result.VisibleObjects = append(result.VisibleObjects, ref)
	c.Objects.MarkVisible(ref.Index(), currentFrame, size)
}

func (c *Culler) visitLight(ref octree.Ref, frustum *Frustum, result *Result) {
	rec := c.Lights.Light(ref.Index())
	size := frustum.ProjectedSize(rec.Sphere)
	if size < LightVolumeSizeCutoff {
		return
	}
	if !rec.Directional && rec.HasWorstCase {
		if frustum.Planes.VerdictSphere(rec.WorstCaseSphere) == bounds.CompletelyOutside {
			return
		}
		if rec.TightVolumeHit != nil && !rec.TightVolumeHit(frustum.Planes) {
			return
		}
	}
	result.VisibleLights = append(result.VisibleLights, ref)
	c.Lights.MarkVisible(ref.Index(), size)
}
