package scene

import (
	"github.com/Carmen-Shannon/oxy-go/engine/bounds"
	"github.com/Carmen-Shannon/oxy-go/engine/culler"
	"github.com/Carmen-Shannon/oxy-go/engine/light"
	"github.com/Carmen-Shannon/oxy-go/engine/octree"
	"github.com/Carmen-Shannon/oxy-go/engine/sceneobject"
	"github.com/Carmen-Shannon/oxy-go/engine/shadowvolume"
	"github.com/go-gl/mathgl/mgl32"
)

// Core is the CPU-side spatial-culling and shadow-volume orchestration
// layer: it decides, per frame, which objects and lights are visible and
// which shadow volumes need rebuilding, then drives a GPUDriver through
// the per-light stencil passes its Render method assembles. Core owns its
// own dense object/light slices rather than a general-purpose ID-keyed
// map, because octree.Ref indices must stay stable and contiguous for the
// lifetime of the static tree.
type Core struct {
	objects      []*sceneobject.Object
	objectID     map[uint64]uint32
	nextObjectID uint64
	lights       []*light.Model

	staticTree  *octree.Octree
	dynamicTree *octree.Octree

	culler *culler.Culler
	ctx    *RenderContext

	objectShadowCache *shadowvolume.ObjectCache
	modelShadowCache  *shadowvolume.ModelCache

	flags RenderFlags

	result culler.Result
}

// NewCore creates an empty Core with default render flags.
func NewCore() *Core {
	c := &Core{
		objectID:          make(map[uint64]uint32),
		ctx:               NewRenderContext(),
		objectShadowCache: shadowvolume.NewObjectCache(),
		modelShadowCache:  shadowvolume.NewModelCache(),
		flags:             DefaultRenderFlags(),
	}
	c.culler = culler.New(&coreObjects{c}, &coreLights{c})
	return c
}

// SetFlags overwrites the active RenderFlags.
func (c *Core) SetFlags(f RenderFlags) { c.flags = f }

// Flags returns the active RenderFlags.
func (c *Core) Flags() RenderFlags { return c.flags }

// AddObject registers obj as a renderable and returns the octree.Ref the
// core's traversal will use to refer to it. obj's identifier is assigned
// here (overwriting whatever SetID it carried in), mirroring the teacher's
// scene.Add pattern of a single owner for ID assignment so two objects can
// never collide in the shadow-cache/static-list lookups that key on it.
// The object joins a tree only at the next Rebuild, which places it in the
// dynamic tree when obj.Flags has DynamicPosition and in the static tree
// otherwise (invariant I2).
func (c *Core) AddObject(obj *sceneobject.Object) octree.Ref {
	obj.SetID(c.nextObjectID)
	c.nextObjectID++

	index := uint32(len(c.objects))
	c.objects = append(c.objects, obj)
	c.objectID[obj.ID()] = index
	return octree.NewObjectRef(index)
}

// ObjectByID resolves one of light.Model's LightVolumeObjects/
// ShadowCasterObjects entries (a stable object ID) back to its current
// octree.Ref and Object.
func (c *Core) ObjectByID(id uint64) (octree.Ref, *sceneobject.Object, bool) {
	index, ok := c.objectID[id]
	if !ok {
		return 0, nil, false
	}
	return octree.NewObjectRef(index), c.objects[index], true
}

// StaticObjects implements light.StaticObjectSource so
// light.Model.CalculateStaticLightObjectLists can be run directly against
// this Core's registry.
func (c *Core) StaticObjects() []*sceneobject.Object {
	out := make([]*sceneobject.Object, 0, len(c.objects))
	for _, o := range c.objects {
		if !o.Flags.Has(sceneobject.DynamicPosition) {
			out = append(out, o)
		}
	}
	return out
}

// AddDirectionalLight adds a directional light, which has no position and
// is never culled against a frustum (spec §3).
func (c *Core) AddDirectionalLight(color mgl32.Vec3, direction mgl32.Vec3, intensity float32) (octree.Ref, *light.Model) {
	l := light.NewLight(light.LightTypeDirectional,
		light.WithColor(color[0], color[1], color[2]),
		light.WithDirection(direction[0], direction[1], direction[2]),
		light.WithIntensity(intensity))
	return c.addLight(l, false)
}

// AddPointSource adds a point light at position with the given range.
func (c *Core) AddPointSource(position mgl32.Vec3, color mgl32.Vec3, intensity, lightRange float32, dynamic bool) (octree.Ref, *light.Model) {
	l := light.NewLight(light.LightTypePoint,
		light.WithPosition(position[0], position[1], position[2]),
		light.WithColor(color[0], color[1], color[2]),
		light.WithIntensity(intensity),
		light.WithRange(lightRange))
	return c.addLight(l, dynamic)
}

// AddSpot adds a spot light at position pointing along direction.
func (c *Core) AddSpot(position, direction mgl32.Vec3, color mgl32.Vec3, intensity, lightRange, innerDeg, outerDeg float32, dynamic bool) (octree.Ref, *light.Model) {
	l := light.NewLight(light.LightTypeSpot,
		light.WithPosition(position[0], position[1], position[2]),
		light.WithDirection(direction[0], direction[1], direction[2]),
		light.WithColor(color[0], color[1], color[2]),
		light.WithIntensity(intensity),
		light.WithRange(lightRange),
		light.WithSpotCone(innerDeg, outerDeg))
	return c.addLight(l, dynamic)
}

// AddBeam adds a beam light shining along direction from position.
func (c *Core) AddBeam(position, direction mgl32.Vec3, color mgl32.Vec3, intensity, lightRange, beamRadius float32, dynamic bool) (octree.Ref, *light.Model) {
	l := light.NewLight(light.LightTypeBeam,
		light.WithPosition(position[0], position[1], position[2]),
		light.WithDirection(direction[0], direction[1], direction[2]),
		light.WithColor(color[0], color[1], color[2]),
		light.WithIntensity(intensity),
		light.WithRange(lightRange),
		light.WithBeamRadius(beamRadius))
	return c.addLight(l, dynamic)
}

func (c *Core) addLight(l light.Light, dynamic bool) (octree.Ref, *light.Model) {
	id := uint64(len(c.lights) + 1)
	m := light.NewModel(id, l, dynamic)
	m.Refresh()
	index := uint32(len(c.lights))
	c.lights = append(c.lights, m)
	return octree.NewLightRef(index), m
}

// ChangeLightPosition updates a light's position and marks its shadow
// geometry stale as of frame, invalidating any shadow-volume cache entries
// keyed on an earlier frame for this light (spec §4.5's cache-invalidation
// rule).
func (c *Core) ChangeLightPosition(m *light.Model, position mgl32.Vec3, frame uint64) {
	m.Light.SetPosition(position[0], position[1], position[2])
	m.Refresh()
	m.MarkShadowVolumeChanged(frame)
}

// ChangeLightDirection updates a light's direction and marks its shadow
// geometry stale.
func (c *Core) ChangeLightDirection(m *light.Model, direction mgl32.Vec3, frame uint64) {
	m.Light.SetDirection(direction[0], direction[1], direction[2])
	m.Refresh()
	m.MarkShadowVolumeChanged(frame)
}

// ChangeLightColor updates a light's color. Color never affects shadow
// geometry, so no cache invalidation is needed.
func (c *Core) ChangeLightColor(m *light.Model, color mgl32.Vec3) {
	m.Light.SetColor(color[0], color[1], color[2])
}

// SetLightWorstCaseBounds records the sphere a dynamic light's position can
// never leave, enabling the culler's worst-case-sphere-first policy for it
// (spec §4.3).
func (c *Core) SetLightWorstCaseBounds(m *light.Model, center mgl32.Vec3, radius float32) {
	m.SetWorstCaseBounds(center, radius)
}

// CalculateStaticLightObjectLists runs the static-light preprocessing step
// (spec §4.4(a)) for every static, non-directional-agnostic light currently
// registered. Call after the static object set and static lights have both
// stabilized; never call this per frame.
func (c *Core) CalculateStaticLightObjectLists() {
	for _, m := range c.lights {
		if m.Dynamic {
			continue
		}
		m.CalculateStaticLightObjectLists(c)
	}
}

// Rebuild reconstructs the static and dynamic octrees from the current
// object/light registries. Call once after the static scene content
// stabilizes (spec §3: static trees are built once and never touched
// again, per invariant I2) and again, cheaply, whenever the dynamic set
// changes shape (dynamic trees are built shallow, maxDepth 0, since
// traversal of them only ever visits the root).
func (c *Core) Rebuild(rootAABB bounds.AABB, maxDepth, leafCapacity int) {
	staticBuilder := octree.NewBuilder(rootAABB, true, maxDepth, leafCapacity)
	dynamicBuilder := octree.NewBuilder(rootAABB, true, 0, leafCapacity)

	for i, obj := range c.objects {
		ref := octree.NewObjectRef(uint32(i))
		if obj.Flags.Has(sceneobject.DynamicPosition) {
			dynamicBuilder.Insert(ref, obj.WorldAABB)
		} else {
			staticBuilder.Insert(ref, obj.WorldAABB)
		}
	}
	for i, m := range c.lights {
		ref := octree.NewLightRef(uint32(i))
		b := staticBuilder
		if m.Dynamic {
			b = dynamicBuilder
		}
		b.Insert(ref, lightAABB(m))
	}

	c.staticTree = staticBuilder.Build()
	c.dynamicTree = dynamicBuilder.Build()
}

func lightAABB(m *light.Model) bounds.AABB {
	s := m.PrimarySphere
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return bounds.AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// DetermineVisibleEntities runs the culler against the current frustum and
// stores the result for the per-light/final pass to consume (spec §4.3).
func (c *Core) DetermineVisibleEntities(frustum *culler.Frustum) {
	wasUnchanged := frustum.Unchanged(c.ctx.CurrentFrame)
	c.culler.DetermineVisibleEntities(frustum, culler.Trees{Static: c.staticTree, Dynamic: c.dynamicTree}, c.ctx.CurrentFrame, &c.result)
	c.ctx.Stats.StaticPrefixReused = wasUnchanged
	c.ctx.Stats.VisibleObjects = len(c.result.VisibleObjects)
	c.ctx.Stats.VisibleLights = len(c.result.VisibleLights)
	c.ctx.Stats.FinalPassObjects = len(c.result.FinalPassObjects)
}

// Result exposes the last DetermineVisibleEntities call's output lists.
func (c *Core) Result() *culler.Result { return &c.result }

// Context exposes the Core's RenderContext, e.g. for BeginFrame/BeginLight
// calls a driving render loop issues around each pass.
func (c *Core) Context() *RenderContext { return c.ctx }

// Object resolves an object octree.Ref to its sceneobject.Object.
func (c *Core) Object(ref octree.Ref) *sceneobject.Object { return c.objects[ref.Index()] }

// LightModel resolves a light octree.Ref to its light.Model.
func (c *Core) LightModel(ref octree.Ref) *light.Model { return c.lights[ref.Index()] }

// coreObjects/coreLights adapt Core's registries to the culler.Objects /
// culler.Lights interfaces without exposing Core's internals to the
// culler package, keeping the dependency direction one-way (culler never
// imports sceneobject or light).
type coreObjects struct{ c *Core }

func (o *coreObjects) Object(index uint32) culler.ObjectRecord {
	obj := o.c.objects[index]
	return culler.ObjectRecord{Sphere: obj.WorldSphere, AABB: obj.WorldAABB, FinalPassOnly: obj.Flags.FinalPassOnly()}
}

func (o *coreObjects) MarkVisible(index uint32, frame uint64, size float32) {
	obj := o.c.objects[index]
	obj.MostRecentFrameVisible = frame
	obj.ProjectedSize = size
}

func (o *coreObjects) MarkFinalPass(index uint32, size float32) {
	o.c.objects[index].ProjectedSize = size
}

type coreLights struct{ c *Core }

func (l *coreLights) Light(index uint32) culler.LightRecord {
	m := l.c.lights[index]
	rec := culler.LightRecord{
		Sphere:          m.PrimarySphere,
		Directional:     m.Light.Type() == light.LightTypeDirectional,
		HasWorstCase:    m.HasWorstCase,
		WorstCaseSphere: m.WorstCaseSphere,
		TightVolumeHit:  m.TightVolumeHit,
	}
	return rec
}

func (l *coreLights) MarkVisible(index uint32, size float32) {
	l.c.lights[index].ProjectedSize = size
}
