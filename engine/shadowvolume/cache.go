package shadowvolume

// ObjectCacheSize and ModelCacheSize are the spec §4.5/§9 capacities: the
// object cache is keyed on (object, light) pairs because two instances of
// the same model under the same light still need independently-positioned
// geometry; the model cache is keyed on (model, light) pairs and exists to let
// multiple static instances of one model share identical extruded geometry
// when they happen to use the same light and the model itself never moves
// relative to the light (e.g. a shared prop mesh under a fixed static
// light). Both are 4-way set-associative with LRU eviction within a set —
// cheap to probe, good enough hit rate for the clustered access pattern a
// per-frame render loop produces (spec §9's rationale for preferring this
// over a full hash map).
const (
	ObjectCacheSize = 1024
	ModelCacheSize  = 256
	ways            = 4
)

// ObjectCacheKey identifies one (shadow caster, light) shadow volume.
type ObjectCacheKey struct {
	ObjectID uint64
	LightID  uint64
}

// ModelCacheKey identifies shadow geometry shared across every static
// instance of one model under one light.
type ModelCacheKey struct {
	ModelID uint64
	LightID uint64
}

type entry[K comparable] struct {
	valid bool
	key   K
	geo   Geometry
	// frame is the frame this entry was last produced or touched; used as
	// the LRU ordering signal within a set instead of a separate intrusive
	// list, since a 4-way set only ever needs "find the oldest of 4".
	frame uint64
}

// setCache is a fixed-size, fully generic 4-way set-associative cache: the
// key's hash picks one of len(sets) sets, and within that set the 4 ways
// are searched linearly (cheap at this width) and the least-recently-used
// way is evicted on a miss.
type setCache[K comparable] struct {
	sets   [][ways]entry[K]
	hashFn func(K) uint64
}

func newSetCache[K comparable](capacity int, hashFn func(K) uint64) *setCache[K] {
	return &setCache[K]{sets: make([][ways]entry[K], capacity/ways), hashFn: hashFn}
}

func (c *setCache[K]) setFor(key K) *[ways]entry[K] {
	return &c.sets[c.hashFn(key)%uint64(len(c.sets))]
}

// Get returns the cached Geometry for key if present and still valid —
// i.e. its stored frame is not older than invalidateBefore,
// the frame the owning light or object last changed its shadow-relevant
// state (spec §9: a cache hit must still check the light/object's
// most-recent-change timestamp, not just key equality).
func (c *setCache[K]) Get(key K, invalidateBefore uint64) (Geometry, bool) {
	set := c.setFor(key)
	for i := range set {
		if set[i].valid && set[i].key == key {
			if set[i].frame < invalidateBefore {
				return Geometry{}, false
			}
			return set[i].geo, true
		}
	}
	return Geometry{}, false
}

// Put inserts or overwrites key's entry, evicting the least-recently-used
// way in its set if every way is already occupied by a different key.
func (c *setCache[K]) Put(key K, geo Geometry, frame uint64) {
	set := c.setFor(key)
	for i := range set {
		if set[i].valid && set[i].key == key {
			set[i].geo = geo
			set[i].frame = frame
			return
		}
	}
	for i := range set {
		if !set[i].valid {
			set[i] = entry[K]{valid: true, key: key, geo: geo, frame: frame}
			return
		}
	}
	oldest := 0
	for i := 1; i < ways; i++ {
		if set[i].frame < set[oldest].frame {
			oldest = i
		}
	}
	set[oldest] = entry[K]{valid: true, key: key, geo: geo, frame: frame}
}

// ObjectCache caches per-(object, light) shadow geometry.
type ObjectCache struct {
	inner *setCache[ObjectCacheKey]
	hits, misses uint64
}

// NewObjectCache creates an empty object cache of ObjectCacheSize capacity.
func NewObjectCache() *ObjectCache {
	return &ObjectCache{inner: newSetCache(ObjectCacheSize, func(k ObjectCacheKey) uint64 {
		return k.ObjectID*2654435761 + k.LightID
	})}
}

// Lookup probes the cache, recording a hit/miss for CacheStats.
func (c *ObjectCache) Lookup(key ObjectCacheKey, invalidateBefore uint64) (Geometry, bool) {
	geo, ok := c.inner.Get(key, invalidateBefore)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return geo, ok
}

// Store records freshly-built geometry under key at frame.
func (c *ObjectCache) Store(key ObjectCacheKey, geo Geometry, frame uint64) {
	c.inner.Put(key, geo, frame)
}

// Stats returns (hits, misses) since the cache was created.
func (c *ObjectCache) Stats() (hits, misses uint64) { return c.hits, c.misses }

// ModelCache caches per-(model, light) shadow geometry shared by every
// static instance of that model under that light.
type ModelCache struct {
	inner        *setCache[ModelCacheKey]
	hits, misses uint64
}

// NewModelCache creates an empty model cache of ModelCacheSize capacity.
func NewModelCache() *ModelCache {
	return &ModelCache{inner: newSetCache(ModelCacheSize, func(k ModelCacheKey) uint64 {
		return k.ModelID*2654435761 + k.LightID
	})}
}

// Lookup probes the cache, recording a hit/miss for CacheStats.
func (c *ModelCache) Lookup(key ModelCacheKey, invalidateBefore uint64) (Geometry, bool) {
	geo, ok := c.inner.Get(key, invalidateBefore)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return geo, ok
}

// Store records freshly-built geometry under key at frame.
func (c *ModelCache) Store(key ModelCacheKey, geo Geometry, frame uint64) {
	c.inner.Put(key, geo, frame)
}

// Stats returns (hits, misses) since the cache was created.
func (c *ModelCache) Stats() (hits, misses uint64) { return c.hits, c.misses }
