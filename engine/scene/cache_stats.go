package scene

// CacheStats is a per-frame snapshot of the core renderer's amortization
// effectiveness, surfaced for the profiler package and for debug overlays
// (spec §4.7's "observability" note: cache hit rate is the single best
// signal that the scissors/shadow-volume optimizations are paying off for
// the current scene).
type CacheStats struct {
	ObjectShadowCacheHits   uint64
	ObjectShadowCacheMisses uint64
	ModelShadowCacheHits    uint64
	ModelShadowCacheMisses  uint64

	// VisibleObjects/VisibleLights/FinalPassObjects are the sizes of the
	// three culler.Result lists produced this frame.
	VisibleObjects   int
	VisibleLights    int
	FinalPassObjects int

	// StaticPrefixReused reports whether this frame's culling pass took the
	// static-prefix-reuse shortcut rather than a full retraversal.
	StaticPrefixReused bool
}

// HitRate returns the combined object+model shadow cache hit rate in
// [0, 1], or 1 when no lookups have occurred yet (an idle scene is
// trivially "fully cached").
func (s CacheStats) HitRate() float64 {
	hits := s.ObjectShadowCacheHits + s.ModelShadowCacheHits
	total := hits + s.ObjectShadowCacheMisses + s.ModelShadowCacheMisses
	if total == 0 {
		return 1
	}
	return float64(hits) / float64(total)
}
