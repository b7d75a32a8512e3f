package domain

import "time"

// CacheStats is a point-in-time snapshot of the result cache.
type CacheStats struct {
	// Size is the number of live entries.
	Size int
	// Capacity is the configured entry limit.
	Capacity int
	// Hits and Misses count lookups since the cache was created.
	Hits   uint64
	Misses uint64
	// MemoryEstimate is a rough byte count of retained results.
	MemoryEstimate int
}

// HitRate returns the fraction of lookups served from the cache.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// EngineStats is the statistics snapshot exposed to the editor shell.
type EngineStats struct {
	NodeCount    int
	EdgeCount    int
	DirtyNodes   int
	Cache        CacheStats
	LastEvalTime time.Duration
}
