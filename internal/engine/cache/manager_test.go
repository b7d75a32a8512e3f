package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/engine/cache"
)

var portOut = domain.NewName("out")

func result(v domain.Value) domain.Result {
	return domain.Result{portOut: v}
}

// staticDeps builds a dependents func from a literal adjacency map.
func staticDeps(adj map[domain.NodeID][]domain.NodeID) func(domain.NodeID) []domain.NodeID {
	return func(id domain.NodeID) []domain.NodeID { return adj[id] }
}

func TestManager_StoreAndLookup(t *testing.T) {
	m := cache.NewManager(staticDeps(nil))

	_, ok := m.Lookup("a", 1)
	assert.False(t, ok)

	m.Store("a", 1, result(2.0))

	got, ok := m.Lookup("a", 1)
	require.True(t, ok)
	assert.Equal(t, 2.0, got[portOut])

	stats := m.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestManager_SignatureMismatchInvalidates(t *testing.T) {
	// b depends on a; a stale entry for a must take b's entry with it.
	deps := staticDeps(map[domain.NodeID][]domain.NodeID{"a": {"b"}})
	m := cache.NewManager(deps)

	m.Store("a", 1, result(1.0))
	m.Store("b", 10, result(2.0))

	_, ok := m.Lookup("a", 2)
	assert.False(t, ok, "mismatched signature reports a miss")

	// Both entries are gone, even under their original signatures.
	assert.False(t, m.Contains("a", 1))
	assert.False(t, m.Contains("b", 10))
}

func TestManager_InvalidateCascades(t *testing.T) {
	// a -> b -> c, with d independent.
	deps := staticDeps(map[domain.NodeID][]domain.NodeID{
		"a": {"b"},
		"b": {"c"},
	})
	m := cache.NewManager(deps)
	for _, id := range []domain.NodeID{"a", "b", "c", "d"} {
		m.Store(id, 1, result(1.0))
	}

	m.Invalidate("a")

	assert.False(t, m.Contains("a", 1))
	assert.False(t, m.Contains("b", 1))
	assert.False(t, m.Contains("c", 1))
	assert.True(t, m.Contains("d", 1), "independent entries survive")
}

func TestManager_InvalidateThroughUncachedDependent(t *testing.T) {
	// b has no entry of its own, but its dependent c does. Invalidating a
	// must still reach c.
	deps := staticDeps(map[domain.NodeID][]domain.NodeID{
		"a": {"b"},
		"b": {"c"},
	})
	m := cache.NewManager(deps)
	m.Store("a", 1, result(1.0))
	m.Store("c", 1, result(3.0))

	m.Invalidate("a")

	assert.False(t, m.Contains("a", 1))
	assert.False(t, m.Contains("c", 1))
}

func TestManager_LRUEviction(t *testing.T) {
	m := cache.NewManager(staticDeps(nil), cache.WithCapacity(2))

	m.Store("a", 1, result(1.0))
	m.Store("b", 1, result(2.0))

	// Touch a so b becomes the eviction candidate.
	_, ok := m.Lookup("a", 1)
	require.True(t, ok)

	m.Store("c", 1, result(3.0))

	assert.True(t, m.Contains("a", 1))
	assert.False(t, m.Contains("b", 1), "least recently used entry evicted")
	assert.True(t, m.Contains("c", 1))
	assert.Equal(t, 2, m.Stats().Size)
}

func TestManager_ContainsDoesNotPromote(t *testing.T) {
	m := cache.NewManager(staticDeps(nil), cache.WithCapacity(2))

	m.Store("a", 1, result(1.0))
	m.Store("b", 1, result(2.0))

	// Contains must not refresh a's recency.
	assert.True(t, m.Contains("a", 1))
	m.Store("c", 1, result(3.0))

	assert.False(t, m.Contains("a", 1), "a was still the oldest entry")

	stats := m.Stats()
	assert.Zero(t, stats.Hits, "Contains does not count as a hit")
	assert.Zero(t, stats.Misses)
}

func TestManager_TTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := cache.NewManager(staticDeps(nil), cache.WithTTL(time.Minute), cache.WithClock(clock))

	m.Store("a", 1, result(1.0))

	now = now.Add(30 * time.Second)
	_, ok := m.Lookup("a", 1)
	assert.True(t, ok, "entry within TTL")

	now = now.Add(31 * time.Second)
	_, ok = m.Lookup("a", 1)
	assert.False(t, ok, "entry expired")
	assert.False(t, m.Contains("a", 1))
}

func TestManager_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := cache.NewManager(staticDeps(nil), cache.WithTTL(0), cache.WithClock(clock))

	m.Store("a", 1, result(1.0))
	now = now.Add(24 * time.Hour)

	_, ok := m.Lookup("a", 1)
	assert.True(t, ok)
}

func TestManager_StoreOverwrites(t *testing.T) {
	m := cache.NewManager(staticDeps(nil))

	m.Store("a", 1, result(1.0))
	m.Store("a", 2, result(2.0))

	// Restoring under a new signature replaces the entry in place.
	assert.Equal(t, 1, m.Stats().Size)
	got, ok := m.Lookup("a", 2)
	require.True(t, ok)
	assert.Equal(t, 2.0, got[portOut])

	// Lookup takes the node's live signature. Asking with a superseded one
	// means the stored entry is stale and gets dropped.
	_, ok = m.Lookup("a", 1)
	assert.False(t, ok)
	assert.False(t, m.Contains("a", 2))
	assert.Equal(t, 0, m.Stats().Size)
}

func TestManager_Purge(t *testing.T) {
	m := cache.NewManager(staticDeps(nil))
	m.Store("a", 1, result(1.0))
	_, _ = m.Lookup("a", 1)

	m.Purge()

	assert.Equal(t, 0, m.Stats().Size)
	assert.Zero(t, m.Stats().MemoryEstimate)
	assert.Equal(t, uint64(1), m.Stats().Hits, "counters survive a purge")
}

func TestManager_MemoryEstimate(t *testing.T) {
	m := cache.NewManager(staticDeps(nil))
	m.Store("a", 1, result("hello"))

	require.Positive(t, m.Stats().MemoryEstimate)

	m.Invalidate("a")
	assert.Zero(t, m.Stats().MemoryEstimate)
}
