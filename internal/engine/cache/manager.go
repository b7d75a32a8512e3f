// Package cache implements the result cache: node results keyed by identity
// and signature, with LRU eviction and transitive invalidation.
package cache

import (
	"container/list"
	"sync"
	"time"

	"go.trai.ch/patchwork/internal/core/domain"
)

const (
	// DefaultCapacity bounds the number of retained results.
	DefaultCapacity = 4096
	// DefaultTTL bounds how long an entry stays valid without revalidation.
	DefaultTTL = 10 * time.Minute
)

type entry struct {
	id       domain.NodeID
	sig      domain.Signature
	result   domain.Result
	storedAt time.Time
	size     int
}

// Manager stores evaluated node results. An entry is served only when its
// stored signature matches the signature recomputed from the node's live
// inputs and it is within TTL; any mismatch invalidates the entry and,
// transitively, the entries of every dependent node, since their inputs are
// by definition stale even before their own signatures are recomputed.
type Manager struct {
	mu       sync.Mutex
	elements map[domain.NodeID]*list.Element
	lru      *list.List // front is most recently used
	capacity int
	ttl      time.Duration
	hits     uint64
	misses   uint64
	memory   int

	// dependents returns the direct consumers of a node; the manager walks
	// it breadth-first for cascading invalidation.
	dependents func(domain.NodeID) []domain.NodeID

	// now is swappable for TTL tests.
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity sets the maximum number of entries.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithTTL sets the entry time-to-live. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager. dependents provides the reverse-index view
// used for cascading invalidation and must stay consistent with the graph
// the cached nodes live in.
func NewManager(dependents func(domain.NodeID) []domain.NodeID, opts ...Option) *Manager {
	m := &Manager{
		elements:   make(map[domain.NodeID]*list.Element),
		lru:        list.New(),
		capacity:   DefaultCapacity,
		ttl:        DefaultTTL,
		dependents: dependents,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lookup returns the cached result for the node if it was stored under the
// same signature and has not expired. A signature mismatch is treated as a
// staleness signal: the entry and all transitively dependent entries are
// dropped before reporting a miss, so a mis-hashed entry self-heals on the
// next pass instead of persisting wrong output.
func (m *Manager) Lookup(id domain.NodeID, sig domain.Signature) (domain.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.elements[id]
	if !ok {
		m.misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if e.sig != sig || m.expired(e) {
		m.invalidateLocked(id)
		m.misses++
		return nil, false
	}

	m.lru.MoveToFront(el)
	m.hits++
	return e.result, true
}

// Contains reports whether a valid entry exists for the node under the given
// signature, without promoting it or touching the hit/miss counters. The
// evaluator uses it while planning a pass; actual serving goes through Lookup.
func (m *Manager) Contains(id domain.NodeID, sig domain.Signature) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.elements[id]
	if !ok {
		return false
	}
	e := el.Value.(*entry)
	return e.sig == sig && !m.expired(e)
}

// Store records the result of a successful evaluation, evicting the least
// recently used entries when over capacity.
func (m *Manager) Store(id domain.NodeID, sig domain.Signature, result domain.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := estimateSize(result)
	if el, ok := m.elements[id]; ok {
		e := el.Value.(*entry)
		m.memory += size - e.size
		e.sig = sig
		e.result = result
		e.storedAt = m.now()
		e.size = size
		m.lru.MoveToFront(el)
		return
	}

	el := m.lru.PushFront(&entry{id: id, sig: sig, result: result, storedAt: m.now(), size: size})
	m.elements[id] = el
	m.memory += size

	for m.lru.Len() > m.capacity {
		oldest := m.lru.Back()
		if oldest == nil {
			break
		}
		m.removeLocked(oldest.Value.(*entry).id)
	}
}

// Invalidate drops the node's entry and the entries of every node
// transitively depending on it.
func (m *Manager) Invalidate(id domain.NodeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidateLocked(id)
}

// invalidateLocked cascades through the dependents index breadth-first.
// Traversal covers all dependents, not just cached ones, because a dependent
// without an entry can still have cached dependents of its own.
func (m *Manager) invalidateLocked(id domain.NodeID) {
	visited := map[domain.NodeID]bool{id: true}
	queue := []domain.NodeID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		m.removeLocked(current)
		if m.dependents == nil {
			continue
		}
		for _, dep := range m.dependents(current) {
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
}

func (m *Manager) removeLocked(id domain.NodeID) {
	el, ok := m.elements[id]
	if !ok {
		return
	}
	m.memory -= el.Value.(*entry).size
	m.lru.Remove(el)
	delete(m.elements, id)
}

// Purge drops all entries. Counters are kept.
func (m *Manager) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elements = make(map[domain.NodeID]*list.Element)
	m.lru.Init()
	m.memory = 0
}

// Stats returns a snapshot of cache counters.
func (m *Manager) Stats() domain.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CacheStats{
		Size:           m.lru.Len(),
		Capacity:       m.capacity,
		Hits:           m.hits,
		Misses:         m.misses,
		MemoryEstimate: m.memory,
	}
}

func (m *Manager) expired(e *entry) bool {
	if m.ttl <= 0 {
		return false
	}
	return m.now().Sub(e.storedAt) > m.ttl
}

// estimateSize is a rough accounting of a result's retained bytes. It only
// needs to be proportional, not exact; eviction is driven by entry count.
func estimateSize(r domain.Result) int {
	const perEntry = 48
	size := perEntry
	for name, v := range r {
		size += len(name.String()) + scalarSize(v)
	}
	return size
}

func scalarSize(v domain.Value) int {
	switch val := v.(type) {
	case string:
		return len(val)
	case []domain.Value:
		size := 0
		for _, item := range val {
			size += scalarSize(item)
		}
		return size
	case []any:
		size := 0
		for _, item := range val {
			size += scalarSize(item)
		}
		return size
	default:
		return 8
	}
}
