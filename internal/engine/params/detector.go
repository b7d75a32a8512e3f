// Package params implements the parameter change detector: it suppresses
// no-op writes so they never dirty a node, and queues real changes as events
// for whoever schedules incremental passes.
package params

import (
	"iter"
	"sync"

	"go.trai.ch/patchwork/internal/core/domain"
)

// ChangeKind classifies a detected parameter change.
type ChangeKind uint8

const (
	// KindUnchanged means the write carried the value already stored.
	KindUnchanged ChangeKind = iota
	// KindAdded means the parameter had never been written before.
	KindAdded
	// KindModified means the parameter's value changed.
	KindModified
)

// String returns the kind's name.
func (k ChangeKind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindModified:
		return "modified"
	default:
		return "unchanged"
	}
}

// Change is the verdict on a single parameter write.
type Change struct {
	Changed bool
	Kind    ChangeKind
}

// Event is a queued notification of a detected change.
type Event struct {
	Node  domain.NodeID
	Param domain.Name
	Kind  ChangeKind
}

const eventChannelBuffer = 256

// Detector tracks the last-written structural hash per (node, parameter)
// key, at finer granularity than the result cache, purely to answer "did
// this write change anything".
type Detector struct {
	mu     sync.Mutex
	hashes map[domain.ParamKey]uint64
	events chan Event
	closed bool
	// dropped counts events discarded because no consumer kept up. Change
	// detection must never block a parameter write.
	dropped uint64
}

// NewDetector creates a Detector.
func NewDetector() *Detector {
	return &Detector{
		hashes: make(map[domain.ParamKey]uint64),
		events: make(chan Event, eventChannelBuffer),
	}
}

// Check computes a structural hash of newValue and compares it against the
// last stored hash for the key. Equal hashes short-circuit: the node is not
// dirtied and no event is queued. A key never seen before reports
// KindAdded. Real changes update the stored hash and queue an event.
func (d *Detector) Check(id domain.NodeID, param domain.Name, newValue domain.Value) Change {
	key := domain.ParamKey{Node: id, Param: param}
	hash := domain.HashValue(newValue)

	d.mu.Lock()
	defer d.mu.Unlock()

	previous, known := d.hashes[key]
	if known && previous == hash {
		return Change{Changed: false, Kind: KindUnchanged}
	}
	d.hashes[key] = hash

	kind := KindModified
	if !known {
		kind = KindAdded
	}

	// The send is non-blocking: change detection must never stall a
	// parameter write behind a slow consumer.
	if !d.closed {
		select {
		case d.events <- Event{Node: id, Param: param, Kind: kind}:
		default:
			d.dropped++
		}
	}
	return Change{Changed: true, Kind: kind}
}

// Forget drops all tracked hashes for a node. Called on node removal.
func (d *Detector) Forget(id domain.NodeID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.hashes {
		if key.Node == id {
			delete(d.hashes, key)
		}
	}
}

// Events returns an iterator over queued change events. Consumption stops
// when the detector is closed.
func (d *Detector) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for event := range d.events {
			if !yield(event) {
				return
			}
		}
	}
}

// Dropped reports how many events were discarded under backpressure.
func (d *Detector) Dropped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Close stops the event stream.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
}
