// Package domain contains the core domain models for the patch evaluation engine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// NodeID is an opaque, stable identifier for a node in the patch graph.
type NodeID string

// NewNodeID returns a fresh random NodeID.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// String returns the id as a string.
func (id NodeID) String() string {
	return string(id)
}

// Value is an opaque parameter or result value. Scalars (bool, int64,
// float64, string) and composites ([]Value-shaped slices, string-keyed maps)
// are hashable; anything else is hashed by its formatted representation.
type Value any

// Result holds a node's evaluated outputs, keyed by output port name.
type Result map[Name]Value

// Node is a vertex in the patch graph. Nodes are owned by the graph arena;
// callers address them by NodeID and must not retain pointers across
// structural mutations.
type Node struct {
	ID     NodeID
	Kind   Name
	Params map[Name]Value

	// Bounds is the node's screen-space footprint, used only to derive
	// dirty regions for the renderer.
	Bounds Region

	Dirty           bool
	Evaluated       bool
	LastEvaluatedAt time.Time

	// Seq is the insertion sequence number assigned by the graph. It breaks
	// ties between simultaneously eligible nodes during ordering so that
	// evaluation order is deterministic.
	Seq uint64
}

// ParamKey addresses a single parameter of a single node. The change
// detector tracks last-written hashes at this granularity.
type ParamKey struct {
	Node  NodeID
	Param Name
}
