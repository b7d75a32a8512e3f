// Package graph implements the patch graph model: an arena of nodes
// addressed by opaque ids, with separate forward and reverse adjacency
// indexes. All other engine components read and write through it.
package graph

import (
	"iter"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/zerr"
)

// Graph owns the nodes and edges of one patch. It performs no validation
// beyond referential integrity; edge legality is the connection validator's
// job and synchronization is the owning engine's job.
type Graph struct {
	nodes map[domain.NodeID]*domain.Node
	// order preserves node insertion order for deterministic tie-breaking.
	order []domain.NodeID

	// outgoing indexes edges by producer: every edge whose From is the key.
	// Dependents of a node are reached through this view.
	outgoing map[domain.NodeID][]domain.Edge
	// incoming indexes edges by consumer: every edge whose To is the key.
	// Dependencies of a node are reached through this view.
	incoming map[domain.NodeID][]domain.Edge

	edgeCount int
	seq       uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[domain.NodeID]*domain.Node),
		outgoing: make(map[domain.NodeID][]domain.Edge),
		incoming: make(map[domain.NodeID][]domain.Edge),
	}
}

// AddNode inserts a node into the arena. The node starts dirty, since it has
// never been evaluated. Its insertion sequence number is assigned here.
func (g *Graph) AddNode(n *domain.Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return zerr.With(domain.ErrNodeAlreadyExists, "node", n.ID.String())
	}
	if n.Params == nil {
		n.Params = make(map[domain.Name]domain.Value)
	}
	n.Dirty = true
	n.Evaluated = false
	n.Seq = g.seq
	g.seq++

	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// RemoveNode deletes a node and every incident edge. It returns the removed
// edges so the caller can cascade invalidation of caches keyed by edge or
// endpoint identity.
func (g *Graph) RemoveNode(id domain.NodeID) ([]domain.Edge, error) {
	if _, exists := g.nodes[id]; !exists {
		return nil, zerr.With(domain.ErrNodeNotFound, "node", id.String())
	}

	removed := make([]domain.Edge, 0, len(g.outgoing[id])+len(g.incoming[id]))
	removed = append(removed, g.outgoing[id]...)
	removed = append(removed, g.incoming[id]...)
	for _, e := range removed {
		g.detachEdge(e)
	}

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(o domain.NodeID) bool { return o == id })
	delete(g.outgoing, id)
	delete(g.incoming, id)
	return removed, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id domain.NodeID) (*domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes yields all nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[*domain.Node] {
	return func(yield func(*domain.Node) bool) {
		for _, id := range g.order {
			if !yield(g.nodes[id]) {
				return
			}
		}
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// DirtyNodes returns the ids of all dirty nodes in insertion order.
func (g *Graph) DirtyNodes() []domain.NodeID {
	var dirty []domain.NodeID
	for _, id := range g.order {
		if g.nodes[id].Dirty {
			dirty = append(dirty, id)
		}
	}
	return dirty
}

// AddEdge inserts an edge. Both endpoints must exist and the exact edge must
// not already be present. Legality checks beyond that (types, cycles,
// capacity) belong to the connection validator, which runs before this.
func (g *Graph) AddEdge(e domain.Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return zerr.With(domain.ErrNodeNotFound, "node", e.From.String())
	}
	if _, ok := g.nodes[e.To]; !ok {
		return zerr.With(domain.ErrNodeNotFound, "node", e.To.String())
	}
	if slices.Contains(g.outgoing[e.From], e) {
		return zerr.With(domain.ErrDuplicateEdge, "edge", e.String())
	}

	g.outgoing[e.From] = append(g.outgoing[e.From], e)
	g.incoming[e.To] = append(g.incoming[e.To], e)
	g.edgeCount++
	return nil
}

// RemoveEdge deletes an edge. The not-found error keeps the sentinel in its
// chain; callers removing edges that a node removal may already have cascaded
// away filter on it with errors.Is.
func (g *Graph) RemoveEdge(e domain.Edge) error {
	if !slices.Contains(g.outgoing[e.From], e) {
		return zerr.With(zerr.Wrap(domain.ErrEdgeNotFound, "failed to remove edge"), "edge", e.String())
	}
	g.detachEdge(e)
	return nil
}

func (g *Graph) detachEdge(e domain.Edge) {
	g.outgoing[e.From] = slices.DeleteFunc(g.outgoing[e.From], func(o domain.Edge) bool { return o == e })
	g.incoming[e.To] = slices.DeleteFunc(g.incoming[e.To], func(o domain.Edge) bool { return o == e })
	g.edgeCount--
}

// Outgoing returns the edges leaving the node's output ports.
func (g *Graph) Outgoing(id domain.NodeID) []domain.Edge {
	return g.outgoing[id]
}

// Incoming returns the edges arriving at the node's input ports.
func (g *Graph) Incoming(id domain.NodeID) []domain.Edge {
	return g.incoming[id]
}

// Dependencies returns the distinct producers feeding the node.
func (g *Graph) Dependencies(id domain.NodeID) []domain.NodeID {
	return distinctEndpoints(g.incoming[id], func(e domain.Edge) domain.NodeID { return e.From })
}

// Dependents returns the distinct consumers fed by the node.
func (g *Graph) Dependents(id domain.NodeID) []domain.NodeID {
	return distinctEndpoints(g.outgoing[id], func(e domain.Edge) domain.NodeID { return e.To })
}

func distinctEndpoints(edges []domain.Edge, pick func(domain.Edge) domain.NodeID) []domain.NodeID {
	if len(edges) == 0 {
		return nil
	}
	seen := make(map[domain.NodeID]bool, len(edges))
	out := make([]domain.NodeID, 0, len(edges))
	for _, e := range edges {
		id := pick(e)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// DependentsClosure returns every node transitively depending on any of the
// sources, excluding the sources themselves, via breadth-first traversal of
// the forward index.
func (g *Graph) DependentsClosure(sources ...domain.NodeID) []domain.NodeID {
	visited := make(map[domain.NodeID]bool, len(sources))
	queue := make([]domain.NodeID, 0, len(sources))
	for _, s := range sources {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	var closure []domain.NodeID
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.Dependents(current) {
			if !visited[dep] {
				visited[dep] = true
				closure = append(closure, dep)
				queue = append(queue, dep)
			}
		}
	}
	return closure
}

// Reaches reports whether to is transitively reachable from from along
// forward edges. The connection validator uses it to reject edges that
// would close a cycle.
func (g *Graph) Reaches(from, to domain.NodeID) bool {
	if from == to {
		return true
	}
	visited := map[domain.NodeID]bool{from: true}
	queue := []domain.NodeID{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Dependents(current) {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Signature computes the node's cache validity token from its current
// parameter values and the identities of its current incoming edges.
// Dependency values are deliberately excluded; staleness of upstream results
// is handled by transitive cache invalidation instead.
func (g *Graph) Signature(id domain.NodeID) (domain.Signature, error) {
	n, ok := g.nodes[id]
	if !ok {
		return 0, zerr.With(domain.ErrNodeNotFound, "node", id.String())
	}

	h := xxhash.New()
	_, _ = h.WriteString(n.Kind.String())
	_, _ = h.Write([]byte{0})

	params := make([]string, 0, len(n.Params))
	for name := range n.Params {
		params = append(params, name.String())
	}
	sort.Strings(params)
	for _, name := range params {
		_, _ = h.WriteString(name)
		_, _ = h.Write([]byte{'='})
		hash := domain.HashValue(n.Params[domain.NewName(name)])
		_, _ = h.WriteString(domain.Signature(hash).String())
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	edges := make([]string, 0, len(g.incoming[id]))
	for _, e := range g.incoming[id] {
		edges = append(edges, e.String())
	}
	sort.Strings(edges)
	for _, e := range edges {
		_, _ = h.WriteString(e)
		_, _ = h.Write([]byte{0})
	}

	return domain.Signature(h.Sum64()), nil
}
