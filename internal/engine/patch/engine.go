// Package patch implements the engine facade: one instance per open patch,
// owning the graph, the caches, the validator and the trackers. All shared
// state is instance state, so independent patches never interfere.
package patch

import (
	"context"
	"io"
	"iter"
	"sync"
	"time"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
	"go.trai.ch/patchwork/internal/engine/cache"
	"go.trai.ch/patchwork/internal/engine/graph"
	"go.trai.ch/patchwork/internal/engine/incremental"
	"go.trai.ch/patchwork/internal/engine/params"
	"go.trai.ch/patchwork/internal/engine/region"
	"go.trai.ch/patchwork/internal/engine/topo"
	"go.trai.ch/patchwork/internal/engine/validate"
	"go.trai.ch/zerr"
)

// Options configures an Engine.
type Options struct {
	// CacheCapacity bounds the result cache entry count.
	CacheCapacity int
	// CacheTTL bounds result entry lifetime. Zero disables expiry.
	CacheTTL time.Duration
	// Parallelism bounds concurrent node evaluation. Values below 1 mean
	// sequential evaluation.
	Parallelism int
}

// Engine is the evaluation core behind one open patch. Structural mutations
// and evaluation passes are serialized by a single mutation lock; validation
// and change detection queries are cheap enough that the same lock covers
// them without showing up in editor latency.
type Engine struct {
	mu sync.Mutex

	log    ports.Logger
	kinds  ports.KindRegistry
	tracer ports.Tracer

	graph     *graph.Graph
	cache     *cache.Manager
	topo      *topo.Evaluator
	inc       *incremental.Evaluator
	validator *validate.Validator
	regions   *region.Tracker
	detector  *params.Detector

	lastEvalTime time.Duration
}

// New creates an Engine with no nodes.
func New(
	kinds ports.KindRegistry,
	types ports.TypeChecker,
	viewport ports.Viewport,
	tracer ports.Tracer,
	log ports.Logger,
	opts Options,
) *Engine {
	g := graph.New()

	var cacheOpts []cache.Option
	if opts.CacheCapacity > 0 {
		cacheOpts = append(cacheOpts, cache.WithCapacity(opts.CacheCapacity))
	}
	if opts.CacheTTL > 0 {
		cacheOpts = append(cacheOpts, cache.WithTTL(opts.CacheTTL))
	}
	c := cache.NewManager(g.Dependents, cacheOpts...)

	t := topo.New(g, c, kinds, tracer, opts.Parallelism)

	return &Engine{
		log:       log,
		kinds:     kinds,
		tracer:    tracer,
		graph:     g,
		cache:     c,
		topo:      t,
		inc:       incremental.New(g, c, t),
		validator: validate.New(g, kinds, types),
		regions:   region.New(viewport),
		detector:  params.NewDetector(),
	}
}

// AddNode creates a node of the given kind and inserts it into the graph.
// The kind must be registered. The node starts dirty.
func (e *Engine) AddNode(kind domain.Name, parameters map[domain.Name]domain.Value, bounds domain.Region) (domain.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.kinds.Resolve(kind); !ok {
		return "", zerr.With(domain.ErrKindNotRegistered, "kind", kind.String())
	}

	if parameters == nil {
		parameters = make(map[domain.Name]domain.Value)
	}
	node := &domain.Node{
		ID:     domain.NewNodeID(),
		Kind:   kind,
		Params: parameters,
		Bounds: bounds,
	}
	if err := e.graph.AddNode(node); err != nil {
		return "", err
	}

	// Verdicts cached while this id was missing are stale now.
	e.validator.InvalidateNode(node.ID)

	// Seed the change detector so the next identical write is a no-op.
	for name, value := range node.Params {
		e.detector.Check(node.ID, name, value)
	}

	e.regions.MarkDirty(domain.DirtyRegion{Region: bounds, Priority: 1})
	return node.ID, nil
}

// AddNodeWithID inserts a node under a caller-chosen id, e.g. when loading
// a patch document whose node names are stable identifiers.
func (e *Engine) AddNodeWithID(id domain.NodeID, kind domain.Name, parameters map[domain.Name]domain.Value, bounds domain.Region) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.kinds.Resolve(kind); !ok {
		return zerr.With(domain.ErrKindNotRegistered, "kind", kind.String())
	}

	if parameters == nil {
		parameters = make(map[domain.Name]domain.Value)
	}
	node := &domain.Node{ID: id, Kind: kind, Params: parameters, Bounds: bounds}
	if err := e.graph.AddNode(node); err != nil {
		return err
	}
	e.validator.InvalidateNode(id)
	for name, value := range node.Params {
		e.detector.Check(id, name, value)
	}
	e.regions.MarkDirty(domain.DirtyRegion{Region: bounds, Priority: 1})
	return nil
}

// RemoveNode deletes a node, cascading removal of its edges, its cached
// results (and those of everything downstream), its validator verdicts and
// its change detector registrations. Former dependents become dirty.
func (e *Engine) RemoveNode(id domain.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, ok := e.graph.Node(id)
	if !ok {
		return zerr.With(domain.ErrNodeNotFound, "node", id.String())
	}
	bounds := node.Bounds

	// Capture dependents and cascade cache invalidation while the edges are
	// still in place; after removal the reverse index no longer knows them.
	dependents := e.graph.Dependents(id)
	e.cache.Invalidate(id)

	if _, err := e.graph.RemoveNode(id); err != nil {
		return err
	}

	for _, dep := range dependents {
		if n, ok := e.graph.Node(dep); ok {
			n.Dirty = true
			e.regions.MarkDirty(domain.DirtyRegion{Region: n.Bounds, Priority: 1})
		}
	}

	e.validator.InvalidateNode(id)
	e.validator.InvalidateStructure()
	e.detector.Forget(id)
	e.regions.MarkDirty(domain.DirtyRegion{Region: bounds, Priority: 2})
	return nil
}

// ApplyParameterWrite routes a parameter write through the change detector.
// A write carrying the current value is a no-op: the node is not dirtied and
// nothing downstream re-evaluates. A real change stores the value, dirties
// the node, drops its cached results transitively, and records the node's
// bounds for redraw.
func (e *Engine) ApplyParameterWrite(id domain.NodeID, name domain.Name, value domain.Value) (params.Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, ok := e.graph.Node(id)
	if !ok {
		return params.Change{}, zerr.With(domain.ErrNodeNotFound, "node", id.String())
	}

	change := e.detector.Check(id, name, value)
	if !change.Changed {
		return change, nil
	}

	node.Params[name] = value
	node.Dirty = true
	e.cache.Invalidate(id)
	e.regions.MarkDirty(domain.DirtyRegion{Region: node.Bounds, Priority: 1})
	return change, nil
}

// ValidateEdge certifies a proposed edge without mutating anything, e.g.
// for live feedback while the user drags a connection.
func (e *Engine) ValidateEdge(edge domain.Edge) validate.Verdict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validator.Validate(edge)
}

// AddEdge validates the proposed edge and, if legal, inserts it. The target
// node becomes dirty and its cached results are dropped transitively; the
// graph is never left structurally invalid.
func (e *Engine) AddEdge(edge domain.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	verdict := e.validator.Validate(edge)
	if !verdict.Valid {
		return verdict.Reasons[0]
	}

	if err := e.graph.AddEdge(edge); err != nil {
		return err
	}
	e.afterEdgeMutation(edge)
	return nil
}

// RemoveEdge deletes an edge. The former target becomes dirty since it lost
// an input.
func (e *Engine) RemoveEdge(edge domain.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.RemoveEdge(edge); err != nil {
		return err
	}
	e.afterEdgeMutation(edge)
	return nil
}

func (e *Engine) afterEdgeMutation(edge domain.Edge) {
	if n, ok := e.graph.Node(edge.To); ok {
		n.Dirty = true
		e.regions.MarkDirty(domain.DirtyRegion{Region: n.Bounds, Priority: 1})
	}
	e.cache.Invalidate(edge.To)
	// Reachability and capacity verdicts depend on the live edge set.
	e.validator.InvalidateStructure()
}

// EvaluateAll evaluates every node in topological order, serving unchanged
// nodes from the result cache.
func (e *Engine) EvaluateAll(ctx context.Context) *topo.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishPass(e.topo.Evaluate(ctx, false))
}

// EvaluateDirty expands the current dirty set through dependents and
// evaluates only that, in one pass.
func (e *Engine) EvaluateDirty(ctx context.Context) (*topo.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dirty := e.graph.DirtyNodes()
	if len(dirty) == 0 {
		return &topo.Report{}, nil
	}

	rep, err := e.inc.EvaluateFrom(ctx, dirty...)
	if err != nil {
		return nil, err
	}
	return e.finishPass(rep), nil
}

// finishPass records pass-wide bookkeeping: timing, redraw regions for
// evaluated nodes, and a log line for every node-scoped failure.
func (e *Engine) finishPass(rep *topo.Report) *topo.Report {
	e.lastEvalTime = rep.Duration

	for _, id := range rep.Evaluated {
		if n, ok := e.graph.Node(id); ok {
			e.regions.MarkDirty(domain.DirtyRegion{Region: n.Bounds, Priority: 1})
		}
	}
	for id, err := range rep.Errors {
		e.log.Error(zerr.With(err, "node", id.String()))
	}
	return rep
}

// DirtyRegionsForRender returns the dirty regions intersecting the current
// viewport. The renderer calls ClearDirtyRegions once it has redrawn.
func (e *Engine) DirtyRegionsForRender() []domain.DirtyRegion {
	return e.regions.VisibleDirty()
}

// ClearDirtyRegions drops all tracked regions after a completed redraw.
func (e *Engine) ClearDirtyRegions() {
	e.regions.Clear()
}

// Changes returns the stream of detected parameter changes, for whoever
// schedules incremental passes.
func (e *Engine) Changes() iter.Seq[params.Event] {
	return e.detector.Events()
}

// Statistics returns an engine snapshot for the editor's status surface.
func (e *Engine) Statistics() domain.EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.EngineStats{
		NodeCount:    e.graph.NodeCount(),
		EdgeCount:    e.graph.EdgeCount(),
		DirtyNodes:   len(e.graph.DirtyNodes()),
		Cache:        e.cache.Stats(),
		LastEvalTime: e.lastEvalTime,
	}
}

// ExportDOT writes the dependency structure in DOT syntax.
func (e *Engine) ExportDOT(w io.Writer, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.ExportDOT(w, name)
}

// Close releases the engine's event stream.
func (e *Engine) Close() {
	e.detector.Close()
}
