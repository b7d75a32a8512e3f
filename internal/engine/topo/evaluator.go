// Package topo implements the topological evaluator: it orders the patch
// graph with Kahn's algorithm and evaluates nodes leaves-first, consulting
// the result cache per node and tolerating per-node failures.
package topo

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
	"go.trai.ch/patchwork/internal/engine/cache"
	"go.trai.ch/patchwork/internal/engine/graph"
	"go.trai.ch/zerr"
)

// Evaluator runs full or dirty-only evaluation passes over one graph.
type Evaluator struct {
	graph       *graph.Graph
	cache       *cache.Manager
	kinds       ports.KindRegistry
	tracer      ports.Tracer
	parallelism int
}

// New creates an Evaluator. parallelism bounds the number of nodes evaluated
// concurrently; values below 1 are treated as 1.
func New(
	g *graph.Graph,
	c *cache.Manager,
	kinds ports.KindRegistry,
	tracer ports.Tracer,
	parallelism int,
) *Evaluator {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Evaluator{graph: g, cache: c, kinds: kinds, tracer: tracer, parallelism: parallelism}
}

// Report describes the outcome of one evaluation pass.
type Report struct {
	// Affected is the size of the dirty set for incremental passes.
	Affected int
	// Evaluated lists nodes whose kind logic actually ran, in completion order.
	Evaluated []domain.NodeID
	// CacheHits counts nodes served from the result cache during this pass.
	CacheHits int
	// Results holds the output of every node processed this pass, whether
	// freshly computed or served from cache.
	Results map[domain.NodeID]domain.Result
	// Timings records per-node evaluation wall time.
	Timings map[domain.NodeID]time.Duration
	// Errors records node-scoped failures: evaluation errors and cycle
	// membership. Failing nodes stay dirty.
	Errors map[domain.NodeID]error
	// Skipped lists nodes that could not run because an upstream dependency
	// failed or the pass was cancelled. Skipped nodes stay dirty.
	Skipped []domain.NodeID
	// Cycles holds every dependency cycle found, as diagnostic data.
	Cycles [][]domain.NodeID
	// Aborted reports whether the pass was cancelled before completing.
	// Unprocessed nodes appear in Skipped and stay dirty.
	Aborted bool
	// Duration is the wall time of the whole pass.
	Duration time.Duration
}

// Order returns a valid evaluation order. With dirtyOnly, the full order is
// filtered down to dirty nodes, preserving relative order. Nodes on a cycle
// are excluded.
func (e *Evaluator) Order(dirtyOnly bool) []domain.NodeID {
	order := e.kahnOrder()
	if !dirtyOnly {
		return order
	}
	filtered := order[:0:0]
	for _, id := range order {
		if n, ok := e.graph.Node(id); ok && n.Dirty {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// kahnOrder computes a full topological order over in-degree counts from the
// reverse-edge index. Ties between simultaneously eligible nodes are broken
// by insertion sequence, so the order is deterministic. Nodes on a cycle
// never reach in-degree zero and are left out.
func (e *Evaluator) kahnOrder() []domain.NodeID {
	inDegree := make(map[domain.NodeID]int, e.graph.NodeCount())
	var ready []domain.NodeID

	for n := range e.graph.Nodes() {
		degree := len(e.graph.Dependencies(n.ID))
		inDegree[n.ID] = degree
		if degree == 0 {
			ready = insertBySeq(ready, n.ID, e.seq)
		}
	}

	order := make([]domain.NodeID, 0, len(inDegree))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, dep := range e.graph.Dependents(id) {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = insertBySeq(ready, dep, e.seq)
			}
		}
	}
	return order
}

func (e *Evaluator) seq(id domain.NodeID) uint64 {
	n, ok := e.graph.Node(id)
	if !ok {
		return 0
	}
	return n.Seq
}

// insertBySeq keeps the ready queue sorted by insertion sequence.
func insertBySeq(ready []domain.NodeID, id domain.NodeID, seq func(domain.NodeID) uint64) []domain.NodeID {
	at := sort.Search(len(ready), func(i int) bool { return seq(ready[i]) > seq(id) })
	return slices.Insert(ready, at, id)
}

// Evaluate runs one pass. With dirtyOnly, only dirty nodes (plus any clean
// dependency whose cached result went missing) are evaluated; everything
// else is served from the cache. Per-node failures are recorded and
// independent subgraphs keep evaluating.
func (e *Evaluator) Evaluate(ctx context.Context, dirtyOnly bool) *Report {
	start := time.Now()
	rep := &Report{
		Results: make(map[domain.NodeID]domain.Result),
		Timings: make(map[domain.NodeID]time.Duration),
		Errors:  make(map[domain.NodeID]error),
	}

	order := e.kahnOrder()
	e.reportCycles(rep, order)

	runSet := e.planRunSet(order, dirtyOnly)
	e.runPass(ctx, rep, order, runSet)

	rep.Aborted = ctx.Err() != nil
	rep.Duration = time.Since(start)
	return rep
}

// reportCycles records cycle diagnostics and a node-scoped error for every
// node excluded from the order. Nodes on a cycle are cyclic; nodes merely
// downstream of one can never receive their inputs and are skipped instead.
func (e *Evaluator) reportCycles(rep *Report, order []domain.NodeID) {
	if len(order) == e.graph.NodeCount() {
		return
	}
	rep.Cycles = e.DetectCycles()
	onCycle := make(map[domain.NodeID]bool)
	for _, cycle := range rep.Cycles {
		for _, id := range cycle {
			onCycle[id] = true
		}
	}
	ordered := make(map[domain.NodeID]bool, len(order))
	for _, id := range order {
		ordered[id] = true
	}
	for n := range e.graph.Nodes() {
		switch {
		case ordered[n.ID]:
		case onCycle[n.ID]:
			rep.Errors[n.ID] = zerr.With(domain.ErrCycleDetected, "node", n.ID.String())
		default:
			rep.Errors[n.ID] = zerr.With(domain.ErrEvaluationSkipped, "node", n.ID.String())
			rep.Skipped = append(rep.Skipped, n.ID)
		}
	}
}

// planRunSet selects the nodes this pass must actually process. For full
// passes that is every ordered node. For dirty-only passes it is the dirty
// nodes, widened with any clean dependency whose result is no longer cached
// (evicted or expired) and so must be recomputed before its consumers.
func (e *Evaluator) planRunSet(order []domain.NodeID, dirtyOnly bool) map[domain.NodeID]bool {
	runSet := make(map[domain.NodeID]bool, len(order))
	if !dirtyOnly {
		for _, id := range order {
			runSet[id] = true
		}
		return runSet
	}

	needed := make(map[domain.NodeID]bool)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n, ok := e.graph.Node(id)
		if !ok {
			continue
		}
		if !n.Dirty && !needed[id] {
			continue
		}
		runSet[id] = true
		for _, dep := range e.graph.Dependencies(id) {
			depNode, ok := e.graph.Node(dep)
			if !ok || depNode.Dirty || needed[dep] {
				continue
			}
			sig, err := e.graph.Signature(dep)
			if err != nil || !e.cache.Contains(dep, sig) {
				needed[dep] = true
			}
		}
	}
	return runSet
}

type nodeOutcome struct {
	id     domain.NodeID
	result domain.Result
	err    error
	cached bool
	took   time.Duration
}

type passState struct {
	e         *Evaluator
	ctx       context.Context
	rep       *Report
	runSet    map[domain.NodeID]bool
	inDegree  map[domain.NodeID]int
	ready     []domain.NodeID
	active    int
	outcomes  chan nodeOutcome
	processed map[domain.NodeID]bool
}

// runPass drives the ready-queue execution loop: schedule every node whose
// in-run-set dependencies have completed, collect outcomes, and unlock
// dependents as results land. Dependents of failed nodes never unlock; they
// surface in Report.Skipped and stay dirty.
func (e *Evaluator) runPass(
	ctx context.Context,
	rep *Report,
	order []domain.NodeID,
	runSet map[domain.NodeID]bool,
) {
	state := &passState{
		e:         e,
		ctx:       ctx,
		rep:       rep,
		runSet:    runSet,
		inDegree:  make(map[domain.NodeID]int, len(runSet)),
		outcomes:  make(chan nodeOutcome, e.parallelism),
		processed: make(map[domain.NodeID]bool, len(runSet)),
	}

	for _, id := range order {
		if !runSet[id] {
			continue
		}
		degree := 0
		for _, dep := range e.graph.Dependencies(id) {
			if runSet[dep] {
				degree++
			}
		}
		state.inDegree[id] = degree
		if degree == 0 {
			state.ready = append(state.ready, id)
		}
	}

	for !state.done() {
		state.schedule()
		if state.done() {
			break
		}
		if state.ctx.Err() != nil {
			// Cancelled: nothing more gets scheduled, so block on the
			// outstanding workers alone instead of spinning on Done.
			if state.active == 0 {
				break
			}
			state.handle(<-state.outcomes)
			continue
		}
		select {
		case out := <-state.outcomes:
			state.handle(out)
		case <-state.ctx.Done():
		}
	}

	for _, id := range order {
		if runSet[id] && !state.processed[id] {
			rep.Skipped = append(rep.Skipped, id)
		}
	}
}

func (s *passState) done() bool {
	return s.active == 0 && len(s.ready) == 0
}

func (s *passState) schedule() {
	for len(s.ready) > 0 && s.active < s.e.parallelism && s.ctx.Err() == nil {
		id := s.ready[0]
		s.ready = s.ready[1:]

		// Signature and inputs are assembled on the loop goroutine, where
		// all completed results are already visible; the worker only runs
		// the cache lookup and the kind logic.
		sig, inputs, err := s.prepare(id)
		if err != nil {
			s.processed[id] = true
			s.rep.Errors[id] = err
			continue
		}

		s.active++
		go s.evaluate(id, sig, inputs)
	}
}

// prepare computes the node's signature and gathers its inputs from results
// completed this pass or, for clean dependencies outside the run set, from
// the cache.
func (s *passState) prepare(id domain.NodeID) (domain.Signature, map[domain.Name][]domain.Value, error) {
	sig, err := s.e.graph.Signature(id)
	if err != nil {
		return 0, nil, err
	}

	inputs := make(map[domain.Name][]domain.Value)
	for _, edge := range s.e.graph.Incoming(id) {
		result, ok := s.rep.Results[edge.From]
		if !ok {
			depSig, sigErr := s.e.graph.Signature(edge.From)
			if sigErr != nil {
				return 0, nil, sigErr
			}
			result, ok = s.e.cache.Lookup(edge.From, depSig)
			if ok {
				s.rep.CacheHits++
				s.rep.Results[edge.From] = result
			}
		}
		if !ok {
			return 0, nil, zerr.With(domain.ErrMissingInput, "edge", edge.String())
		}
		value, ok := result[edge.FromPort]
		if !ok {
			return 0, nil, zerr.With(domain.ErrMissingInput, "edge", edge.String())
		}
		inputs[edge.ToPort] = append(inputs[edge.ToPort], value)
	}
	return sig, inputs, nil
}

// evaluate runs on a worker goroutine.
func (s *passState) evaluate(id domain.NodeID, sig domain.Signature, inputs map[domain.Name][]domain.Value) {
	out := func() nodeOutcome {
		ctx, span := s.e.tracer.Start(s.ctx, id.String())
		defer span.End()

		if result, ok := s.e.cache.Lookup(id, sig); ok {
			span.SetAttribute("patchwork.cached", true)
			return nodeOutcome{id: id, result: result, cached: true}
		}

		node, ok := s.e.graph.Node(id)
		if !ok {
			err := zerr.With(domain.ErrNodeNotFound, "node", id.String())
			span.RecordError(err)
			return nodeOutcome{id: id, err: err}
		}
		span.SetAttribute("patchwork.kind", node.Kind.String())

		kind, ok := s.e.kinds.Resolve(node.Kind)
		if !ok {
			err := zerr.With(domain.ErrKindNotRegistered, "kind", node.Kind.String())
			span.RecordError(err)
			return nodeOutcome{id: id, err: err}
		}

		started := time.Now()
		result, err := kind.Evaluate(ctx, ports.EvalRequest{
			Node:   id,
			Params: node.Params,
			Inputs: inputs,
		})
		took := time.Since(started)
		if err != nil {
			span.RecordError(err)
			return nodeOutcome{id: id, err: errors.Join(domain.ErrEvaluationFailed, err), took: took}
		}

		s.e.cache.Store(id, sig, result)
		return nodeOutcome{id: id, result: result, took: took}
	}()

	s.outcomes <- out
}

// handle integrates a worker outcome on the loop goroutine. Node flags are
// only mutated here, so two workers can never race to clean the same node.
func (s *passState) handle(out nodeOutcome) {
	s.active--
	s.processed[out.id] = true

	if out.err != nil {
		s.rep.Errors[out.id] = zerr.With(out.err, "node", out.id.String())
		return
	}

	s.rep.Results[out.id] = out.result
	s.rep.Timings[out.id] = out.took
	if out.cached {
		s.rep.CacheHits++
	} else {
		s.rep.Evaluated = append(s.rep.Evaluated, out.id)
	}

	if n, ok := s.e.graph.Node(out.id); ok {
		n.Dirty = false
		n.Evaluated = true
		n.LastEvaluatedAt = time.Now()
	}

	for _, dep := range s.e.graph.Dependents(out.id) {
		if _, inRun := s.inDegree[dep]; !inRun || s.processed[dep] {
			continue
		}
		s.inDegree[dep]--
		if s.inDegree[dep] == 0 {
			s.ready = insertBySeq(s.ready, dep, s.e.seq)
		}
	}
}
