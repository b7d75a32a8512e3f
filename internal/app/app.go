// Package app implements the application layer for patchwork.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/patchwork/internal/adapters/detector"
	"go.trai.ch/patchwork/internal/adapters/telemetry"
	"go.trai.ch/patchwork/internal/adapters/viewport"
	"go.trai.ch/patchwork/internal/adapters/watcher"
	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
	"go.trai.ch/patchwork/internal/engine/patch"
	"go.trai.ch/patchwork/internal/engine/topo"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader  ports.PatchLoader
	logger  ports.Logger
	kinds   ports.KindRegistry
	types   ports.TypeChecker
	watcher ports.Watcher
}

// New creates a new App instance.
func New(
	loader ports.PatchLoader,
	log ports.Logger,
	kinds ports.KindRegistry,
	types ports.TypeChecker,
	watch ports.Watcher,
) *App {
	return &App{
		loader:  loader,
		logger:  log,
		kinds:   kinds,
		types:   types,
		watcher: watch,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Watch       bool
	Verbose     bool
	OutputMode  string
	Parallelism int
}

// Run loads a patch document, evaluates it, and optionally keeps watching
// the file for live re-evaluation.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) error {
	// 1. Resolve the document location
	docPath, err := a.resolvePath(path)
	if err != nil {
		return err
	}

	// 2. Load the document
	doc, err := a.loader.Load(docPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load patch")
	}

	// 3. Resolve output mode
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
	if mode == detector.ModeJSON {
		a.logger.SetJSON(true)
	}

	// 4. Initialize Telemetry
	// Register a span processor that narrates per-node evaluation progress
	// through the logger. Quiet unless --verbose is set.
	bridge := telemetry.NewBridge(a.logger, opts.Verbose)
	tp := telemetry.Setup(bridge)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer("patchwork")

	// 5. Build the engine from the document
	eng, err := a.buildEngine(doc, tracer, opts)
	if err != nil {
		return err
	}
	defer eng.Close()

	// 6. Full evaluation pass
	if err := a.evaluate(ctx, eng, doc.Name, true); err != nil && !opts.Watch {
		return err
	}

	if !opts.Watch {
		return nil
	}
	return a.watch(ctx, eng, doc, docPath)
}

// watch re-evaluates the patch whenever its document changes on disk.
// Reload failures keep the last good document in place.
func (a *App) watch(ctx context.Context, eng *patch.Engine, doc *domain.PatchDoc, docPath string) error {
	if err := a.watcher.Start(ctx, docPath); err != nil {
		return zerr.Wrap(err, "failed to watch patch file")
	}

	// Editors fire bursts of events per save; collapse each burst into a
	// single reload.
	reloads := make(chan struct{}, 1)
	deb := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(_ []string) {
		select {
		case reloads <- struct{}{}:
		default:
		}
	})

	a.logger.Info(fmt.Sprintf("watching %s for changes", docPath))

	g, ctx := errgroup.WithContext(ctx)

	// Event pump: feed raw file system events into the debouncer. The
	// iterator ends when the watcher stops.
	g.Go(func() error {
		for ev := range a.watcher.Events() {
			if ev.Operation == ports.OpRemove {
				continue
			}
			deb.Add(ev.Path)
		}
		return nil
	})

	// Reload loop: one iteration per debounced save.
	g.Go(func() error {
		defer func() {
			_ = a.watcher.Stop()
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-reloads:
				doc = a.reload(ctx, eng, doc, docPath)
			}
		}
	})

	return g.Wait()
}

// reload loads the document again, applies the difference to the running
// engine, and evaluates whatever became dirty. Returns the document now in
// effect.
func (a *App) reload(ctx context.Context, eng *patch.Engine, current *domain.PatchDoc, docPath string) *domain.PatchDoc {
	next, err := a.loader.Load(docPath)
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "reload failed, keeping previous patch"))
		return current
	}

	a.syncDocument(eng, current, next)

	if err := a.evaluate(ctx, eng, next.Name, false); err != nil && !errors.Is(err, domain.ErrEvaluationFailed) {
		a.logger.Error(err)
	}
	return next
}

// syncDocument applies the structural difference between two document
// versions to the engine. Parameter writes go through the change detector,
// so saving an unchanged file triggers no re-evaluation.
func (a *App) syncDocument(eng *patch.Engine, current, next *domain.PatchDoc) {
	currentNodes := make(map[domain.NodeID]domain.PatchNode, len(current.Nodes))
	for _, n := range current.Nodes {
		currentNodes[n.ID] = n
	}
	nextNodes := make(map[domain.NodeID]domain.PatchNode, len(next.Nodes))
	for _, n := range next.Nodes {
		nextNodes[n.ID] = n
	}

	// Removed nodes first, so freed single-input ports can be rewired below.
	for id := range currentNodes {
		if _, ok := nextNodes[id]; !ok {
			if err := eng.RemoveNode(id); err != nil {
				a.logger.Error(err)
			}
		}
	}

	for _, n := range next.Nodes {
		prev, existed := currentNodes[n.ID]
		if existed && prev.Kind != n.Kind {
			// A kind change is a different node wearing the same name.
			if err := eng.RemoveNode(n.ID); err != nil {
				a.logger.Error(err)
			}
			existed = false
		}
		if !existed {
			if err := eng.AddNodeWithID(n.ID, n.Kind, n.Params, n.Bounds); err != nil {
				a.logger.Error(err)
			}
			continue
		}
		for name, value := range n.Params {
			if _, err := eng.ApplyParameterWrite(n.ID, name, value); err != nil {
				a.logger.Error(err)
			}
		}
	}

	currentEdges := make(map[domain.Edge]struct{}, len(current.Edges))
	for _, e := range current.Edges {
		currentEdges[e] = struct{}{}
	}
	nextEdges := make(map[domain.Edge]struct{}, len(next.Edges))
	for _, e := range next.Edges {
		nextEdges[e] = struct{}{}
	}

	for _, e := range current.Edges {
		if _, ok := nextEdges[e]; ok {
			continue
		}
		if err := eng.RemoveEdge(e); err != nil && !errors.Is(err, domain.ErrEdgeNotFound) {
			a.logger.Error(err)
		}
	}
	for _, e := range next.Edges {
		if _, ok := currentEdges[e]; ok {
			continue
		}
		if err := eng.AddEdge(e); err != nil {
			a.logger.Error(zerr.Wrap(err, fmt.Sprintf("rejected edge %s.%s -> %s.%s",
				e.From, e.FromPort, e.To, e.ToPort)))
		}
	}
}

// evaluate runs one pass, full or dirty-only, and logs a summary line.
// Node-scoped failures are logged by the engine as they surface.
func (a *App) evaluate(ctx context.Context, eng *patch.Engine, name string, full bool) error {
	var rep *topo.Report
	var err error
	if full {
		rep = eng.EvaluateAll(ctx)
	} else {
		rep, err = eng.EvaluateDirty(ctx)
		if err != nil {
			return err
		}
	}

	if rep.Aborted {
		return zerr.With(domain.ErrEvaluationAborted, "patch", name)
	}

	switch {
	case len(rep.Evaluated) == 0 && rep.CacheHits == 0:
		a.logger.Info(fmt.Sprintf("%s: nothing to evaluate", name))
	default:
		a.logger.Info(fmt.Sprintf("%s: evaluated %d nodes (%d cached) in %s",
			name, len(rep.Evaluated), rep.CacheHits, rep.Duration.Round(time.Microsecond)))
	}

	if len(rep.Errors) > 0 || len(rep.Cycles) > 0 {
		return domain.ErrEvaluationFailed
	}
	return nil
}

// CheckOptions configuration for the Check method.
type CheckOptions struct {
	// DOT, when non-nil, receives the dependency structure in DOT syntax.
	DOT io.Writer
}

// Check validates a patch document without evaluating it: every node kind
// must be registered and every edge must pass connection validation.
func (a *App) Check(_ context.Context, path string, opts CheckOptions) error {
	docPath, err := a.resolvePath(path)
	if err != nil {
		return err
	}
	doc, err := a.loader.Load(docPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load patch")
	}

	eng, err := a.buildEngine(doc, telemetry.NewNoopTracer(), RunOptions{})
	if err != nil {
		return err
	}
	defer eng.Close()

	stats := eng.Statistics()
	a.logger.Info(fmt.Sprintf("%s is valid: %d nodes, %d edges", doc.Name, stats.NodeCount, stats.EdgeCount))

	if opts.DOT != nil {
		return eng.ExportDOT(opts.DOT, doc.Name)
	}
	return nil
}

// buildEngine constructs an engine instance from a loaded document. Edges
// pass through the full connection validator, so a structurally invalid
// document never produces a running engine.
func (a *App) buildEngine(doc *domain.PatchDoc, tracer ports.Tracer, opts RunOptions) (*patch.Engine, error) {
	vp := viewport.NewStatic(doc.Viewport)
	eng := patch.New(a.kinds, a.types, vp, tracer, a.logger, patch.Options{
		Parallelism: opts.Parallelism,
	})

	for _, n := range doc.Nodes {
		if err := eng.AddNodeWithID(n.ID, n.Kind, n.Params, n.Bounds); err != nil {
			eng.Close()
			return nil, zerr.Wrap(err, fmt.Sprintf("invalid node %s", n.ID))
		}
	}
	for _, e := range doc.Edges {
		if err := eng.AddEdge(e); err != nil {
			eng.Close()
			return nil, zerr.Wrap(err, fmt.Sprintf("invalid edge %s.%s -> %s.%s",
				e.From, e.FromPort, e.To, e.ToPort))
		}
	}
	return eng, nil
}

// resolvePath turns the user-supplied path into a concrete document path.
// An empty path or a directory triggers upward discovery.
func (a *App) resolvePath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return a.loader.Discover(path)
	}
	return path, nil
}
