// Package validate implements the connection validator: it certifies that a
// proposed edge is legal before the graph is mutated.
package validate

import (
	"sync"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
	"go.trai.ch/patchwork/internal/engine/graph"
	"go.trai.ch/zerr"
)

// Verdict is the outcome of validating one proposed edge. Checks
// short-circuit on the first failure, so Reasons holds at most one entry.
type Verdict struct {
	Valid   bool
	Reasons []error
}

// Validator checks proposed edges against the live graph. Verdicts are
// cached per edge identity and type compatibility answers per type pair;
// both caches are independent of the value result cache.
type Validator struct {
	graph *graph.Graph
	kinds ports.KindRegistry
	types ports.TypeChecker

	mu sync.Mutex
	// compat memoizes the type checker, which may be expensive for generic
	// port types.
	compat map[[2]domain.PortType]bool
	// verdicts caches full validation outcomes per edge identity.
	verdicts map[domain.Edge]Verdict
}

// New creates a Validator over the given graph.
func New(g *graph.Graph, kinds ports.KindRegistry, types ports.TypeChecker) *Validator {
	return &Validator{
		graph:    g,
		kinds:    kinds,
		types:    types,
		compat:   make(map[[2]domain.PortType]bool),
		verdicts: make(map[domain.Edge]Verdict),
	}
}

// Validate certifies a proposed edge. Checks run in order and stop at the
// first failure: node existence, port existence, self-loop, type
// compatibility, acyclicity, target port capacity.
func (v *Validator) Validate(e domain.Edge) Verdict {
	v.mu.Lock()
	if verdict, ok := v.verdicts[e]; ok {
		v.mu.Unlock()
		return verdict
	}
	v.mu.Unlock()

	verdict := v.check(e)

	v.mu.Lock()
	v.verdicts[e] = verdict
	v.mu.Unlock()
	return verdict
}

// ValidateBatch certifies several proposed edges in one call, e.g. when the
// editor drops a subgraph from the clipboard.
func (v *Validator) ValidateBatch(edges []domain.Edge) []Verdict {
	verdicts := make([]Verdict, len(edges))
	for i, e := range edges {
		verdicts[i] = v.Validate(e)
	}
	return verdicts
}

func (v *Validator) check(e domain.Edge) Verdict {
	fromPort, toPort, err := v.resolvePorts(e)
	if err != nil {
		return reject(err)
	}

	if e.From == e.To {
		return reject(zerr.With(domain.ErrCycleDetected, "self_loop", e.From.String()))
	}

	if !v.compatible(fromPort.Type, toPort.Type) {
		err := zerr.With(domain.ErrTypeMismatch, "from_type", string(fromPort.Type))
		return reject(zerr.With(err, "to_type", string(toPort.Type)))
	}

	// An edge from -> to is illegal if from is already reachable from to.
	if v.graph.Reaches(e.To, e.From) {
		return reject(zerr.With(domain.ErrCycleDetected, "edge", e.String()))
	}

	if toPort.Single && v.portOccupied(e.To, e.ToPort) {
		err := zerr.With(domain.ErrCapacityExceeded, "node", e.To.String())
		return reject(zerr.With(err, "port", e.ToPort.String()))
	}

	return Verdict{Valid: true}
}

func (v *Validator) resolvePorts(e domain.Edge) (domain.PortSpec, domain.PortSpec, error) {
	fromSpec, err := v.kindSpec(e.From)
	if err != nil {
		return domain.PortSpec{}, domain.PortSpec{}, err
	}
	toSpec, err := v.kindSpec(e.To)
	if err != nil {
		return domain.PortSpec{}, domain.PortSpec{}, err
	}

	fromPort, ok := fromSpec.Output(e.FromPort)
	if !ok {
		err := zerr.With(domain.ErrPortNotFound, "node", e.From.String())
		return domain.PortSpec{}, domain.PortSpec{}, zerr.With(err, "port", e.FromPort.String())
	}
	toPort, ok := toSpec.Input(e.ToPort)
	if !ok {
		err := zerr.With(domain.ErrPortNotFound, "node", e.To.String())
		return domain.PortSpec{}, domain.PortSpec{}, zerr.With(err, "port", e.ToPort.String())
	}
	return fromPort, toPort, nil
}

func (v *Validator) kindSpec(id domain.NodeID) (domain.KindSpec, error) {
	n, ok := v.graph.Node(id)
	if !ok {
		return domain.KindSpec{}, zerr.With(domain.ErrNodeNotFound, "node", id.String())
	}
	kind, ok := v.kinds.Resolve(n.Kind)
	if !ok {
		return domain.KindSpec{}, zerr.With(domain.ErrKindNotRegistered, "kind", n.Kind.String())
	}
	return kind.Spec(), nil
}

func (v *Validator) compatible(from, to domain.PortType) bool {
	key := [2]domain.PortType{from, to}

	v.mu.Lock()
	if ok, cached := v.compat[key]; cached {
		v.mu.Unlock()
		return ok
	}
	v.mu.Unlock()

	ok := v.types.Compatible(from, to)

	v.mu.Lock()
	v.compat[key] = ok
	v.mu.Unlock()
	return ok
}

func (v *Validator) portOccupied(id domain.NodeID, port domain.Name) bool {
	for _, incoming := range v.graph.Incoming(id) {
		if incoming.ToPort == port {
			return true
		}
	}
	return false
}

// InvalidateNode drops every cached verdict touching the node. Called when
// the node is removed or its port set changes.
func (v *Validator) InvalidateNode(id domain.NodeID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key := range v.verdicts {
		if key.From == id || key.To == id {
			delete(v.verdicts, key)
		}
	}
}

// InvalidateStructure drops all cached verdicts. Reachability and capacity
// answers depend on the live edge set, so the engine calls this after every
// structural mutation; those are rare relative to validation queries.
func (v *Validator) InvalidateStructure() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.verdicts)
}

func reject(reason error) Verdict {
	return Verdict{Reasons: []error{reason}}
}
