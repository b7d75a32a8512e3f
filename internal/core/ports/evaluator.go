// Package ports defines the core interfaces for the patch engine.
package ports

import (
	"context"

	"go.trai.ch/patchwork/internal/core/domain"
)

// EvalRequest carries everything a kind needs to produce a result.
type EvalRequest struct {
	// Node is the node being evaluated.
	Node domain.NodeID
	// Params is the node's current parameter map.
	Params map[domain.Name]domain.Value
	// Inputs holds the already-evaluated outputs of the node's dependencies,
	// keyed by input port. Multi-input ports receive values in edge
	// insertion order; single-input ports receive at most one value.
	Inputs map[domain.Name][]domain.Value
}

// Kind is the externally supplied evaluation capability for one node kind.
// Implementations must be pure with respect to the request: no blocking I/O
// and no retained references to the request maps.
//
//go:generate mockgen -source=evaluator.go -destination=mocks/mock_evaluator.go -package=mocks
type Kind interface {
	// Spec describes the kind's input and output ports.
	Spec() domain.KindSpec

	// Evaluate computes the node's outputs from parameters and inputs.
	// A returned error is recorded against the node; the engine keeps the
	// node dirty and continues with independent subgraphs.
	Evaluate(ctx context.Context, req EvalRequest) (domain.Result, error)
}

// KindRegistry resolves node kinds to their evaluation capability.
type KindRegistry interface {
	// Resolve returns the Kind registered under the given name.
	Resolve(kind domain.Name) (Kind, bool)

	// Kinds lists all registered kind names.
	Kinds() []domain.Name
}
