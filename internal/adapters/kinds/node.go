package kinds

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/patchwork/internal/core/ports"
)

// NodeID is the unique identifier for the kind registry graft node.
const NodeID graft.ID = "adapter.kinds"

// TypeCheckerNodeID is the unique identifier for the type checker graft node.
const TypeCheckerNodeID graft.ID = "adapter.typechecker"

func init() {
	graft.Register(graft.Node[ports.KindRegistry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.KindRegistry, error) {
			return NewBuiltinRegistry(), nil
		},
	})

	graft.Register(graft.Node[ports.TypeChecker]{
		ID:        TypeCheckerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TypeChecker, error) {
			return NewTypeChecker(), nil
		},
	})
}
