package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/patchwork/internal/core/ports"
)

// NodeID is the unique identifier for the logger graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return New(), nil
		},
	})
}
