package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/patchwork/internal/adapters/logger"
	"go.trai.ch/patchwork/internal/core/ports"
)

// NodeID is the unique identifier for the patch loader graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.PatchLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.PatchLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
