package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/patchwork/internal/adapters/config"
	"go.trai.ch/patchwork/internal/adapters/kinds"
	"go.trai.ch/patchwork/internal/adapters/logger"
	"go.trai.ch/patchwork/internal/adapters/watcher"
	"go.trai.ch/patchwork/internal/core/ports"
)

// NodeID is the unique identifier for the application graft node.
const NodeID graft.ID = "app"

// Components bundles the fully wired application for the CLI entry point.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			kinds.NodeID,
			kinds.TypeCheckerNodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.PatchLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[ports.KindRegistry](ctx)
			if err != nil {
				return nil, err
			}
			types, err := graft.Dep[ports.TypeChecker](ctx)
			if err != nil {
				return nil, err
			}
			watch, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{
				App:    New(loader, log, registry, types, watch),
				Logger: log,
			}, nil
		},
	})
}
