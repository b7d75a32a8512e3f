package ports

import "go.trai.ch/patchwork/internal/core/domain"

// PatchLoader loads a patch document from disk.
//
//go:generate mockgen -source=patch_loader.go -destination=mocks/mock_patch_loader.go -package=mocks
type PatchLoader interface {
	// Load reads the patch document at path, or discovers one starting from
	// path when it is a directory.
	Load(path string) (*domain.PatchDoc, error)

	// Discover walks up from cwd to find the nearest patch document.
	Discover(cwd string) (string, error)
}
