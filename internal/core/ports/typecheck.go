package ports

import "go.trai.ch/patchwork/internal/core/domain"

// TypeChecker decides whether a value produced by one port type may flow
// into another. Compatibility of generic port types can be expensive to
// decide, so the connection validator memoizes answers per type pair;
// implementations must therefore be deterministic.
//
//go:generate mockgen -source=typecheck.go -destination=mocks/mock_typecheck.go -package=mocks
type TypeChecker interface {
	Compatible(from, to domain.PortType) bool
}
