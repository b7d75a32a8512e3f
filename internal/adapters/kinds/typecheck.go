package kinds

import (
	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
)

// TypeChecker is the default port type compatibility rule: exact match, or
// either side declared as the any type.
type TypeChecker struct{}

var _ ports.TypeChecker = TypeChecker{}

// NewTypeChecker creates the default checker.
func NewTypeChecker() TypeChecker {
	return TypeChecker{}
}

// Compatible reports whether a value of type from may flow into a port of
// type to.
func (TypeChecker) Compatible(from, to domain.PortType) bool {
	if from == domain.TypeAny || to == domain.TypeAny {
		return true
	}
	return from == to
}
