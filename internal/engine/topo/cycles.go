package topo

import (
	"sort"
	"strings"

	"go.trai.ch/patchwork/internal/core/domain"
)

// DetectCycles finds every dependency cycle in the graph using a depth-first
// traversal with a recursion stack. Each cycle is returned as the exact
// nodes on it, in traversal order. Cycles are diagnostic data: the caller
// excludes their nodes from evaluation but the call itself never fails.
func (e *Evaluator) DetectCycles() [][]domain.NodeID {
	const (
		white = 0 // unvisited
		gray  = 1 // on the recursion stack
		black = 2 // fully explored
	)

	color := make(map[domain.NodeID]int, e.graph.NodeCount())
	var stack []domain.NodeID
	var cycles [][]domain.NodeID
	seen := make(map[string]bool)

	var visit func(id domain.NodeID)
	visit = func(id domain.NodeID) {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range e.graph.Dependents(id) {
			switch color[next] {
			case gray:
				cycle := extractCycle(stack, next)
				key := cycleKey(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			case white:
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for n := range e.graph.Nodes() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return cycles
}

// extractCycle copies the stack segment from the first occurrence of start,
// which is exactly the set of nodes on the back edge's cycle.
func extractCycle(stack []domain.NodeID, start domain.NodeID) []domain.NodeID {
	from := 0
	for i, id := range stack {
		if id == start {
			from = i
			break
		}
	}
	cycle := make([]domain.NodeID, len(stack)-from)
	copy(cycle, stack[from:])
	return cycle
}

// cycleKey canonicalizes a cycle regardless of which node the traversal
// entered it through, so the same cycle is reported once.
func cycleKey(cycle []domain.NodeID) string {
	ids := make([]string, len(cycle))
	for i, id := range cycle {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}
