package graph

import (
	"fmt"
	"io"
	"sort"
)

// ExportDOT writes the dependency structure in Graphviz DOT syntax.
// Output is deterministic: nodes appear in insertion order, edges sorted by
// their string form. This is a debugging surface, not the render path.
func (g *Graph) ExportDOT(w io.Writer, name string) error {
	if name == "" {
		name = "patch"
	}
	if _, err := fmt.Fprintf(w, "digraph %q {\n  rankdir=LR;\n", name); err != nil {
		return err
	}

	for n := range g.Nodes() {
		label := fmt.Sprintf("%s\\n(%s)", n.ID.String(), n.Kind.String())
		if _, err := fmt.Fprintf(w, "  %q [label=%q];\n", n.ID.String(), label); err != nil {
			return err
		}
	}

	var lines []string
	for _, edges := range g.outgoing {
		for _, e := range edges {
			lines = append(lines, fmt.Sprintf(
				"  %q -> %q [label=%q];",
				e.From.String(), e.To.String(),
				e.FromPort.String()+" to "+e.ToPort.String(),
			))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
