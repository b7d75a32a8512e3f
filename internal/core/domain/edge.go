package domain

// PortType identifies the value type carried by a port. Compatibility
// between two port types is decided by the injected type checker; the
// engine only treats the type as an opaque token.
type PortType string

// TypeAny is compatible with every other port type in the default checker.
const TypeAny PortType = "any"

// Edge is a directed relation from an output port of one node to an input
// port of another. The graph maintains both forward and reverse adjacency
// views so traversal is O(1) in either direction.
type Edge struct {
	From     NodeID
	FromPort Name
	To       NodeID
	ToPort   Name
}

// String renders the edge as "from.port -> to.port" for diagnostics and
// cache keys.
func (e Edge) String() string {
	return e.From.String() + "." + e.FromPort.String() + " -> " + e.To.String() + "." + e.ToPort.String()
}

// PortSpec describes one input or output port of a node kind.
type PortSpec struct {
	Name Name
	Type PortType
	// Single restricts an input port to at most one incoming edge.
	Single bool
}

// KindSpec describes the port surface of a node kind.
type KindSpec struct {
	Kind    Name
	Inputs  []PortSpec
	Outputs []PortSpec
}

// Input returns the input port spec with the given name.
func (k KindSpec) Input(name Name) (PortSpec, bool) {
	for _, p := range k.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return PortSpec{}, false
}

// Output returns the output port spec with the given name.
func (k KindSpec) Output(name Name) (PortSpec, bool) {
	for _, p := range k.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return PortSpec{}, false
}
