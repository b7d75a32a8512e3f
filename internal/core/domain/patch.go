package domain

// PatchFileName is the canonical patch document file name.
const PatchFileName = "patch.yaml"

// PatchDoc is the loaded form of a patch document. It is what the config
// loader hands to the application layer; the engine itself is built from it
// node by node so every edge still passes the connection validator.
type PatchDoc struct {
	Name  string
	Nodes []PatchNode
	Edges []Edge
	// Viewport is the visible screen bounds declared by the document.
	// Empty means everything is visible.
	Viewport Region
}

// PatchNode is one node declaration in a patch document.
type PatchNode struct {
	ID     NodeID
	Kind   Name
	Params map[Name]Value
	Bounds Region
}
