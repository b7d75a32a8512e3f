package config

// PatchFile represents the structure of a patch.yaml document.
type PatchFile struct {
	Version  string              `yaml:"version"`
	Name     string              `yaml:"name"`
	Viewport RegionDTO           `yaml:"viewport"`
	Nodes    map[string]*NodeDTO `yaml:"nodes"`
	Edges    []EdgeDTO           `yaml:"edges"`
}

// NodeDTO represents one node declaration.
type NodeDTO struct {
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
	Bounds RegionDTO      `yaml:"bounds"`
}

// EdgeDTO represents one connection declaration. From and To are port
// references in "node.port" form.
type EdgeDTO struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RegionDTO represents a screen rectangle.
type RegionDTO struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}
