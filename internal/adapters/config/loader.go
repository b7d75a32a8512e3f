// Package config provides the patch document loader.
package config

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.PatchLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

var _ ports.PatchLoader = (*Loader)(nil)

// NewLoader creates a Loader reading from the real filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

var validNodeNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load reads the patch document at path. A directory path starts discovery
// from there instead.
func (l *Loader) Load(path string) (*domain.PatchDoc, error) {
	info, err := l.FS.Stat(path)
	if err != nil {
		return nil, zerr.With(domain.ErrPatchNotFound, "path", path)
	}
	if info.IsDir() {
		path, err = l.Discover(path)
		if err != nil {
			return nil, err
		}
	}

	raw, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPatchReadFailed.Error())
	}

	var file PatchFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrPatchParseFailed.Error())
	}

	return l.buildDoc(path, &file)
}

// Discover walks up from cwd to the nearest directory containing a patch
// document and returns its path.
func (l *Loader) Discover(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.PatchFileName)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrPatchNotFound, "cwd", cwd)
}

func (l *Loader) buildDoc(path string, file *PatchFile) (*domain.PatchDoc, error) {
	name := file.Name
	if name == "" {
		name = filepath.Base(filepath.Dir(path))
	}

	doc := &domain.PatchDoc{
		Name:     name,
		Viewport: regionFromDTO(file.Viewport),
	}

	// Sort node names so document order is deterministic regardless of map
	// iteration.
	nodeNames := make([]string, 0, len(file.Nodes))
	for nodeName := range file.Nodes {
		nodeNames = append(nodeNames, nodeName)
	}
	slices.Sort(nodeNames)

	for _, nodeName := range nodeNames {
		dto := file.Nodes[nodeName]
		if !validNodeNameRegex.MatchString(nodeName) {
			return nil, zerr.With(domain.ErrInvalidPortRef, "node", nodeName)
		}
		if dto == nil || dto.Kind == "" {
			return nil, zerr.With(domain.ErrKindNotRegistered, "node", nodeName)
		}

		doc.Nodes = append(doc.Nodes, domain.PatchNode{
			ID:     domain.NodeID(nodeName),
			Kind:   domain.NewName(dto.Kind),
			Params: convertParams(dto.Params),
			Bounds: regionFromDTO(dto.Bounds),
		})
	}

	for _, dto := range file.Edges {
		fromNode, fromPort, err := parsePortRef(dto.From)
		if err != nil {
			return nil, err
		}
		toNode, toPort, err := parsePortRef(dto.To)
		if err != nil {
			return nil, err
		}
		if _, ok := file.Nodes[fromNode]; !ok {
			return nil, zerr.With(domain.ErrNodeNotFound, "node", fromNode)
		}
		if _, ok := file.Nodes[toNode]; !ok {
			return nil, zerr.With(domain.ErrNodeNotFound, "node", toNode)
		}

		doc.Edges = append(doc.Edges, domain.Edge{
			From:     domain.NodeID(fromNode),
			FromPort: domain.NewName(fromPort),
			To:       domain.NodeID(toNode),
			ToPort:   domain.NewName(toPort),
		})
	}

	return doc, nil
}

// parsePortRef splits a "node.port" reference. Node names cannot contain
// dots, so the first dot is the separator.
func parsePortRef(ref string) (node, port string, err error) {
	node, port, found := strings.Cut(ref, ".")
	if !found || node == "" || port == "" || !validNodeNameRegex.MatchString(node) {
		return "", "", zerr.With(domain.ErrInvalidPortRef, "ref", ref)
	}
	return node, port, nil
}

func convertParams(raw map[string]any) map[domain.Name]domain.Value {
	if len(raw) == 0 {
		return map[domain.Name]domain.Value{}
	}
	converted := make(map[domain.Name]domain.Value, len(raw))
	for key, value := range raw {
		converted[domain.NewName(key)] = value
	}
	return converted
}

func regionFromDTO(dto RegionDTO) domain.Region {
	return domain.Region{X: dto.X, Y: dto.Y, Width: dto.Width, Height: dto.Height}
}
