package graph_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/patchwork/internal/engine/graph"
)

func TestGraph_ExportDOT(t *testing.T) {
	g := graph.New()
	addNode(t, g, "source", "const")
	addNode(t, g, "sum", "add")
	addNode(t, g, "scale", "mul")
	require.NoError(t, g.AddEdge(edge("source", "sum")))
	require.NoError(t, g.AddEdge(edge("sum", "scale")))
	require.NoError(t, g.AddEdge(edge("source", "scale")))

	var buf bytes.Buffer
	require.NoError(t, g.ExportDOT(&buf, "demo"))

	gold := goldie.New(t)
	gold.Assert(t, "dot_demo", buf.Bytes())
}

func TestGraph_ExportDOT_DefaultName(t *testing.T) {
	g := graph.New()
	addNode(t, g, "solo", "const")

	var buf bytes.Buffer
	require.NoError(t, g.ExportDOT(&buf, ""))

	gold := goldie.New(t)
	gold.Assert(t, "dot_unnamed", buf.Bytes())
}
