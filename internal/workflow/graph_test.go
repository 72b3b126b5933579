package workflow

import "testing"

func containsEdge(edges []Edge, source, target string) bool {
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

func containsNode(nodes []string, name string) bool {
	for _, n := range nodes {
		if n == name {
			return true
		}
	}
	return false
}

func TestBuildGraph_WithoutTools_ElidesCallTools(t *testing.T) {
	g := BuildGraph(false)

	if containsNode(g.Nodes, NodeCallTools) {
		t.Errorf("expected call_tools node to be elided, got nodes %v", g.Nodes)
	}
	if !containsEdge(g.Edges, NodeGenerateResponse, NodeFormatOutput) {
		t.Errorf("expected direct generate_response -> format_output edge, got %v", g.Edges)
	}
	if containsEdge(g.Edges, NodeGenerateResponse, NodeCallTools) {
		t.Errorf("did not expect generate_response -> call_tools edge, got %v", g.Edges)
	}
}

func TestBuildGraph_WithTools_IncludesLoop(t *testing.T) {
	g := BuildGraph(true)

	if !containsNode(g.Nodes, NodeCallTools) {
		t.Errorf("expected call_tools node present, got %v", g.Nodes)
	}
	if !containsEdge(g.Edges, NodeGenerateResponse, NodeCallTools) {
		t.Errorf("expected generate_response -> call_tools edge, got %v", g.Edges)
	}
	if !containsEdge(g.Edges, NodeCallTools, NodeGenerateResponse) {
		t.Errorf("expected call_tools -> generate_response loop edge, got %v", g.Edges)
	}
	if !containsEdge(g.Edges, NodeGenerateResponse, NodeFormatOutput) {
		t.Errorf("expected generate_response -> format_output exit edge, got %v", g.Edges)
	}
}

func TestBuildGraph_AlwaysHasStartAndEnd(t *testing.T) {
	for _, hasTools := range []bool{false, true} {
		g := BuildGraph(hasTools)
		if g.Nodes[0] != NodeStart {
			t.Errorf("hasTools=%v: first node = %q, want %q", hasTools, g.Nodes[0], NodeStart)
		}
		if g.Nodes[len(g.Nodes)-1] != NodeEnd {
			t.Errorf("hasTools=%v: last node = %q, want %q", hasTools, g.Nodes[len(g.Nodes)-1], NodeEnd)
		}
	}
}
