package graphexport

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jyje/pilot-agent/internal/workflow"
)

func TestRenderMermaid_ContainsEveryNodeAndEdge(t *testing.T) {
	graph := workflow.BuildGraph(true)
	doc := Document{Graph: graph, Tools: []ToolInfo{{Name: "calculate", Type: "basic"}}}

	out := RenderMermaid(doc)
	if !strings.Contains(out, "graph TD") {
		t.Error("expected a graph TD header")
	}
	for _, node := range graph.Nodes {
		if !strings.Contains(out, sanitizeID(node)) {
			t.Errorf("rendered Mermaid missing node %q", node)
		}
	}
}

func TestRenderJSON_NodeAndEdgeSetMatchesGraph(t *testing.T) {
	graph := workflow.BuildGraph(false)
	doc := Document{Graph: graph}

	data, err := RenderJSON(doc)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var parsed jsonDocument
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(parsed.Nodes) != len(graph.Nodes) {
		t.Fatalf("len(Nodes) = %d, want %d", len(parsed.Nodes), len(graph.Nodes))
	}
	for i, n := range graph.Nodes {
		if parsed.Nodes[i].ID != n {
			t.Errorf("Nodes[%d].ID = %q, want %q", i, parsed.Nodes[i].ID, n)
		}
	}

	if len(parsed.Edges) != len(graph.Edges) {
		t.Fatalf("len(Edges) = %d, want %d", len(parsed.Edges), len(graph.Edges))
	}
	for i, e := range graph.Edges {
		if parsed.Edges[i].Source != e.Source || parsed.Edges[i].Target != e.Target {
			t.Errorf("Edges[%d] = %+v, want %+v", i, parsed.Edges[i], e)
		}
	}
}

func TestRenderJSON_DefaultDescriptionWhenUnset(t *testing.T) {
	data, err := RenderJSON(Document{Graph: workflow.BuildGraph(false)})
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var parsed jsonDocument
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if parsed.Description == "" {
		t.Error("expected a non-empty default description")
	}
}

func TestLabelFor_SentinelsUseRoundCorners(t *testing.T) {
	if got := labelFor(workflow.NodeStart); !strings.Contains(got, "((start))") {
		t.Errorf("labelFor(NodeStart) = %q, want it to contain \"((start))\"", got)
	}
	if got := labelFor(workflow.NodeEnd); !strings.Contains(got, "((end))") {
		t.Errorf("labelFor(NodeEnd) = %q, want it to contain \"((end))\"", got)
	}
}
