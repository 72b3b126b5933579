// Package graphexport renders a workflow.Graph plus the active tool
// catalog as Mermaid or JSON, for the "agent export" command. It has no
// behavioral coupling to the engine: it consumes only the enumerated node
// and edge lists from workflow.BuildGraph.
package graphexport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jyje/pilot-agent/internal/workflow"
)

// ToolInfo is one catalog entry surfaced in an export, tagged "basic" (local)
// or "mcp" (remote).
type ToolInfo struct {
	Name        string
	Description string
	Type        string // "basic" | "mcp"
	Server      string // non-empty only for Type == "mcp"
}

// Document is the format-independent payload both Mermaid and JSON render
// from.
type Document struct {
	Graph       workflow.Graph
	Tools       []ToolInfo
	Description string
}

// labelFor returns the bracketed node label: round-corner for the
// synthetic start/end sentinels, square for everything else.
func labelFor(node string) string {
	switch node {
	case workflow.NodeStart:
		return fmt.Sprintf("%s((start))", sanitizeID(node))
	case workflow.NodeEnd:
		return fmt.Sprintf("%s((end))", sanitizeID(node))
	default:
		return fmt.Sprintf("%s[%s]", sanitizeID(node), node)
	}
}

// sanitizeID strips the leading/trailing double underscores from the
// synthetic sentinel names so they are valid Mermaid node identifiers.
func sanitizeID(node string) string {
	return strings.Trim(node, "_")
}

// RenderMermaid produces a "graph TD" block with classDef styling and an
// optional trailing prose section.
func RenderMermaid(doc Document) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, node := range doc.Graph.Nodes {
		fmt.Fprintf(&b, "    %s\n", labelFor(node))
	}
	for _, e := range doc.Graph.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", sanitizeID(e.Source), sanitizeID(e.Target))
	}
	b.WriteString("\n    classDef startEnd fill:#e1f5e1,stroke:#4caf50,stroke-width:2px\n")
	b.WriteString("    classDef process fill:#e3f2fd,stroke:#2196f3,stroke-width:2px\n")
	fmt.Fprintf(&b, "    class %s,%s startEnd\n", sanitizeID(workflow.NodeStart), sanitizeID(workflow.NodeEnd))

	var process []string
	for _, node := range doc.Graph.Nodes {
		if node != workflow.NodeStart && node != workflow.NodeEnd {
			process = append(process, sanitizeID(node))
		}
	}
	if len(process) > 0 {
		fmt.Fprintf(&b, "    class %s process\n", strings.Join(process, ","))
	}

	out := "# AI 워크플로우 구조\n\n```mermaid\n" + b.String() + "```\n"
	if doc.Description != "" {
		out += "\n## 설명\n\n" + doc.Description + "\n"
	}
	return out
}

// jsonNode/jsonEdge/jsonTool are the {id,type,label} / {source,target} /
// {name,description,type} shapes of the JSON export, field order included,
// so a round-trip test can compare against Mermaid's node/edge set.
type jsonNode struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

type jsonEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type jsonTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type jsonDocument struct {
	Nodes       []jsonNode `json:"nodes"`
	Edges       []jsonEdge `json:"edges"`
	Tools       []jsonTool `json:"tools"`
	Workflow    string     `json:"workflow"`
	Description string     `json:"description"`
}

// RenderJSON produces {nodes,edges,tools,workflow,description}.
func RenderJSON(doc Document) ([]byte, error) {
	out := jsonDocument{Workflow: "pilot agent workflow"}
	for _, node := range doc.Graph.Nodes {
		out.Nodes = append(out.Nodes, jsonNode{ID: node, Type: "node", Label: node})
	}
	for _, e := range doc.Graph.Edges {
		out.Edges = append(out.Edges, jsonEdge{Source: e.Source, Target: e.Target})
	}
	for _, t := range doc.Tools {
		out.Tools = append(out.Tools, jsonTool{Name: t.Name, Description: t.Description, Type: t.Type})
	}
	out.Description = doc.Description
	if out.Description == "" {
		out.Description = "process_input -> generate_response -> call_tools (conditional) -> format_output"
	}
	return json.MarshalIndent(out, "", "  ")
}
