package workflow

// NodeStart and NodeEnd are the synthetic sentinels every exported graph
// carries, matching the workflow-engine convention of a dedicated start/end
// marker rather than an implicit entry/exit.
const (
	NodeStart            = "__start__"
	NodeEnd              = "__end__"
	NodeProcessInput     = "process_input"
	NodeGenerateResponse = "generate_response"
	NodeCallTools        = "call_tools"
	NodeFormatOutput     = "format_output"
)

// Edge is one directed edge in the introspected graph.
type Edge struct {
	Source string
	Target string
}

// Graph is the enumerated node/edge view of a compiled workflow, used by
// export tooling. It carries no behavioral coupling to Engine.Run.
type Graph struct {
	Nodes []string
	Edges []Edge
}

// BuildGraph enumerates the node set and edges for a workflow whose catalog
// has hasTools tools bound. When hasTools is false, call_tools is elided and
// generate_response proceeds unconditionally to format_output, matching
// Engine's own elision rule.
func BuildGraph(hasTools bool) Graph {
	g := Graph{
		Nodes: []string{NodeStart, NodeProcessInput, NodeGenerateResponse},
	}
	if hasTools {
		g.Nodes = append(g.Nodes, NodeCallTools)
	}
	g.Nodes = append(g.Nodes, NodeFormatOutput, NodeEnd)

	g.Edges = []Edge{
		{Source: NodeStart, Target: NodeProcessInput},
		{Source: NodeProcessInput, Target: NodeGenerateResponse},
	}
	if hasTools {
		g.Edges = append(g.Edges,
			Edge{Source: NodeGenerateResponse, Target: NodeCallTools},
			Edge{Source: NodeGenerateResponse, Target: NodeFormatOutput},
			Edge{Source: NodeCallTools, Target: NodeGenerateResponse},
		)
	} else {
		g.Edges = append(g.Edges, Edge{Source: NodeGenerateResponse, Target: NodeFormatOutput})
	}
	g.Edges = append(g.Edges, Edge{Source: NodeFormatOutput, Target: NodeEnd})

	return g
}
