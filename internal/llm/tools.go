package llm

import "context"

// Tool describes a local callable tool bound into the catalog. Remote tools
// are not Tools: package catalog routes their calls to the mcp manager.
type Tool interface {
	Spec() ToolSpec
	Execute(ctx context.Context, args []byte) (string, error)
}
