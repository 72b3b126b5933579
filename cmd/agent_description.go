package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/workflow"
)

// dirOf returns the directory component of path, or "." when path has none.
func dirOf(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

// generateGraphDescription asks the configured provider for a short prose
// description of the workflow graph, for "agent export --ai-description".
func generateGraphDescription(ctx context.Context, sess *appSession, graph workflow.Graph) (string, error) {
	prompt := fmt.Sprintf(
		"In two or three sentences, describe this agent workflow graph for a README. Nodes: %v. Edges: %v.",
		graph.Nodes, graph.Edges,
	)
	stream, err := sess.Provider.Stream(ctx, llm.Request{Messages: []llm.Message{llm.NewUserMessage(prompt)}})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var text string
	for {
		ev, err := stream.Recv()
		if err != nil {
			if llm.IsStreamDone(err) {
				break
			}
			return "", err
		}
		if ev.Kind == llm.EventText {
			text += ev.Text
		}
	}
	return text, nil
}
