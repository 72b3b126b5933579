package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jyje/pilot-agent/internal/llm"
)

const ListFilesToolName = "list_files"

const maxListFilesPathLength = 256

// ListFilesTool lists files under the working directory matching a glob
// pattern. It is sandboxed to the working directory (no path traversal
// above cwd) and follows the same validation contract as the other
// built-ins.
type ListFilesTool struct {
	root string
}

func NewListFilesTool(root string) *ListFilesTool {
	if root == "" {
		root, _ = os.Getwd()
	}
	return &ListFilesTool{root: root}
}

func (t *ListFilesTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        ListFilesToolName,
		Description: "List files under the working directory matching a glob pattern, e.g. **/*.go.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern": map[string]any{
					"type":        "string",
					"description": "Doublestar glob pattern, relative to the working directory. Defaults to **/*.",
				},
			},
			"additionalProperties": false,
		},
	}
}

type listFilesArgs struct {
	Pattern string `json:"pattern"`
}

func (t *ListFilesTool) Execute(ctx context.Context, args []byte) (string, error) {
	var parsed listFilesArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return "", NewToolErrorf(ErrInvalidParams, "invalid arguments: %v", err)
		}
	}
	pattern := parsed.Pattern
	if pattern == "" {
		pattern = "**/*"
	}
	if len(pattern) > maxListFilesPathLength || containsShellMetacharacter(pattern) {
		return "", NewToolError(ErrInvalidParams, "pattern argument rejected")
	}
	if strings.Contains(pattern, "..") {
		return "", NewToolError(ErrInvalidParams, "pattern may not traverse above the working directory")
	}

	fsys := os.DirFS(t.root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return "", NewToolErrorf(ErrExecutionFailed, "invalid glob pattern: %v", err)
	}

	var out strings.Builder
	for i, m := range matches {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(filepath.ToSlash(m))
	}
	return out.String(), nil
}
