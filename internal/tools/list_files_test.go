package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestListFilesTool_MatchesGlobPattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	tool := NewListFilesTool(dir)
	args, _ := json.Marshal(listFilesArgs{Pattern: "*.go"})
	out, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "a.go\nb.go" {
		t.Errorf("Execute() = %q, want %q", out, "a.go\nb.go")
	}
}

func TestListFilesTool_RejectsPathTraversal(t *testing.T) {
	tool := NewListFilesTool(t.TempDir())
	args, _ := json.Marshal(listFilesArgs{Pattern: "../../etc/passwd"})
	_, err := tool.Execute(context.Background(), args)
	if err == nil {
		t.Fatal("expected an error for a path-traversal pattern")
	}
}

func TestListFilesTool_DefaultPatternMatchesEverything(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "only.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tool := NewListFilesTool(dir)
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "only.txt" {
		t.Errorf("Execute() = %q, want %q", out, "only.txt")
	}
}
