package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/tools"
)

func TestBuild_LocalToolsOnly(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewCalculateTool()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cat := Build(registry, nil)

	entries := cat.List()
	if len(entries) != 1 {
		t.Fatalf("len(List()) = %d, want 1", len(entries))
	}
	if entries[0].Origin != OriginLocal {
		t.Errorf("Origin = %v, want OriginLocal", entries[0].Origin)
	}
	if entries[0].Name != tools.CalculateToolName {
		t.Errorf("Name = %q, want %q", entries[0].Name, tools.CalculateToolName)
	}
}

func TestBuild_DisabledToolExcluded(t *testing.T) {
	registry := tools.NewRegistry()
	calc := tools.NewCalculateTool()
	if err := registry.Register(calc); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Disable(tools.CalculateToolName); err != nil {
		t.Fatalf("Disable: %v", err)
	}

	cat := Build(registry, nil)
	if len(cat.List()) != 0 {
		t.Errorf("len(List()) = %d, want 0 for a disabled-only registry", len(cat.List()))
	}
}

func TestLookup_UnknownName(t *testing.T) {
	cat := Build(tools.NewRegistry(), nil)
	if _, ok := cat.Lookup("does_not_exist"); ok {
		t.Error("Lookup found an entry for a name that was never registered")
	}
}

func TestInvoke_UnknownToolExactErrorText(t *testing.T) {
	cat := Build(tools.NewRegistry(), nil)
	_, err := cat.Invoke(context.Background(), "ghost", json.RawMessage("{}"))
	if err == nil {
		t.Fatal("expected an error for an unknown tool")
	}
	want := "tool not found: ghost"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestInvoke_DispatchesToLocalTool(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewCalculateTool()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cat := Build(registry, nil)

	args, _ := json.Marshal(map[string]string{"expression": "2+3"})
	out, err := cat.Invoke(context.Background(), tools.CalculateToolName, args)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != "5" {
		t.Errorf("Invoke() = %q, want %q", out, "5")
	}
}

func TestSpecs_MirrorsListOrder(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewCalculateTool()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(tools.NewCurrentTimeTool(nil)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cat := Build(registry, nil)

	entries := cat.List()
	specs := cat.Specs()
	if len(specs) != len(entries) {
		t.Fatalf("len(Specs()) = %d, len(List()) = %d", len(specs), len(entries))
	}
	for i := range entries {
		if specs[i].Name != entries[i].Name {
			t.Errorf("Specs()[%d].Name = %q, want %q", i, specs[i].Name, entries[i].Name)
		}
	}
}

var _ llm.Tool = (*tools.CalculateTool)(nil)
