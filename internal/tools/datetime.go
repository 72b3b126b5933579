package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jyje/pilot-agent/internal/llm"
)

const GetCurrentTimeToolName = "get_current_time"

var (
	allowedTimeFormats = map[string]bool{"datetime": true, "date": true, "time": true, "iso": true}
	allowedTimezones   = map[string]bool{"utc": true, "local": true}
)

// shellMetacharacters are rejected outright in any string argument passed to
// a built-in tool, per the allow-list/bounded-length/metacharacter-rejection
// contract every local tool follows.
const shellMetacharacters = ";|&$`\\\"'<>\n\r"

func containsShellMetacharacter(s string) bool {
	for _, c := range s {
		for _, bad := range shellMetacharacters {
			if c == bad {
				return true
			}
		}
	}
	return false
}

const maxArgStringLength = 32

// CurrentTimeTool implements the get_current_time(format?, timezone?)
// built-in: unknown values silently coerce to the default, arguments are
// bounded in length, and any string containing a shell metacharacter is
// rejected rather than coerced.
type CurrentTimeTool struct {
	now func() time.Time
}

// NewCurrentTimeTool creates the get_current_time tool. now defaults to
// time.Now when nil; tests may override it for determinism.
func NewCurrentTimeTool(now func() time.Time) *CurrentTimeTool {
	if now == nil {
		now = time.Now
	}
	return &CurrentTimeTool{now: now}
}

func (t *CurrentTimeTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        GetCurrentTimeToolName,
		Description: "Get the current date and/or time.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"format": map[string]any{
					"type":        "string",
					"description": "One of datetime, date, time, iso. Defaults to datetime.",
				},
				"timezone": map[string]any{
					"type":        "string",
					"description": "One of utc, local. Defaults to local.",
				},
			},
			"additionalProperties": false,
		},
	}
}

type currentTimeArgs struct {
	Format   string `json:"format"`
	Timezone string `json:"timezone"`
}

func (t *CurrentTimeTool) Execute(ctx context.Context, args []byte) (string, error) {
	var parsed currentTimeArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return "", NewToolErrorf(ErrInvalidParams, "invalid arguments: %v", err)
		}
	}

	if len(parsed.Format) > maxArgStringLength || containsShellMetacharacter(parsed.Format) {
		return "", NewToolError(ErrInvalidParams, "format argument rejected")
	}
	if len(parsed.Timezone) > maxArgStringLength || containsShellMetacharacter(parsed.Timezone) {
		return "", NewToolError(ErrInvalidParams, "timezone argument rejected")
	}

	format := parsed.Format
	if !allowedTimeFormats[format] {
		format = "datetime"
	}
	timezone := parsed.Timezone
	if !allowedTimezones[timezone] {
		timezone = "local"
	}

	now := t.now()
	if timezone == "utc" {
		now = now.UTC()
	}

	switch format {
	case "date":
		return now.Format("2006-01-02"), nil
	case "time":
		return now.Format("15:04:05"), nil
	case "iso":
		return now.Format(time.RFC3339), nil
	default:
		return now.Format("2006-01-02 15:04:05"), nil
	}
}
