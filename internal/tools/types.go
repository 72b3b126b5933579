// Package tools implements the local tool registry and the built-in
// tools every session starts with.
package tools

import "fmt"

// ErrorType classifies a built-in tool failure.
type ErrorType string

const (
	ErrInvalidParams   ErrorType = "invalid_params"
	ErrExecutionFailed ErrorType = "execution_failed"
)

// ToolError is the error type built-in tools return; it carries enough
// structure for the workflow engine to render a useful ToolResult without
// string-matching error text.
type ToolError struct {
	Type    ErrorType
	Message string
}

func (e *ToolError) Error() string { return e.Message }

func NewToolError(t ErrorType, msg string) *ToolError {
	return &ToolError{Type: t, Message: msg}
}

func NewToolErrorf(t ErrorType, format string, args ...any) *ToolError {
	return &ToolError{Type: t, Message: fmt.Sprintf(format, args...)}
}
