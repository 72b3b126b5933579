package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/jyje/pilot-agent/internal/llm"
)

const CalculateToolName = "calculate"

const maxExpressionLength = 128

// allowedExpressionChars bounds the expression alphabet: digits, the four
// operators, parentheses, a decimal point, and spaces only. Anything else is
// rejected before the expression ever reaches a parser.
const allowedExpressionChars = "0123456789+-*/(). "

// CalculateTool evaluates a bounded arithmetic expression. It follows the
// same allow-list/bounded-length contract as get_current_time.
type CalculateTool struct{}

func NewCalculateTool() *CalculateTool { return &CalculateTool{} }

func (t *CalculateTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        CalculateToolName,
		Description: "Evaluate a bounded arithmetic expression (digits, + - * / ( ) . only).",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "An arithmetic expression, e.g. (2 + 3) * 4",
				},
			},
			"required":             []string{"expression"},
			"additionalProperties": false,
		},
	}
}

type calculateArgs struct {
	Expression string `json:"expression"`
}

func (t *CalculateTool) Execute(ctx context.Context, args []byte) (string, error) {
	var parsed calculateArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", NewToolErrorf(ErrInvalidParams, "invalid arguments: %v", err)
	}
	expr := parsed.Expression
	if len(expr) == 0 || len(expr) > maxExpressionLength {
		return "", NewToolError(ErrInvalidParams, "expression must be 1-128 characters")
	}
	for _, c := range expr {
		allowed := false
		for _, ok := range allowedExpressionChars {
			if c == ok {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", NewToolError(ErrInvalidParams, "expression contains a disallowed character")
		}
	}

	value, err := evalArithmetic(expr)
	if err != nil {
		return "", NewToolErrorf(ErrExecutionFailed, "could not evaluate expression: %v", err)
	}
	return fmt.Sprintf("%g", value), nil
}

// evalArithmetic parses expr as a Go expression (safe here because the
// caller already restricted the character set to digits/operators/dot) and
// evaluates the resulting numeric literal tree without executing any code.
func evalArithmetic(expr string) (float64, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, err
	}
	return evalNode(node)
}

func evalNode(n ast.Expr) (float64, error) {
	switch v := n.(type) {
	case *ast.BasicLit:
		if v.Kind != token.INT && v.Kind != token.FLOAT {
			return 0, fmt.Errorf("unsupported literal")
		}
		var f float64
		_, err := fmt.Sscanf(v.Value, "%g", &f)
		return f, err
	case *ast.ParenExpr:
		return evalNode(v.X)
	case *ast.UnaryExpr:
		x, err := evalNode(v.X)
		if err != nil {
			return 0, err
		}
		if v.Op == token.SUB {
			return -x, nil
		}
		return x, nil
	case *ast.BinaryExpr:
		x, err := evalNode(v.X)
		if err != nil {
			return 0, err
		}
		y, err := evalNode(v.Y)
		if err != nil {
			return 0, err
		}
		switch v.Op {
		case token.ADD:
			return x + y, nil
		case token.SUB:
			return x - y, nil
		case token.MUL:
			return x * y, nil
		case token.QUO:
			if y == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return x / y, nil
		default:
			return 0, fmt.Errorf("unsupported operator")
		}
	default:
		return 0, fmt.Errorf("unsupported expression")
	}
}
