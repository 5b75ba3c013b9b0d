// Package tools provides optional built-in domain tools agents can register
// alongside the Forest's own plantools: a calculator and a sandboxed pair of
// file read/write tools.
package tools

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/helios-engine/helios/pkg/tool"
)

// Calculator evaluates arithmetic expressions (+ - * / %, parentheses,
// unary minus) for an agent that needs exact arithmetic rather than
// LLM-guessed arithmetic.
type Calculator struct{}

// NewCalculator constructs the calculator tool.
func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Definition() tool.Definition {
	return tool.Definition{
		Name:        "calculator",
		Description: "Evaluate an arithmetic expression and return the numeric result. Supports + - * / %, parentheses, and unary minus.",
		Parameters: map[string]tool.Parameter{
			"expression": {TypeName: "string", Description: "The arithmetic expression to evaluate, e.g. \"15 * 7\".", Required: true},
		},
	}
}

func (c *Calculator) Execute(ctx context.Context, arguments map[string]any) (tool.Result, error) {
	expr, ok := arguments["expression"].(string)
	if !ok || expr == "" {
		return tool.ErrorResult("expression parameter is required"), nil
	}

	value, err := evalArithmetic(expr)
	if err != nil {
		return tool.ErrorResult(err.Error()), nil
	}
	return tool.Result{Content: formatNumber(value)}, nil
}

var _ tool.Tool = (*Calculator)(nil)

// evalArithmetic parses expr as a Go expression and evaluates it over
// float64, rejecting anything but numeric literals and +-*/% operators.
func evalArithmetic(expr string) (float64, error) {
	node, err := parser.ParseExprFrom(token.NewFileSet(), "", expr, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid expression: %w", err)
	}
	return evalNode(node)
}

func evalNode(n ast.Expr) (float64, error) {
	switch e := n.(type) {
	case *ast.ParenExpr:
		return evalNode(e.X)
	case *ast.BasicLit:
		if e.Kind != token.INT && e.Kind != token.FLOAT {
			return 0, fmt.Errorf("unsupported literal %q", e.Value)
		}
		var v float64
		if _, err := fmt.Sscanf(e.Value, "%g", &v); err != nil {
			return 0, fmt.Errorf("invalid number %q", e.Value)
		}
		return v, nil
	case *ast.UnaryExpr:
		x, err := evalNode(e.X)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case token.SUB:
			return -x, nil
		case token.ADD:
			return x, nil
		default:
			return 0, fmt.Errorf("unsupported unary operator %s", e.Op)
		}
	case *ast.BinaryExpr:
		x, err := evalNode(e.X)
		if err != nil {
			return 0, err
		}
		y, err := evalNode(e.Y)
		if err != nil {
			return 0, err
		}
		switch e.Op {
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
		case token.REM:
			if y == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return float64(int64(x) % int64(y)), nil
		default:
			return 0, fmt.Errorf("unsupported operator %s", e.Op)
		}
	default:
		return 0, fmt.Errorf("unsupported expression")
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
