package indexer

import (
	"fmt"
	"math"

	"github.com/knetic/govaluate"
)

var exprFunctions = map[string]govaluate.ExpressionFunction{
	"floor": unary(math.Floor),
	"abs":   unary(math.Abs),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
}

// Expression evaluates an arithmetic expression per pixel. The expression sees the
// variables x, y, w (canvas width), h (canvas height) and n (palette size) and the
// functions floor, abs, min and max. A numeric result is floored to an index; any
// other result maps to -1, which an encoder rejects as out of range.
type Expression struct {
	src    string
	expr   *govaluate.EvaluableExpression
	width  int
	height int
	colors int
}

func NewExpression(src string, width, height, colors int) (*Expression, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, exprFunctions)
	if err != nil {
		return nil, fmt.Errorf("could not parse expression %q: %w", src, err)
	}

	e := &Expression{
		src:    src,
		expr:   expr,
		width:  width,
		height: height,
		colors: colors,
	}
	if _, err := e.eval(0, 0); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Expression) Index(x, y int) int {
	v, err := e.eval(x, y)
	if err != nil {
		return -1
	}
	return v
}

func (e *Expression) String() string {
	return e.src
}

func (e *Expression) eval(x, y int) (int, error) {
	res, err := e.expr.Evaluate(map[string]any{
		"x": float64(x),
		"y": float64(y),
		"w": float64(e.width),
		"h": float64(e.height),
		"n": float64(e.colors),
	})
	if err != nil {
		return 0, fmt.Errorf("could not evaluate %q at (%d, %d): %w", e.src, x, y, err)
	}

	f, ok := res.(float64)
	if !ok || math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("expression %q does not give an index at (%d, %d): %v", e.src, x, y, res)
	}
	return int(math.Floor(f)), nil
}

func unary(f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		a, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("argument is not a number: %v", args[0])
		}
		return f(a), nil
	}
}

func binary(f func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("want 2 arguments, got %d", len(args))
		}
		a, aok := args[0].(float64)
		b, bok := args[1].(float64)
		if !aok || !bok {
			return nil, fmt.Errorf("arguments are not numbers: %v, %v", args[0], args[1])
		}
		return f(a, b), nil
	}
}
