package pipeline

import (
	"github.com/google/cel-go/cel"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/domain/comparison"
	"stocktrail/internal/domain/delivery"
)

// celEnv declares the variables an advanced filter expression may reference.
// The environment is immutable, so one instance serves all requests.
var celEnv = func() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("unit", cel.StringType),
		cel.Variable("first", cel.DoubleType),
		cel.Variable("last", cel.DoubleType),
		cel.Variable("delta", cel.DoubleType),
		cel.Variable("percent", cel.DoubleType),
	)
	if err != nil {
		panic(err)
	}
	return env
}()

// expressionPredicate is a compiled CEL filter expression.
type expressionPredicate struct {
	program cel.Program
}

// compileExpression compiles the optional advanced filter expression once per
// configuration. Returns nil when no expression is configured.
func compileExpression(expr string) (*expressionPredicate, error) {
	if expr == "" {
		return nil, nil
	}

	ast, issues := celEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expression", expr).
			WithDetail("error", issues.Err().Error())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, apperror.NewValidation("filter expression must evaluate to a boolean").
			WithDetail("expression", expr)
	}

	program, err := celEnv.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expression", expr).
			WithDetail("error", err.Error())
	}

	return &expressionPredicate{program: program}, nil
}

// eval runs the predicate against one item's boundary values.
func (p *expressionPredicate) eval(name string, first, last *delivery.Item, mode comparison.Mode) (bool, error) {
	firstVal := comparison.ValueFor(first, mode)
	lastVal := comparison.ValueFor(last, mode)

	unit := ""
	if last != nil {
		unit = last.Unit
	} else if first != nil {
		unit = first.Unit
	}

	out, _, err := p.program.Eval(map[string]any{
		"name":    name,
		"unit":    unit,
		"first":   firstVal,
		"last":    lastVal,
		"delta":   lastVal - firstVal,
		"percent": comparison.ChangePercent(firstVal, lastVal),
	})
	if err != nil {
		return false, apperror.NewValidation("filter expression failed").
			WithDetail("error", err.Error())
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewValidation("filter expression must evaluate to a boolean")
	}
	return result, nil
}
