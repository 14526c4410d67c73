package vardata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprEvaluator evaluates ${@ ...} regions as expr-lang expressions.
//
// On top of the expr-lang builtins it provides:
//   - getVar(name): variable content, nil when absent
//   - getFlag(name, flag): flag value, nil when absent
//   - d.GetVar(name), d.GetFlag(name, flag): the same through the bound store
//   - hex(n), oct(n): "0x"/"0o" prefixed integer text
//   - str(v): text form of any value
//   - string * int and int * string: repetition
//
// Compiled programs are cached by source text. An ExprEvaluator is not safe
// for concurrent use.
type ExprEvaluator struct {
	programs map[string]*vm.Program
}

// NewExprEvaluator returns an evaluator with an empty program cache.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{programs: make(map[string]*vm.Program)}
}

// Evaluate compiles code (once per distinct code) and runs it with read
// access to vars.
func (ev *ExprEvaluator) Evaluate(code string, vars Getter) (any, error) {
	program, ok := ev.programs[code]
	if !ok {
		var err error
		program, err = expr.Compile(strings.TrimSpace(code), exprOptions(exprEnv(nil))...)
		if err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
		ev.programs[code] = program
	}

	out, err := expr.Run(program, exprEnv(vars))
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	return out, nil
}

// exprVars is the store as seen from expressions, bound as "d".
type exprVars struct {
	vars Getter
}

func (d exprVars) GetVar(name string) any {
	if value, ok := d.vars.GetVar(name); ok {
		return value
	}

	return nil
}

func (d exprVars) GetFlag(name, flag string) any {
	if value, ok := d.vars.GetFlag(name, flag); ok {
		return value
	}

	return nil
}

func exprEnv(vars Getter) map[string]any {
	d := exprVars{vars: vars}

	return map[string]any{
		"d":       d,
		"getVar":  d.GetVar,
		"getFlag": d.GetFlag,
	}
}

func exprOptions(env map[string]any) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.Function("hex", func(params ...any) (any, error) {
			return formatPrefixed(params[0].(int), "0x", 16), nil
		}, new(func(int) string)),
		expr.Function("oct", func(params ...any) (any, error) {
			return formatPrefixed(params[0].(int), "0o", 8), nil
		}, new(func(int) string)),
		expr.Function("str", func(params ...any) (any, error) {
			return fmt.Sprint(params[0]), nil
		}, new(func(any) string)),
		expr.Function("mulString", func(params ...any) (any, error) {
			switch a := params[0].(type) {
			case string:
				return repeatString(a, params[1].(int)), nil
			case int:
				return repeatString(params[1].(string), a), nil
			}

			return nil, fmt.Errorf("%w: %T * %T", ErrUnsupportedResult, params[0], params[1])
		}, new(func(string, int) string), new(func(int, string) string)),
		expr.Operator("*", "mulString"),
	}
}

func formatPrefixed(n int, prefix string, base int) string {
	if n < 0 {
		return "-" + prefix + strconv.FormatInt(-int64(n), base)
	}

	return prefix + strconv.FormatInt(int64(n), base)
}

func repeatString(s string, n int) string {
	if n <= 0 {
		return ""
	}

	return strings.Repeat(s, n)
}
