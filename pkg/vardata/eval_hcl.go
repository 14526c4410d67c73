package vardata

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// HCLEvaluator evaluates ${@ ...} regions as HCL native-syntax expressions.
//
// Available functions are a subset of the go-cty standard library (upper,
// lower, join, split, format, replace, strlen, substr, trimspace, max, min,
// abs) plus getvar(name), getflag(name, flag) and hex(n). Whole numbers are
// returned as int64, other numbers as decimal text.
type HCLEvaluator struct{}

// NewHCLEvaluator returns an HCL evaluator.
func NewHCLEvaluator() *HCLEvaluator {
	return &HCLEvaluator{}
}

// Evaluate parses and evaluates code.
func (HCLEvaluator) Evaluate(code string, vars Getter) (any, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(code), "${@}", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	val, diags := expr.Value(&hcl.EvalContext{Functions: hclFunctions(vars)})
	if diags.HasErrors() {
		return nil, diags
	}

	return ctyResult(val)
}

func ctyResult(val cty.Value) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return "", nil
	}

	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == big.Exact {
				return n, nil
			}
		}

		return bf.Text('f', -1), nil
	case cty.Bool:
		if val.True() {
			return "true", nil
		}

		return "false", nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedResult, val.Type().FriendlyName())
}

func hclFunctions(vars Getter) map[string]function.Function {
	return map[string]function.Function{
		"upper":     stdlib.UpperFunc,
		"lower":     stdlib.LowerFunc,
		"join":      stdlib.JoinFunc,
		"split":     stdlib.SplitFunc,
		"format":    stdlib.FormatFunc,
		"replace":   stdlib.ReplaceFunc,
		"strlen":    stdlib.StrlenFunc,
		"substr":    stdlib.SubstrFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"max":       stdlib.MaxFunc,
		"min":       stdlib.MinFunc,
		"abs":       stdlib.AbsoluteFunc,
		"getvar": function.New(&function.Spec{
			Params: []function.Parameter{{Name: "name", Type: cty.String}},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				if value, ok := vars.GetVar(args[0].AsString()); ok {
					return cty.StringVal(value), nil
				}

				return cty.NullVal(cty.String), nil
			},
		}),
		"getflag": function.New(&function.Spec{
			Params: []function.Parameter{
				{Name: "name", Type: cty.String},
				{Name: "flag", Type: cty.String},
			},
			Type: function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				if value, ok := vars.GetFlag(args[0].AsString(), args[1].AsString()); ok {
					return cty.StringVal(value), nil
				}

				return cty.NullVal(cty.String), nil
			},
		}),
		"hex": function.New(&function.Spec{
			Params: []function.Parameter{{Name: "n", Type: cty.Number}},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				bf := args[0].AsBigFloat()
				n, acc := bf.Int64()
				if acc != big.Exact {
					return cty.NilVal, fmt.Errorf("hex: %s is not an integer", bf.Text('f', -1))
				}

				return cty.StringVal(formatPrefixed(int(n), "0x", 16)), nil
			},
		}),
	}
}
