package vardata

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrEvalDisabled is returned by [DisabledEvaluator] for every code region.
	ErrEvalDisabled = errors.New("vardata: embedded expressions are disabled")

	// ErrUnsupportedResult is returned when an expression yields something
	// other than a string or an integer.
	ErrUnsupportedResult = errors.New("vardata: unsupported expression result")
)

// Getter is read access to a set of variables. [Store] implements it.
type Getter interface {
	GetVar(name string) (string, bool)
	GetFlag(name, flag string) (string, bool)
}

// Evaluator evaluates the code of a ${@ ...} region.
//
// Implementations get read access to the variables being expanded against.
// The returned value must be a string or an integer; anything else makes
// expansion fail with [ErrUnsupportedResult]. Errors abort the expansion.
type Evaluator interface {
	Evaluate(code string, vars Getter) (any, error)
}

// EvaluatorFunc adapts a function to [Evaluator].
type EvaluatorFunc func(code string, vars Getter) (any, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(code string, vars Getter) (any, error) {
	return f(code, vars)
}

// DisabledEvaluator rejects every expression.
var DisabledEvaluator Evaluator = EvaluatorFunc(func(code string, _ Getter) (any, error) {
	return nil, fmt.Errorf("%w: %q", ErrEvalDisabled, code)
})

// resultText converts an evaluation result to the text that replaces the region.
func resultText(v any) (string, error) {
	switch r := v.(type) {
	case string:
		return r, nil
	case int:
		return strconv.Itoa(r), nil
	case int8:
		return strconv.FormatInt(int64(r), 10), nil
	case int16:
		return strconv.FormatInt(int64(r), 10), nil
	case int32:
		return strconv.FormatInt(int64(r), 10), nil
	case int64:
		return strconv.FormatInt(r, 10), nil
	case uint:
		return strconv.FormatUint(uint64(r), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(r), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(r), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(r), 10), nil
	case uint64:
		return strconv.FormatUint(r, 10), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedResult, v)
	}
}
