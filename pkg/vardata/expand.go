package vardata

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

var (
	varRefPattern  = regexp.MustCompile(`\$\{[^{}]+\}`)
	codeRefPattern = regexp.MustCompile(`\$\{@.+?\}`)
)

const codeOpen = "${@"

// ═══════════════════════════════════════════════════════════════════════════
// Expander
// ═══════════════════════════════════════════════════════════════════════════

// Expander resolves ${NAME} references and ${@ ...} expressions.
type Expander struct {
	evaluator    Evaluator
	maxLength    int
	maxPasses    int
	balancedCode bool
	logger       *slog.Logger
}

// NewExpander returns an Expander configured by opts.
func NewExpander(opts ...Option) *Expander {
	return newExpander(newOptions(opts))
}

func newExpander(o *options) *Expander {
	return &Expander{
		evaluator:    o.evaluator,
		maxLength:    o.maxLength,
		maxPasses:    o.maxPasses,
		balancedCode: o.balancedCode,
		logger:       o.logger,
	}
}

// Expand repeatedly substitutes variable references and expression results
// in text until no "$" is left, the text stops changing, or it grows past
// the length guard.
//
// Each pass first replaces every ${NAME} whose name has content in vars
// (without expanding the looked-up value; the next pass does that), then
// evaluates every ${@ ...} region. Unknown references are kept verbatim.
// Hitting the length or pass guard is not an error: the partial text is
// returned and a debug diagnostic is logged. Evaluation errors abort.
func (e *Expander) Expand(text string, vars Getter) (string, error) {
	for pass := 1; strings.Contains(text, "$"); pass++ {
		prev := text

		text = varRefPattern.ReplaceAllStringFunc(text, func(ref string) string {
			if value, ok := vars.GetVar(ref[2 : len(ref)-1]); ok {
				return value
			}

			return ref
		})

		var err error
		text, err = e.expandCode(text, vars)
		if err != nil {
			return "", err
		}

		if e.maxLength > 0 && len(text) > e.maxLength {
			e.logger.Debug("expanded string too long", "length", len(text), "limit", e.maxLength)

			return text, nil
		}
		if text == prev {
			break
		}
		if e.maxPasses > 0 && pass >= e.maxPasses {
			e.logger.Debug("expansion pass limit reached", "passes", pass)

			break
		}
	}

	return text, nil
}

// ExpandVar expands the content of name. The second result is false, and no
// expansion happens, when the variable has no content.
func (e *Expander) ExpandVar(vars Getter, name string) (string, bool, error) {
	value, ok := vars.GetVar(name)
	if !ok {
		return "", false, nil
	}
	expanded, err := e.Expand(value, vars)
	if err != nil {
		return "", true, fmt.Errorf("expand %s: %w", name, err)
	}

	return expanded, true, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// ${@ ...} regions
// ═══════════════════════════════════════════════════════════════════════════

func (e *Expander) expandCode(text string, vars Getter) (string, error) {
	if !strings.Contains(text, codeOpen) {
		return text, nil
	}
	if e.balancedCode {
		return e.expandCodeBalanced(text, vars)
	}

	var firstErr error
	out := codeRefPattern.ReplaceAllStringFunc(text, func(region string) string {
		if firstErr != nil {
			return region
		}
		result, err := e.evaluate(region[len(codeOpen):len(region)-1], vars)
		if err != nil {
			firstErr = err
			return region
		}

		return result
	})
	if firstErr != nil {
		return "", firstErr
	}

	return out, nil
}

func (e *Expander) expandCodeBalanced(text string, vars Getter) (string, error) {
	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); {
		if !strings.HasPrefix(text[i:], codeOpen) {
			buf.WriteByte(text[i])
			i++
			continue
		}

		end := findMatchingBrace(text, i+len(codeOpen))
		if end == -1 {
			buf.WriteString(text[i:])
			break
		}

		result, err := e.evaluate(text[i+len(codeOpen):end], vars)
		if err != nil {
			return "", err
		}
		buf.WriteString(result)
		i = end + 1
	}

	return buf.String(), nil
}

// findMatchingBrace returns the index of the "}" closing a region whose body
// starts at start, or -1. Every "{" in the body opens a nested level.
func findMatchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}

	return -1
}

func (e *Expander) evaluate(code string, vars Getter) (string, error) {
	result, err := e.evaluator.Evaluate(code, vars)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", code, err)
	}
	text, err := resultText(result)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", code, err)
	}

	return text, nil
}
