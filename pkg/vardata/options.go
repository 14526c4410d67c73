package vardata

import "log/slog"

// DefaultMaxLength is the length after which expansion stops growing a string.
const DefaultMaxLength = 2048

// DefaultInheritPriority is the inherit flag value pulled from the environment
// at the end of [Resolver.Resolve].
const DefaultInheritPriority = "5"

// options holds settings shared by [Expander] and [Resolver].
type options struct {
	evaluator       Evaluator
	maxLength       int
	maxPasses       int  // 0 means unlimited
	balancedCode    bool // scan ${@ ...} to the matching brace instead of the first one
	logger          *slog.Logger
	environ         []string
	environSet      bool // distinguishes an explicit empty environment from os.Environ
	inheritPriority string
}

func newOptions(opts []Option) *options {
	o := &options{
		maxLength:       DefaultMaxLength,
		inheritPriority: DefaultInheritPriority,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.evaluator == nil {
		o.evaluator = NewExprEvaluator()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Option configures an [Expander] or a [Resolver].
type Option func(*options)

// WithEvaluator sets the evaluator for ${@ ...} regions.
//
// The default is [NewExprEvaluator]; use [DisabledEvaluator] to turn the
// feature off.
func WithEvaluator(ev Evaluator) Option {
	return func(o *options) {
		o.evaluator = ev
	}
}

// WithMaxLength sets the runaway guard. Expansion returns as soon as the
// string grows past n characters. n <= 0 disables the guard.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// WithMaxPasses bounds the number of expansion passes. n <= 0 means no bound,
// which is the default.
//
// Reference cycles that do not grow the string (A=${B}, B=${A}) only
// terminate with a pass bound.
func WithMaxPasses(n int) Option {
	return func(o *options) {
		o.maxPasses = n
	}
}

// WithBalancedCode makes the ${@ ...} scanner track brace nesting, so
// expressions may contain braces. By default the region ends at the first
// closing brace on the same line.
func WithBalancedCode(enabled bool) Option {
	return func(o *options) {
		o.balancedCode = enabled
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEnviron sets the host environment, as KEY=VALUE pairs, that
// [Resolver.Resolve] inherits from. The default is os.Environ().
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
		o.environSet = true
	}
}

// WithInheritPriority sets the inherit flag value that selects which
// variables [Resolver.Resolve] takes from the environment.
func WithInheritPriority(priority string) Option {
	return func(o *options) {
		o.inheritPriority = priority
	}
}
