// Package vardata holds build-metadata variables and expands references
// between them.
//
// A [Store] maps variable names to optional content and a set of named
// flags. An [Expander] resolves ${NAME} references and ${@ expression}
// regions in text against a store, and a [Resolver] applies the layered
// override mechanism driven by the OVERRIDES variable.
//
// # Expansion
//
// Expansion runs in passes until no "$" is left or the text stops changing:
//
//  1. every ${NAME} (no braces in NAME) with content is replaced by that
//     content; unknown names are kept verbatim
//  2. every ${@ expression} is evaluated by the configured [Evaluator]
//
// The looked-up content is not expanded on the spot; the next pass picks up
// any references it introduced. A string that grows past the length guard
// ([WithMaxLength], 2048 by default) is returned as is.
//
//	s := vardata.New()
//	s.SetVar("ARCH", "arm")
//	s.SetVar("OS", "linux")
//	s.SetVar("SYS", "${ARCH}-${OS}")
//
//	out, err := vardata.NewExpander().Expand("${SYS}", s) // "arm-linux"
//
// # Expressions
//
// ${@ ...} regions end at the first "}" on the same line, so expressions
// cannot contain braces. [WithBalancedCode] switches to a scanner that
// tracks nesting. Evaluators:
//
//   - [ExprEvaluator] (default): expr-lang, e.g. ${@ hex(0x1000000+${START})}
//   - [HCLEvaluator]: HCL native syntax, e.g. ${@ upper(getvar("ARCH"))}
//   - [DisabledEvaluator]: every region is an error
//
// Evaluators run with read access to the store and without a time limit.
//
// # Overrides
//
// With OVERRIDES="arm:local", [Resolver.Resolve] rewrites each variable S:
//
//   - S_arm, then S_local, replace S (the last tag wins)
//   - S_append is appended and S_prepend is prepended
//   - lines of S containing the S_delete pattern are dropped
//
// The consumed helpers are deleted, then variables flagged
// inherit=<priority> are taken from the environment (see [InheritFromEnv]).
//
// # Definition files
//
// [LoadFile] reads YAML or JSONC definitions:
//
//	OVERRIDES: arm
//	CC: gcc
//	CC_arm: arm-linux-gcc
//	do_compile:
//	  value: ${CC} -o app main.c
//	  flags:
//	    func: 1
package vardata
