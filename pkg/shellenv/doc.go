// Package shellenv renders a [vardata.Store] as shell code that can be
// sourced before running a build task.
//
// Flags decide how each variable is written:
//
//   - python: not written
//   - func:   written as a shell function whose body is the expanded content
//   - export: assignment prefixed with "export "
//
// Example output of [EmitEnv]:
//
//	export CC="arm-linux-gcc"
//
//	do_compile() {
//	arm-linux-gcc -o app main.c
//	}
package shellenv
