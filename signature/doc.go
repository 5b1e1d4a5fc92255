// Package signature models the command-line-facing signature of a Go
// function as explicit, declarative parameter metadata.
//
// Go has no runtime notion of parameter names or default values, so a
// Signature is declared by the integrator instead of introspected:
//
//	sig := signature.New().
//		Required("num1").
//		Optional("precision", 2).
//		VarPositional("rest").
//		VarKeyword("extras")
//
// Introspect then performs a strict parity check between the declared
// signature and the reflected Go function, the same way a manifest is checked
// against its compiled handler, so mismatches surface at build time instead
// of at call time. Bind inverts a flat map of parsed argument values back
// into a positional/keyword call, and Invoke executes it through reflection.
package signature
