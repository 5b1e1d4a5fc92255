// Package tool turns one declared function signature into a command-line
// tool: it compiles the signature (optionally seeded from a structured doc
// comment) into a parser, parses the argument vector, reconstructs calls for
// both the logging manager and the target function from the same flat map,
// and executes the target with timing and failure capture.
//
// Execution never raises: the target's returned error or recovered panic is
// captured into the Result together with start/end log lines, and the
// tool's exit status is the Result's Status.
package tool
