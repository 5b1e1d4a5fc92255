// Package cliparse compiles declared signatures into a command-line parser
// and parses argument vectors into a flat name-to-value map.
//
// Required parameters become positional arguments, optional parameters
// become typed flags (single-character names get the single-dash form), a
// var-positional parameter accepts zero or more trailing values, and a
// var-keyword parameter becomes a flag whose value is parsed as a JSON
// object. Flags and positionals may be interleaved, and a token of the form
// @path reads further arguments from the named file, one per line.
//
// Malformed input is a usage error: usage text is printed to the configured
// writer and an *ExitError carries the exit code to the caller, which is
// responsible for terminating the process.
package cliparse
