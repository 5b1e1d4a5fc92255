// Package clilog implements the logging collaborator for command-line tools:
// a console sink formatted as "[LEVEL] message" and up to two optional file
// sinks formatted as "[timestamp][LEVEL] message", one opened in append mode
// and one in truncate mode.
//
// The Manager is an explicit, injectable handle rather than ambient global
// state. Configure has idempotent ensure-attached semantics: once sinks are
// attached, further calls are no-ops, so a tool invoked twice in one process
// never duplicates log lines. Shutdown flushes and closes the file sinks and
// is always called as a tool's final step.
package clilog
