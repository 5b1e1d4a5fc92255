// Package toolbox composes named command-line tools into a multi-command
// dispatcher. The first positional token selects the registered command and
// every other token is forwarded to it untouched; with no subcommand the
// toolbox prints its help and a generated command listing instead.
package toolbox
