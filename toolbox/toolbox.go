package toolbox

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
	"github.com/vk/clitoolgo/cliparse"
	"github.com/vk/clitoolgo/docparse"
	"github.com/vk/clitoolgo/signature"
	"github.com/vk/clitoolgo/tool"
)

// nameColumn is the width of the command-name column in the help listing;
// continuation lines indent to descColumn.
const (
	nameColumn = 16
	descColumn = nameColumn + 2
	wrapWidth  = 60
)

// entry is one registered command. Registration order defines listing order.
type entry struct {
	fn          any
	name        string
	description string
}

// Toolbox routes a command line to one of its registered commands by exact
// name match on the first positional token.
type Toolbox struct {
	// Description is printed above the command listing in help output.
	Description string
	// Out receives help and error output; nil means os.Stderr.
	Out io.Writer

	commands []entry
}

// New creates a Toolbox with the given help description.
func New(description string) *Toolbox {
	return &Toolbox{Description: description}
}

func (b *Toolbox) output() io.Writer {
	if b.Out != nil {
		return b.Out
	}
	return os.Stderr
}

// Register adds a command. fn may be a *tool.Tool, a
// func([]string) (*tool.Result, error), or a func([]string) int whose return
// is treated as a status code. A name containing whitespace, a duplicate
// name, or an unsupported fn type is a configuration error and leaves the
// registry untouched. With parseDoc set and no description given, the
// description comes from the summary (or description) of the command's doc
// comment, when fn carries one.
func (b *Toolbox) Register(fn any, name, description string, parseDoc bool) error {
	if name == "" {
		return &signature.ConfigError{Message: "command name must not be empty"}
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return &signature.ConfigError{Message: fmt.Sprintf("command name cannot contain whitespace; got '%s'", name)}
	}
	for _, cmd := range b.commands {
		if cmd.name == name {
			return &signature.ConfigError{Message: fmt.Sprintf("command '%s' already registered", name)}
		}
	}

	switch fn.(type) {
	case *tool.Tool, func([]string) (*tool.Result, error), func([]string) int:
	default:
		return &signature.ConfigError{Message: fmt.Sprintf("unsupported command type %T for '%s'", fn, name)}
	}

	if parseDoc && description == "" {
		if t, ok := fn.(*tool.Tool); ok {
			parsed := docparse.Parse(t.Doc)
			description = parsed.Summary
			if description == "" {
				description = parsed.Description
			}
		}
	}

	b.commands = append(b.commands, entry{fn: fn, name: name, description: description})
	return nil
}

// Invoke routes the argument vector (or the process's arguments when args is
// nil) to a registered command. @file tokens are expanded before the
// subcommand is selected, so the command name itself may come from an
// argument file. The first token that is not a flag selects the command; all
// other tokens pass through unexamined. With no subcommand the toolbox prints
// help and returns *cliparse.ExitError{Code: 0}. A command invoked with no
// remaining tokens receives a synthetic "--help" token, since a tool with
// required arguments would otherwise read the process arguments instead. A
// return value that is not already a Result is wrapped as one, treating it as
// a status code.
func (b *Toolbox) Invoke(args []string) (*tool.Result, error) {
	if args == nil {
		args = os.Args[1:]
	}

	expanded, err := cliparse.ExpandArgFiles(args)
	if err != nil {
		fmt.Fprintln(b.output(), err)
		return nil, &cliparse.ExitError{Code: 2, Message: err.Error()}
	}

	subcommand, rest := splitSubcommand(expanded)
	if subcommand == "" {
		b.PrintHelp()
		return nil, &cliparse.ExitError{Code: 0, Message: "help requested"}
	}

	cmd, ok := b.lookup(subcommand)
	if !ok {
		fmt.Fprintf(b.output(), "unknown command '%s'\n\n", subcommand)
		b.PrintHelp()
		return nil, &cliparse.ExitError{Code: 2, Message: fmt.Sprintf("unknown command '%s'", subcommand)}
	}

	if len(rest) == 0 {
		rest = []string{"--help"}
	}

	switch fn := cmd.fn.(type) {
	case *tool.Tool:
		return fn.Invoke(rest)
	case func([]string) (*tool.Result, error):
		return fn(rest)
	case func([]string) int:
		return &tool.Result{Status: fn(rest)}, nil
	default:
		return nil, &signature.ConfigError{Message: fmt.Sprintf("unsupported command type %T for '%s'", cmd.fn, cmd.name)}
	}
}

func (b *Toolbox) lookup(name string) (entry, bool) {
	for _, cmd := range b.commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return entry{}, false
}

// splitSubcommand takes the first non-flag token as the subcommand and
// passes every other token through in order.
func splitSubcommand(args []string) (string, []string) {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		rest := make([]string, 0, len(args)-1)
		rest = append(rest, args[:i]...)
		rest = append(rest, args[i+1:]...)
		return arg, rest
	}
	return "", args
}

// PrintHelp writes the toolbox description and the generated command
// listing.
func (b *Toolbox) PrintHelp() {
	w := b.output()
	if b.Description != "" {
		fmt.Fprintf(w, "%s\n\n", b.Description)
	}
	fmt.Fprintln(w, "Usage: <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, formatListing(b.commands))
}

// formatListing renders the registered commands, one name per row padded to
// a fixed column, with descriptions wrapped and continuation lines indented
// under the description column.
func formatListing(commands []entry) string {
	lines := []string{"Commands:"}

	for _, cmd := range commands {
		description := cmd.description
		if description == "" {
			description = " "
		}

		first := true
		for _, source := range strings.Split(description, "\n") {
			wrapped := wordwrap.WrapString(strings.TrimSpace(source), wrapWidth)
			for _, line := range strings.Split(wrapped, "\n") {
				if first {
					lines = append(lines, fmt.Sprintf("  %-*s%s", nameColumn, cmd.name, line))
					first = false
				} else {
					lines = append(lines, strings.Repeat(" ", descColumn)+line)
				}
			}
		}
	}

	return strings.Join(lines, "\n")
}
