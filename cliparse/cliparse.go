package cliparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vk/clitoolgo/signature"
)

// Options configures a CommandLine.
type Options struct {
	Name        string    // program name shown in usage; defaults to "cli"
	Label       string    // one-line description shown above the arguments
	Description string    // epilog shown after the options
	Output      io.Writer // usage and error output; defaults to os.Stderr
}

// positionalSpec is one positional slot in declaration order.
type positionalSpec struct {
	name     string
	help     string
	variadic bool
}

// flagSpec is one registered flag and its value holder.
type flagSpec struct {
	name  string
	help  string
	value *flagValue
}

// flagGroup is a titled section of flags for usage output.
type flagGroup struct {
	title string
	flags []flagSpec
}

// CommandLine is a compiled command-line parser for one or more declared
// signatures. Compile signatures into it with AddSignature, then call Parse.
type CommandLine struct {
	opts        Options
	flags       *pflag.FlagSet
	positionals []positionalSpec
	groups      []flagGroup
}

// New creates an empty CommandLine.
func New(opts Options) *CommandLine {
	if opts.Name == "" {
		opts.Name = "cli"
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	fs := pflag.NewFlagSet(opts.Name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(opts.Output)

	c := &CommandLine{opts: opts, flags: fs}
	fs.Usage = c.PrintUsage
	return c
}

// AddSignature compiles a declared signature into the command line: one
// positional argument per required parameter, one flag per optional
// parameter with a converter resolved from its default, a trailing
// zero-or-more positional for a var-positional parameter, and a JSON-object
// flag for a var-keyword parameter. Help text is looked up by parameter
// name; absent names get none. The group title sections the signature's
// flags in usage output.
func (c *CommandLine) AddSignature(sig *signature.Signature, help map[string]string, group string) *CommandLine {
	grp := flagGroup{title: group}

	for _, p := range sig.Params() {
		switch p.Kind {
		case signature.KindRequired:
			c.positionals = append(c.positionals, positionalSpec{name: p.Name, help: help[p.Name]})
		case signature.KindOptional:
			fv := newFlagValue(sig.ConverterFor(p), p.Default)
			c.registerFlag(p.Name, help[p.Name], fv)
			grp.flags = append(grp.flags, flagSpec{name: p.Name, help: help[p.Name], value: fv})
		}
	}

	if vp := sig.VarPos(); vp != nil {
		c.positionals = append(c.positionals, positionalSpec{name: vp.Name, help: help[vp.Name], variadic: true})
	}

	if vk := sig.VarKw(); vk != nil {
		fv := newFlagValue(signature.ToJSON, nil)
		c.registerFlag(vk.Name, help[vk.Name], fv)
		grp.flags = append(grp.flags, flagSpec{name: vk.Name, help: help[vk.Name], value: fv})
	}

	if len(grp.flags) > 0 {
		c.groups = append(c.groups, grp)
	}
	return c
}

// registerFlag adds a flag, giving single-character names the single-dash
// shorthand form.
func (c *CommandLine) registerFlag(name, help string, fv *flagValue) {
	if len(name) == 1 {
		c.flags.VarP(fv, name, name, help)
		return
	}
	c.flags.Var(fv, name, help)
}

// Parse expands @file tokens, parses flags interleaved with positionals, and
// assigns positional values to required parameters in declaration order with
// the remainder going to the var-positional slot. The returned map holds a
// value for every flag (its default when unset) and every assigned
// positional. Every flag starts from its declared default on each call, so a
// compiled command line can be parsed repeatedly. Unknown flags, missing
// required arguments, and unassignable extras are usage errors returned as
// *ExitError{Code: 2}; an explicit help request returns *ExitError{Code: 0}.
func (c *CommandLine) Parse(args []string) (map[string]any, error) {
	expanded, err := ExpandArgFiles(args)
	if err != nil {
		return nil, c.usageError(err)
	}

	for _, grp := range c.groups {
		for _, f := range grp.flags {
			f.value.reset()
		}
	}

	if err := c.flags.Parse(expanded); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ExitError{Code: 0, Message: "help requested"}
		}
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	pos := c.flags.Args()
	values := make(map[string]any)

	next := 0
	var variadic *positionalSpec
	var missing []string
	for i := range c.positionals {
		ps := &c.positionals[i]
		if ps.variadic {
			variadic = ps
			continue
		}
		if next < len(pos) {
			values[ps.name] = pos[next]
			next++
		} else {
			missing = append(missing, ps.name)
		}
	}
	if len(missing) > 0 {
		return nil, c.usageError(fmt.Errorf("the following arguments are required: %s", strings.Join(missing, ", ")))
	}

	rest := pos[next:]
	if variadic != nil {
		values[variadic.name] = append([]string{}, rest...)
	} else if len(rest) > 0 {
		return nil, c.usageError(fmt.Errorf("unrecognized arguments: %s", strings.Join(rest, " ")))
	}

	for _, grp := range c.groups {
		for _, f := range grp.flags {
			values[f.name] = f.value.value
		}
	}

	return values, nil
}

// usageError prints the usage text and the error, then wraps the error in an
// ExitError carrying the conventional usage-error exit code.
func (c *CommandLine) usageError(err error) error {
	c.PrintUsage()
	fmt.Fprintf(c.opts.Output, "%s: error: %v\n", c.opts.Name, err)
	return &ExitError{Code: 2, Message: err.Error()}
}

// PrintUsage writes the full usage text: the usage line, the label, the
// positional arguments, each flag group, and the epilog.
func (c *CommandLine) PrintUsage() {
	w := c.opts.Output

	var line strings.Builder
	fmt.Fprintf(&line, "Usage: %s [options]", c.opts.Name)
	for _, ps := range c.positionals {
		if ps.variadic {
			fmt.Fprintf(&line, " [%s ...]", ps.name)
		} else {
			fmt.Fprintf(&line, " %s", ps.name)
		}
	}
	fmt.Fprintln(w, line.String())

	if c.opts.Label != "" {
		fmt.Fprintf(w, "\n%s\n", c.opts.Label)
	}

	if len(c.positionals) > 0 {
		fmt.Fprintf(w, "\nArguments:\n")
		for _, ps := range c.positionals {
			writeUsageEntry(w, ps.name, ps.help)
		}
	}

	for _, grp := range c.groups {
		title := grp.title
		if title == "" {
			title = "Options"
		}
		fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(title[:1])+title[1:])
		for _, f := range grp.flags {
			display := "--" + f.name
			if len(f.name) == 1 {
				display = "-" + f.name
			}
			help := f.help
			if f.value.text != "" {
				if help != "" {
					help += " "
				}
				help += fmt.Sprintf("(default: %s)", f.value.text)
			}
			writeUsageEntry(w, display+" value", help)
		}
	}

	if c.opts.Description != "" && c.opts.Description != c.opts.Label {
		fmt.Fprintf(w, "\n%s\n", c.opts.Description)
	}
}

// writeUsageEntry prints one aligned usage row.
func writeUsageEntry(w io.Writer, term, help string) {
	if help == "" {
		fmt.Fprintf(w, "  %s\n", term)
		return
	}
	fmt.Fprintf(w, "  %-22s%s\n", term, help)
}

// defaultText renders a default value for usage output. Nil defaults render
// empty so that untyped flags show no default.
func defaultText(def any) string {
	if def == nil {
		return ""
	}
	return fmt.Sprint(def)
}
