package tool

import (
	"context"
	"io"
	"os"

	"github.com/vk/clitoolgo/clilog"
	"github.com/vk/clitoolgo/cliparse"
	"github.com/vk/clitoolgo/docparse"
	"github.com/vk/clitoolgo/internal/ctxlog"
	"github.com/vk/clitoolgo/signature"
)

// clilogTimeFormat is the timestamp format shared with the logging sinks.
const clilogTimeFormat = clilog.TimeFormat

// Tool is the command-line interface for one declared function. Set the
// exported fields before the first Invoke; the compiled parser is built
// lazily on first use and cached for the instance's lifetime, and is not
// safe for concurrent first access.
type Tool struct {
	Fn  any
	Sig *signature.Signature

	// Name is the program name shown in usage output.
	Name string
	// Label is logged at the start of execution and heads the usage text.
	Label string
	// Description is the usage epilog.
	Description string
	// Help maps parameter names to their help text.
	Help map[string]string
	// Doc is the structured doc comment text consulted when ParseDoc is
	// set. Explicit Label, Description, and Help always take precedence
	// over values parsed from it.
	Doc      string
	ParseDoc bool

	// Log is the logging manager; nil means the process default.
	Log *clilog.Manager
	// Out receives usage output; nil means os.Stderr.
	Out io.Writer

	parser *cliparse.CommandLine
}

// New creates a Tool after checking the function against its declared
// signature, so a mismatch fails at construction rather than on first use.
func New(fn any, sig *signature.Signature) (*Tool, error) {
	if err := signature.Introspect(fn, sig); err != nil {
		return nil, err
	}
	return &Tool{Fn: fn, Sig: sig}, nil
}

func (t *Tool) manager() *clilog.Manager {
	if t.Log != nil {
		return t.Log
	}
	return clilog.Default()
}

func (t *Tool) output() io.Writer {
	if t.Out != nil {
		return t.Out
	}
	return os.Stderr
}

// Parser returns the compiled command-line parser, building it on first
// access. When ParseDoc is set, the doc comment seeds the label, the
// description, and the per-parameter help, but explicit field values win. A
// malformed Args section is a build-time failure.
func (t *Tool) Parser() (*cliparse.CommandLine, error) {
	if t.parser != nil {
		return t.parser, nil
	}

	label, description, help := t.Label, t.Description, t.Help
	if t.ParseDoc {
		parsed := docparse.Parse(t.Doc)
		if label == "" {
			label = parsed.Summary
		}
		if description == "" {
			description = parsed.Description
		}
		if help == nil && parsed.Args != "" {
			docArgs, err := docparse.ParseArgs(parsed.Args)
			if err != nil {
				return nil, err
			}
			help = docArgs.Map()
		}
	}
	if description == "" {
		description = label
	}

	name := t.Name
	if name == "" {
		name = "tool"
	}

	parser := cliparse.New(cliparse.Options{
		Name:        name,
		Label:       label,
		Description: description,
		Output:      t.output(),
	})
	parser.AddSignature(t.Sig, help, "")

	manager := t.manager()
	parser.AddSignature(manager.Signature(), manager.Help(), "logging arguments")

	t.parser = parser
	return parser, nil
}

// Invoke parses the argument vector (or the process's arguments when args is
// nil), configures logging from its share of the parsed values, executes the
// target function with its share, shuts logging down, and returns the
// Result. Usage problems surface as *cliparse.ExitError before any
// execution happens.
func (t *Tool) Invoke(args []string) (*Result, error) {
	if args == nil {
		args = os.Args[1:]
	}

	parser, err := t.Parser()
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(args)
	if err != nil {
		return nil, err
	}

	manager := t.manager()
	logCall, err := signature.Bind(manager.Signature(), parsed)
	if err != nil {
		return nil, err
	}
	if _, err := manager.Signature().Invoke(context.Background(), manager.Configure, logCall); err != nil {
		return nil, err
	}

	execCall, err := signature.Bind(t.Sig, parsed)
	if err != nil {
		return nil, err
	}

	ctx := ctxlog.WithLogger(context.Background(), manager.Logger())
	result := t.Execute(ctx, execCall)

	if err := manager.Shutdown(); err != nil {
		ctxlog.FromContext(ctx).Warn("logging shutdown failed", "error", err)
	}

	return result, nil
}
