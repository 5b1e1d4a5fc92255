package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/clitoolgo/internal/ctxlog"
	"github.com/vk/clitoolgo/internal/fsutil"
)

// Arg is the declared metadata for one command argument.
type Arg struct {
	Name        string
	Type        cty.Type
	Description string

	// Default is the declared default value, or nil when the manifest does
	// not provide one.
	Default *cty.Value
}

// Command is the parsed definition of one command block.
type Command struct {
	Name        string
	Summary     string
	Description string
	Args        map[string]*Arg
}

// rootSchema expects one or more 'command' blocks at the top level.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "command", LabelNames: []string{"name"}},
	},
}

// commandBodySchema is the HCL schema for the body of a command block.
var commandBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "summary"},
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "arg", LabelNames: []string{"name"}},
	},
}

// argBodySchema is the HCL schema for the body of an arg block.
var argBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
	},
}

// Load reads command definitions from the given paths. A directory is
// searched recursively for .hcl files; any other path is parsed directly.
// Command names must be unique across all loaded files.
func Load(ctx context.Context, paths ...string) (map[string]*Command, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	commands := make(map[string]*Command)

	for _, path := range paths {
		files, err := manifestFiles(path)
		if err != nil {
			return nil, err
		}

		for _, filePath := range files {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse manifest %s: %w", filePath, diags)
			}

			parsed, diags := parseFile(hclFile)
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid manifest %s: %w", filePath, diags)
			}

			for _, cmd := range parsed {
				if _, exists := commands[cmd.Name]; exists {
					return nil, fmt.Errorf("command '%s' defined more than once (last seen in %s)", cmd.Name, filePath)
				}
				commands[cmd.Name] = cmd
			}
			logger.Debug("Loaded command definitions from manifest.", "file", filePath, "commands", len(parsed))
		}
	}

	return commands, nil
}

// manifestFiles resolves a path to the manifest files it names.
func manifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return fsutil.FindFilesByExtension(path, ".hcl")
}

// parseFile decodes every command block in one parsed HCL file.
func parseFile(file *hcl.File) ([]*Command, hcl.Diagnostics) {
	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var commands []*Command
	for _, block := range content.Blocks.OfType("command") {
		cmd, cmdDiags := parseCommand(block)
		diags = append(diags, cmdDiags...)
		if cmdDiags.HasErrors() {
			continue
		}
		commands = append(commands, cmd)
	}
	return commands, diags
}

// parseCommand decodes one command block.
func parseCommand(block *hcl.Block) (*Command, hcl.Diagnostics) {
	cmd := &Command{Name: block.Labels[0], Args: make(map[string]*Arg)}

	content, diags := block.Body.Content(commandBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, exists := content.Attributes["summary"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &cmd.Summary)...)
	}
	if attr, exists := content.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &cmd.Description)...)
	}

	for _, argBlock := range content.Blocks.OfType("arg") {
		arg, argDiags := parseArg(argBlock)
		diags = append(diags, argDiags...)
		if argDiags.HasErrors() {
			continue
		}
		if _, exists := cmd.Args[arg.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate arg definition",
				Detail:   fmt.Sprintf("An arg named '%s' has already been defined for command '%s'.", arg.Name, cmd.Name),
				Subject:  &argBlock.DefRange,
			})
			continue
		}
		cmd.Args[arg.Name] = arg
	}

	return cmd, diags
}

// parseArg decodes one arg block. The type defaults to string; a declared
// default must conform to the declared type.
func parseArg(block *hcl.Block) (*Arg, hcl.Diagnostics) {
	arg := &Arg{Name: block.Labels[0], Type: cty.String}

	content, diags := block.Body.Content(argBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, exists := content.Attributes["type"]; exists {
		argType, typeDiags := typeexpr.TypeConstraint(attr.Expr)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			return nil, diags
		}
		arg.Type = argType
	}

	if attr, exists := content.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &arg.Description)...)
	}

	if attr, exists := content.Attributes["default"]; exists {
		// Defaults must be literal values, so no eval context is supplied.
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return nil, diags
		}

		converted, err := convert.Convert(val, arg.Type)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value type",
				Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its type, '%s'.", arg.Name, arg.Type.FriendlyName()),
				Subject:  attr.Expr.Range().Ptr(),
			})
			return nil, diags
		}
		arg.Default = &converted
	}

	return arg, diags
}
