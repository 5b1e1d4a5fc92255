package manifest

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/clitoolgo/tool"
)

// Apply seeds a tool from the command definition: the label from the
// summary, the description, per-argument help text, and defaults for
// optional parameters declared without one. Values already set in code are
// left alone.
func (c *Command) Apply(t *tool.Tool) error {
	if t.Name == "" {
		t.Name = c.Name
	}
	if t.Label == "" {
		t.Label = c.Summary
	}
	if t.Description == "" {
		t.Description = c.Description
	}

	if t.Help == nil {
		t.Help = make(map[string]string)
	}
	for name, arg := range c.Args {
		if arg.Description == "" {
			continue
		}
		if _, exists := t.Help[name]; !exists {
			t.Help[name] = arg.Description
		}
	}

	for _, p := range t.Sig.Optionals() {
		arg, ok := c.Args[p.Name]
		if !ok || arg.Default == nil || p.Default != nil {
			continue
		}
		value, err := ctyToGo(*arg.Default)
		if err != nil {
			return fmt.Errorf("command '%s', arg '%s': %w", c.Name, p.Name, err)
		}
		if err := t.Sig.SetDefault(p.Name, value); err != nil {
			return err
		}
	}

	return nil
}

// ctyToGo converts a literal manifest value into the Go value whose runtime
// type drives converter inference: whole numbers become int so an integer
// default selects the integer parser.
func ctyToGo(v cty.Value) (any, error) {
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return int(i), nil
		}
		f, _ := bf.Float64()
		return f, nil
	}
	return nil, fmt.Errorf("unsupported default type %s", v.Type().FriendlyName())
}
