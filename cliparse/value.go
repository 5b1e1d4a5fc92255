package cliparse

import "github.com/vk/clitoolgo/signature"

// flagValue is the pflag.Value holder behind every compiled flag. It applies
// the parameter's converter on Set and retains the typed result, so a parsed
// command line yields converted values rather than raw strings. The declared
// default is snapshotted at construction so reset can restore it between
// parses of the same compiled command line.
type flagValue struct {
	convert  signature.Converter
	value    any
	text     string
	defValue any
	defText  string
}

func newFlagValue(convert signature.Converter, def any) *flagValue {
	text := defaultText(def)
	return &flagValue{convert: convert, value: def, text: text, defValue: def, defText: text}
}

// Set converts and stores a raw command-line token. A converter failure is
// reported to the flag parser, which turns it into a usage error.
func (v *flagValue) Set(text string) error {
	if v.convert != nil {
		value, err := v.convert(text)
		if err != nil {
			return err
		}
		v.value = value
	} else {
		v.value = text
	}
	v.text = text
	return nil
}

// reset restores the declared default, discarding any value set by an
// earlier parse.
func (v *flagValue) reset() {
	v.value = v.defValue
	v.text = v.defText
}

// String returns the most recent raw token, or the rendered default.
func (v *flagValue) String() string {
	return v.text
}

// Type names the value for pflag's usage output.
func (v *flagValue) Type() string {
	return "value"
}
