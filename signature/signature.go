package signature

import "fmt"

// Kind identifies one of the four supported parameter kinds.
type Kind int

const (
	// KindRequired is a positional parameter with no default value.
	KindRequired Kind = iota
	// KindOptional is a parameter with a default value, exposed as a flag.
	KindOptional
	// KindVarPositional collects any positional arguments left over after
	// the required parameters are filled.
	KindVarPositional
	// KindVarKeyword collects free-form key/value pairs from a single
	// structured (JSON object) argument.
	KindVarKeyword
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindOptional:
		return "optional"
	case KindVarPositional:
		return "var-positional"
	case KindVarKeyword:
		return "var-keyword"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param is the declared metadata for a single parameter.
type Param struct {
	Name    string
	Kind    Kind
	Default any       // meaningful for KindOptional only
	Convert Converter // explicit converter; nil means infer from Default
}

// Signature is the ordered, declarative description of a function's
// command-line-facing parameters. Build one with New and the chainable
// declaration methods; declaration order is preserved and is significant.
type Signature struct {
	params []Param // required and optional, in declaration order
	varPos *Param
	varKw  *Param
}

// New returns an empty Signature.
func New() *Signature {
	return &Signature{}
}

// declare appends a parameter, enforcing the structural rules that Go
// enforces for real parameter lists. Violations are programmer errors.
func (s *Signature) declare(p Param) *Signature {
	if p.Name == "" {
		panic("signature: parameter name must not be empty")
	}
	for _, existing := range s.params {
		if existing.Name == p.Name {
			panic(fmt.Sprintf("signature: parameter '%s' already declared", p.Name))
		}
	}
	if s.varPos != nil && s.varPos.Name == p.Name || s.varKw != nil && s.varKw.Name == p.Name {
		panic(fmt.Sprintf("signature: parameter '%s' already declared", p.Name))
	}

	switch p.Kind {
	case KindRequired:
		if len(s.params) > 0 && s.params[len(s.params)-1].Kind == KindOptional {
			panic(fmt.Sprintf("signature: required parameter '%s' declared after an optional one", p.Name))
		}
		s.params = append(s.params, p)
	case KindOptional:
		s.params = append(s.params, p)
	case KindVarPositional:
		if s.varPos != nil {
			panic("signature: only one var-positional parameter is allowed")
		}
		s.varPos = &p
	case KindVarKeyword:
		if s.varKw != nil {
			panic("signature: only one var-keyword parameter is allowed")
		}
		s.varKw = &p
	}
	return s
}

// Required declares a positional parameter with no default.
func (s *Signature) Required(name string) *Signature {
	return s.declare(Param{Name: name, Kind: KindRequired})
}

// Optional declares a parameter with a default value. Unless overridden with
// WithConverter, the flag's value converter is inferred from the default's
// runtime type.
func (s *Signature) Optional(name string, def any) *Signature {
	return s.declare(Param{Name: name, Kind: KindOptional, Default: def})
}

// VarPositional declares the parameter that collects leftover positional
// arguments.
func (s *Signature) VarPositional(name string) *Signature {
	return s.declare(Param{Name: name, Kind: KindVarPositional})
}

// VarKeyword declares the parameter that collects free-form key/value pairs
// supplied as a JSON object.
func (s *Signature) VarKeyword(name string) *Signature {
	return s.declare(Param{Name: name, Kind: KindVarKeyword})
}

// WithConverter registers an explicit value converter for a declared
// parameter, overriding inference from the default value.
func (s *Signature) WithConverter(name string, convert Converter) *Signature {
	for i := range s.params {
		if s.params[i].Name == name {
			s.params[i].Convert = convert
			return s
		}
	}
	panic(fmt.Sprintf("signature: converter registered for undeclared parameter '%s'", name))
}

// SetDefault replaces the default value of a declared optional parameter.
// Manifest loading uses this to seed defaults declared outside of code.
func (s *Signature) SetDefault(name string, def any) error {
	for i := range s.params {
		if s.params[i].Name != name {
			continue
		}
		if s.params[i].Kind != KindOptional {
			return &ConfigError{Message: fmt.Sprintf("parameter '%s' is %s, not optional", name, s.params[i].Kind)}
		}
		s.params[i].Default = def
		return nil
	}
	return &ConfigError{Message: fmt.Sprintf("no parameter '%s' declared", name)}
}

// Params returns the required and optional parameters in declaration order.
func (s *Signature) Params() []Param {
	return s.params
}

// Requireds returns the required parameters in declaration order.
func (s *Signature) Requireds() []Param {
	var out []Param
	for _, p := range s.params {
		if p.Kind == KindRequired {
			out = append(out, p)
		}
	}
	return out
}

// Optionals returns the optional parameters in declaration order.
func (s *Signature) Optionals() []Param {
	var out []Param
	for _, p := range s.params {
		if p.Kind == KindOptional {
			out = append(out, p)
		}
	}
	return out
}

// VarPos returns the var-positional parameter, or nil.
func (s *Signature) VarPos() *Param {
	return s.varPos
}

// VarKw returns the var-keyword parameter, or nil.
func (s *Signature) VarKw() *Param {
	return s.varKw
}

// ConverterFor resolves the value converter for a parameter: the explicitly
// registered one when present, otherwise one inferred from the runtime type
// of the default value. A nil result means pass-through string.
func (s *Signature) ConverterFor(p Param) Converter {
	if p.Convert != nil {
		return p.Convert
	}
	return Infer(p.Default)
}
