package signature

import (
	"fmt"
	"reflect"
)

// Call is a reconstructed invocation: the positional argument list and the
// keyword arguments collected by the var-keyword parameter.
type Call struct {
	Args   []any
	Kwargs map[string]any
}

// Bind inverts a flat map of parsed argument values back into a Call for the
// declared signature. Each required or optional parameter, in declaration
// order, takes its value from the map; an optional parameter missing from
// the map falls back to its declared default, and a required one fails. The
// var-positional entry must hold a sequence, whose elements extend the
// positional arguments, and the var-keyword entry must hold a string-keyed
// mapping (nil is tolerated), which populates Kwargs.
func Bind(sig *Signature, parsed map[string]any) (*Call, error) {
	call := &Call{Kwargs: make(map[string]any)}

	for _, p := range sig.Params() {
		if value, ok := parsed[p.Name]; ok {
			call.Args = append(call.Args, value)
			continue
		}
		if p.Kind == KindOptional {
			call.Args = append(call.Args, p.Default)
			continue
		}
		return nil, &ConfigError{Message: fmt.Sprintf("no value available for '%s'", p.Name)}
	}

	if vp := sig.VarPos(); vp != nil {
		if value, ok := parsed[vp.Name]; ok {
			rv := reflect.ValueOf(value)
			if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
				return nil, &ConfigError{Message: fmt.Sprintf("expected sequence for '%s'; got %T", vp.Name, value)}
			}
			for i := 0; i < rv.Len(); i++ {
				call.Args = append(call.Args, rv.Index(i).Interface())
			}
		}
	}

	if vk := sig.VarKw(); vk != nil {
		if value, ok := parsed[vk.Name]; ok && value != nil {
			rv := reflect.ValueOf(value)
			if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
				return nil, &ConfigError{Message: fmt.Sprintf("expected mapping for '%s'; got %T", vk.Name, value)}
			}
			iter := rv.MapRange()
			for iter.Next() {
				call.Kwargs[iter.Key().String()] = iter.Value().Interface()
			}
		}
	}

	return call, nil
}
