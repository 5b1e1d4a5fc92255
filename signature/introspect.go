package signature

import (
	"context"
	"fmt"
	"reflect"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Introspect performs a strict parity check between a declared Signature and
// the reflected Go function that will receive the call. The expected shape
// is: an optional leading context.Context (which, like a bound method's
// receiver, is excluded from the declared parameters), one parameter per
// declared required or optional parameter in order, then a slice parameter
// when a var-positional is declared, then a map[string]... parameter when a
// var-keyword is declared. The function may return nothing, a value, an
// error, or a value and an error.
func Introspect(fn any, sig *Signature) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return &ConfigError{Message: fmt.Sprintf("expected a function; got %T", fn)}
	}

	in := 0
	if t.NumIn() > 0 && t.In(0) == ctxType {
		in = 1
	}

	for _, p := range sig.Params() {
		if in >= t.NumIn() {
			return &ConfigError{Message: fmt.Sprintf("function %s has no parameter for '%s'", t, p.Name)}
		}
		in++
	}

	if vp := sig.VarPos(); vp != nil {
		if in >= t.NumIn() || t.In(in).Kind() != reflect.Slice {
			return &ConfigError{Message: fmt.Sprintf("var-positional '%s' requires a slice parameter on %s", vp.Name, t)}
		}
		in++
	}

	if vk := sig.VarKw(); vk != nil {
		if in >= t.NumIn() || t.In(in).Kind() != reflect.Map || t.In(in).Key().Kind() != reflect.String {
			return &ConfigError{Message: fmt.Sprintf("var-keyword '%s' requires a string-keyed map parameter on %s", vk.Name, t)}
		}
		in++
	}

	if in != t.NumIn() {
		return &ConfigError{Message: fmt.Sprintf("function %s has %d parameters but the signature accounts for %d", t, t.NumIn(), in)}
	}

	switch t.NumOut() {
	case 0, 1:
	case 2:
		if t.Out(1) != errType {
			return &ConfigError{Message: fmt.Sprintf("function %s must return (value, error); second result is %s", t, t.Out(1))}
		}
	default:
		return &ConfigError{Message: fmt.Sprintf("function %s returns %d values; at most (value, error) is supported", t, t.NumOut())}
	}

	return nil
}
