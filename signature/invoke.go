package signature

import (
	"context"
	"fmt"
	"reflect"
)

// Invoke executes fn with the arguments of a bound Call. The function is
// checked against the signature first, so shape mismatches surface as
// ConfigError before anything runs. The leading context parameter, when the
// function declares one, receives ctx. Extra positional arguments beyond the
// named parameters fill the var-positional slice, and Kwargs fill the
// var-keyword map. A trailing error result, when non-nil, is returned as the
// invocation error.
func (s *Signature) Invoke(ctx context.Context, fn any, call *Call) (any, error) {
	if err := Introspect(fn, s); err != nil {
		return nil, err
	}

	fnVal := reflect.ValueOf(fn)
	t := fnVal.Type()

	var in []reflect.Value
	paramIdx := 0
	if t.NumIn() > 0 && t.In(0) == ctxType {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
		paramIdx = 1
	}

	named := len(s.params)
	if len(call.Args) < named {
		return nil, &ConfigError{Message: fmt.Sprintf("call provides %d positional arguments; signature declares %d", len(call.Args), named)}
	}

	for i := 0; i < named; i++ {
		value, err := coerce(call.Args[i], t.In(paramIdx))
		if err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("argument '%s': %v", s.params[i].Name, err)}
		}
		in = append(in, value)
		paramIdx++
	}

	extras := call.Args[named:]
	if s.varPos != nil {
		sliceType := t.In(paramIdx)
		slice := reflect.MakeSlice(sliceType, 0, len(extras))
		for i, extra := range extras {
			value, err := coerce(extra, sliceType.Elem())
			if err != nil {
				return nil, &ConfigError{Message: fmt.Sprintf("argument '%s[%d]': %v", s.varPos.Name, i, err)}
			}
			slice = reflect.Append(slice, value)
		}
		in = append(in, slice)
		paramIdx++
	} else if len(extras) > 0 {
		return nil, &ConfigError{Message: fmt.Sprintf("%d unexpected extra positional arguments", len(extras))}
	}

	if s.varKw != nil {
		mapType := t.In(paramIdx)
		m := reflect.MakeMapWithSize(mapType, len(call.Kwargs))
		for key, value := range call.Kwargs {
			coerced, err := coerce(value, mapType.Elem())
			if err != nil {
				return nil, &ConfigError{Message: fmt.Sprintf("argument '%s[%s]': %v", s.varKw.Name, key, err)}
			}
			m.SetMapIndex(reflect.ValueOf(key), coerced)
		}
		in = append(in, m)
	}

	var results []reflect.Value
	if t.IsVariadic() {
		results = fnVal.CallSlice(in)
	} else {
		results = fnVal.Call(in)
	}

	var invokeErr error
	if n := t.NumOut(); n > 0 && t.Out(n-1) == errType {
		if e := results[n-1].Interface(); e != nil {
			invokeErr = e.(error)
		}
		results = results[:n-1]
	}

	var output any
	if len(results) > 0 {
		output = results[0].Interface()
	}
	return output, invokeErr
}

// coerce adapts a bound argument value to the reflected parameter type.
// Assignable values pass through; numeric widening uses Go conversion rules;
// slices and string-keyed maps convert elementwise. String/number confusion
// is rejected rather than silently converted.
func coerce(v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(target), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}

	if rv.Type().ConvertibleTo(target) && safeConversion(rv.Type(), target) {
		return rv.Convert(target), nil
	}

	if rv.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		out := reflect.MakeSlice(target, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := coerce(rv.Index(i).Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, elem)
		}
		return out, nil
	}

	if rv.Kind() == reflect.Map && target.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && target.Key().Kind() == reflect.String {
		out := reflect.MakeMapWithSize(target, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem, err := coerce(iter.Value().Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key().Convert(target.Key()), elem)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, target)
}

// safeConversion reports whether a Go type conversion preserves the value's
// meaning. Integer-to-string conversion is legal Go but produces a rune
// string, which is never what a CLI argument means.
func safeConversion(from, to reflect.Type) bool {
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	if from.Kind() == reflect.String && to.Kind() != reflect.String {
		return false
	}
	return true
}
