/*
   Copyright 2026 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package reflect normalizes arbitrary caller values into the shapes the
// build pipeline works with: option maps, truthiness decisions, and
// structured-container mutation.
package reflect

import (
	"errors"
	"fmt"
	stdreflect "reflect"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/dcxapi/common"
)

var (
	// ErrUnsupportedOptions is returned when a value cannot be converted
	// into an option map.
	ErrUnsupportedOptions = errors.New("dcx(reflect): unsupported options value")
	// ErrNotAppendable is returned when a structured container accepts no
	// appended values.
	ErrNotAppendable = errors.New("dcx(reflect): container is not appendable")
	// ErrNotSettable is returned when a structured container accepts no
	// keyed values.
	ErrNotSettable = errors.New("dcx(reflect): container is not settable")
)

// OptionsFrom converts v into an option map. Accepted shapes are
// apis.Options, any string-keyed map, and structs or struct pointers,
// whose exported fields become entries keyed by field name. A nil value
// yields an empty map.
func OptionsFrom(v any) (apis.Options, error) {
	if v == nil {
		return apis.Options{}, nil
	}
	switch m := v.(type) {
	case apis.Options:
		return cloneMap(m), nil
	case map[string]any:
		return cloneMap(m), nil
	}

	rv := stdreflect.ValueOf(v)
	if rv.Kind() == stdreflect.Pointer {
		if rv.IsNil() {
			return apis.Options{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case stdreflect.Map:
		if rv.Type().Key().Kind() != stdreflect.String {
			return nil, fmt.Errorf("%w: map keyed by %s", ErrUnsupportedOptions, rv.Type().Key())
		}
		out := make(apis.Options, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	case stdreflect.Struct:
		rt := rv.Type()
		out := make(apis.Options, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			out[f.Name] = rv.Field(i).Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedOptions, v)
	}
}

func cloneMap(m map[string]any) apis.Options {
	out := make(apis.Options, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Truthy reports whether v selects a dependency. Nil, false, numeric
// zero, empty strings, and empty containers do not; everything else does.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	}

	rv := stdreflect.ValueOf(v)
	switch rv.Kind() {
	case stdreflect.Int, stdreflect.Int8, stdreflect.Int16, stdreflect.Int32, stdreflect.Int64:
		return rv.Int() != 0
	case stdreflect.Uint, stdreflect.Uint8, stdreflect.Uint16, stdreflect.Uint32, stdreflect.Uint64:
		return rv.Uint() != 0
	case stdreflect.Float32, stdreflect.Float64:
		return rv.Float() != 0
	case stdreflect.Map, stdreflect.Slice, stdreflect.Array, stdreflect.Chan:
		return rv.Len() != 0
	case stdreflect.Pointer, stdreflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// AppendTo appends v to a structured container. Containers may implement
// common.Appender, expose an Add method, or be a pointer to a slice.
func AppendTo(container, v any) error {
	if a, ok := container.(common.Appender); ok {
		a.Append(v)
		return nil
	}
	if a, ok := container.(interface{ Add(any) }); ok {
		a.Add(v)
		return nil
	}

	rv := stdreflect.ValueOf(container)
	if rv.Kind() == stdreflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == stdreflect.Slice {
		elem := rv.Elem()
		ev := stdreflect.ValueOf(v)
		if v == nil {
			ev = stdreflect.Zero(elem.Type().Elem())
		}
		if !ev.Type().AssignableTo(elem.Type().Elem()) {
			return fmt.Errorf("%w: %T into %s", ErrNotAppendable, v, elem.Type())
		}
		elem.Set(stdreflect.Append(elem, ev))
		return nil
	}
	return fmt.Errorf("%w: %T", ErrNotAppendable, container)
}

// SetInto stores v under key in a structured container. Containers may
// implement common.Setter, be a string-keyed map, or be a pointer to a
// struct with an exported field named key.
func SetInto(container any, key string, v any) error {
	if s, ok := container.(common.Setter); ok {
		s.Set(key, v)
		return nil
	}

	rv := stdreflect.ValueOf(container)
	if rv.Kind() == stdreflect.Map && rv.Type().Key().Kind() == stdreflect.String {
		ev := stdreflect.ValueOf(v)
		if v == nil {
			ev = stdreflect.Zero(rv.Type().Elem())
		}
		if !ev.Type().AssignableTo(rv.Type().Elem()) {
			return fmt.Errorf("%w: %T into %s", ErrNotSettable, v, rv.Type())
		}
		rv.SetMapIndex(stdreflect.ValueOf(key), ev)
		return nil
	}
	if rv.Kind() == stdreflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == stdreflect.Struct {
		fv := rv.Elem().FieldByName(key)
		if fv.IsValid() && fv.CanSet() {
			ev := stdreflect.ValueOf(v)
			if v == nil {
				ev = stdreflect.Zero(fv.Type())
			}
			if !ev.Type().AssignableTo(fv.Type()) {
				return fmt.Errorf("%w: %T into field %s", ErrNotSettable, v, key)
			}
			fv.Set(ev)
			return nil
		}
		return fmt.Errorf("%w: no settable field %q on %T", ErrNotSettable, key, container)
	}
	return fmt.Errorf("%w: %T", ErrNotSettable, container)
}
