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

// Package adapter shapes caller-supplied arguments to a method's
// declared parameters, then dispatches the call. Surplus values are
// dropped rather than rejected; missing required values fail under
// strict mode and silently skip the call under lenient mode.
package adapter

import (
	"fmt"

	"dirpx.dev/dcx/apis"
)

// MissingArgumentsError reports a call that supplied fewer positional
// values than the target requires.
type MissingArgumentsError struct {
	Target   string
	Required int
	Supplied int
}

func (e *MissingArgumentsError) Error() string {
	return fmt.Sprintf("dcx(adapter): %s requires %d positional arguments, %d supplied",
		e.Target, e.Required, e.Supplied)
}

// Adapt fits args and kwargs to p. Keyword values matching declared
// positional names fill those slots first; remaining positional slots
// consume args in order. Unless the target declares variadic forms,
// surplus positional values and unknown keywords are discarded. The
// caller's kwargs map is never mutated.
func Adapt(p apis.Params, args []any, kwargs map[string]any) ([]any, map[string]any) {
	kw := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		kw[k] = v
	}

	var outArgs []any
	if p.VarArgs {
		outArgs = append([]any(nil), args...)
	} else {
		queue := args
		for _, name := range p.Positional {
			if v, ok := kw[name]; ok {
				outArgs = append(outArgs, v)
				delete(kw, name)
				continue
			}
			if len(queue) == 0 {
				break
			}
			outArgs = append(outArgs, queue[0])
			queue = queue[1:]
		}
	}

	if p.VarKw {
		return outArgs, kw
	}
	outKw := make(map[string]any, len(p.KeywordOnly))
	for _, name := range p.KeywordOnly {
		if v, ok := kw[name]; ok {
			outKw[name] = v
		}
	}
	return outArgs, outKw
}

// Call adapts the arguments and invokes m on self. When the adapted
// positional values fall short of m's requirement, strict mode returns
// a MissingArgumentsError and lenient mode skips the call.
func Call(m apis.Method, self apis.Instance, args []any, kwargs map[string]any, strict bool) (any, error) {
	adapted, kw := Adapt(m.Params, args, kwargs)
	if len(adapted) < m.Params.Required {
		if strict {
			return nil, &MissingArgumentsError{
				Target:   m.Name,
				Required: m.Params.Required,
				Supplied: len(adapted),
			}
		}
		return nil, nil
	}
	return m.Fn(self, adapted, kw)
}

// Construct instantiates c, adapting the arguments to the constructor
// found along c's chain. A class without a constructor accepts any
// arguments and discards them. Under lenient mode a class whose
// constructor cannot be satisfied yields a nil instance and no error.
func Construct(c apis.Class, args []any, kwargs map[string]any, strict bool) (apis.Instance, error) {
	var params apis.Params
	if ctor, ok := c.LookupMethod(apis.ConstructorName); ok {
		params = ctor.Params
	}
	adapted, kw := Adapt(params, args, kwargs)
	if len(adapted) < params.Required {
		if strict {
			return nil, &MissingArgumentsError{
				Target:   c.Name() + "." + apis.ConstructorName,
				Required: params.Required,
				Supplied: len(adapted),
			}
		}
		return nil, nil
	}
	return c.New(adapted, kw)
}
