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

package composer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dirpx.dev/dcx/adapter"
	"dirpx.dev/dcx/apis"
	uref "dirpx.dev/dcx/utils/reflect"
)

var (
	// ErrMissingComponentAttr is returned when a component record has no
	// attribute to attach to.
	ErrMissingComponentAttr = errors.New("dcx(composer): component record has no attribute")
	// ErrMissingInjectionMethod is returned when a component targets a
	// method the base class does not define.
	ErrMissingInjectionMethod = errors.New("dcx(composer): injection method not defined on base")
	// ErrNoExplicitInjection is returned when explicit injection is
	// requested for a method with no explicit bindings.
	ErrNoExplicitInjection = errors.New("dcx(composer): no explicit injection bindings for method")
	// ErrStructuredContainer is returned when a structured container
	// rejects a component.
	ErrStructuredContainer = errors.New("dcx(composer): structured container rejected component")
)

// Position locates an injection relative to the guarded method body.
type Position int

const (
	// PositionBefore injects ahead of the method body.
	PositionBefore Position = iota
	// PositionMiddle injects at the explicit call site inside the body.
	PositionMiddle
	// PositionAfter injects after the method body.
	PositionAfter
)

// Binding ties one selected component record to the value that selected
// it.
type Binding struct {
	// Key is the dependency key the record was bound to.
	Key apis.DependencyKey
	// Rec is the record with all defaults folded in.
	Rec apis.ClassConfig
	// Selected is the option or predicate value that selected the key.
	Selected any
	// Add reports whether the component class itself is added; when
	// false the injection falls back to DefaultRef.
	Add bool
	// DefaultRef is the fallback component reference, when configured.
	DefaultRef apis.ClassRef
}

// appliedKey identifies one injection for the once-per-build guard.
type appliedKey struct {
	fragment apis.ClassRef
	method   string
	attr     string
}

// FragmentComposer accumulates component bindings, then patches the base
// class's methods so the bound components are constructed and attached
// while those methods run.
type FragmentComposer struct {
	base      apis.Class
	configure ConfigureFunc
	log       *zap.Logger

	bindings    map[string][]Binding
	methodOrder []string
	explicit    map[string]bool
	applied     map[appliedKey]bool
}

var _ apis.Injector = (*FragmentComposer)(nil)

// NewFragmentComposer returns a composer for one build of base.
func NewFragmentComposer(base apis.Class, configure ConfigureFunc, log *zap.Logger) *FragmentComposer {
	if log == nil {
		log = zap.NewNop()
	}
	return &FragmentComposer{
		base:      base,
		configure: configure,
		log:       log,
		bindings:  map[string][]Binding{},
		explicit:  map[string]bool{},
		applied:   map[appliedKey]bool{},
	}
}

// Select registers a component binding. The record must name an
// attribute, and its injection method must be the constructor or a
// method defined along the base's chain.
func (fc *FragmentComposer) Select(b Binding) error {
	if b.Rec.ComponentAttr == "" {
		return fmt.Errorf("%w: key %q", ErrMissingComponentAttr, b.Key.Option)
	}
	method := b.Rec.InjectionMethod
	if method == "" {
		method = apis.ConstructorName
		b.Rec.InjectionMethod = method
	}
	if method != apis.ConstructorName {
		if _, ok := fc.base.LookupMethod(method); !ok {
			return fmt.Errorf("%w: %q on %q", ErrMissingInjectionMethod, method, fc.base.Name())
		}
	}
	if _, seen := fc.bindings[method]; !seen {
		fc.methodOrder = append(fc.methodOrder, method)
	}
	fc.bindings[method] = append(fc.bindings[method], b)
	return nil
}

// PatchMethods produces the member map for the composite class. Each
// targeted method is replaced by a wrapper that injects the bound
// components around the original body; methods declaring explicit
// injection keep their body and receive components only through
// InjectInto.
func (fc *FragmentComposer) PatchMethods() (map[string]any, error) {
	members := map[string]any{}
	for _, method := range fc.methodOrder {
		delegate, hasDelegate := fc.base.LookupMethod(method)
		if hasDelegate && delegate.ExplicitInjection {
			fc.explicit[method] = true
			members[method] = delegate
			continue
		}
		members[method] = fc.wrap(method, delegate, hasDelegate)
	}
	return members, nil
}

func (fc *FragmentComposer) wrap(method string, delegate apis.Method, hasDelegate bool) apis.Method {
	return apis.Method{
		Name:   method,
		Params: apis.Params{VarArgs: true, VarKw: true},
		Fn: func(self apis.Instance, args []any, kwargs map[string]any) (any, error) {
			if err := fc.inject(self, method, PositionBefore, args, kwargs); err != nil {
				return nil, err
			}
			var out any
			if hasDelegate {
				var err error
				out, err = adapter.Call(delegate, self, args, kwargs, true)
				if err != nil {
					return nil, err
				}
			}
			if err := fc.inject(self, method, PositionAfter, args, kwargs); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// InjectInto performs explicit mid-method injection for obj.
func (fc *FragmentComposer) InjectInto(obj apis.Instance, method string, args []any, kwargs map[string]any) error {
	if !fc.explicit[method] {
		return fmt.Errorf("%w: %q", ErrNoExplicitInjection, method)
	}
	return fc.inject(obj, method, PositionMiddle, args, kwargs)
}

func (fc *FragmentComposer) inject(self apis.Instance, method string, pos Position, args []any, kwargs map[string]any) error {
	for _, b := range fc.bindings[method] {
		after := b.Rec.AddAfterMethod != nil && *b.Rec.AddAfterMethod
		if pos != PositionMiddle && (pos == PositionAfter) != after {
			continue
		}
		if !b.Add && b.DefaultRef == nil {
			continue
		}
		ref := b.Rec.ComponentClass
		if !b.Add {
			ref = b.DefaultRef
		}
		key := appliedKey{fragment: ref, method: method, attr: b.Rec.ComponentAttr}
		if fc.applied[key] {
			continue
		}

		cls, err := fc.configure(ref)
		if err != nil {
			return err
		}
		callArgs, callKw := fc.assembleArguments(b, self, args, kwargs)
		strict := b.Rec.StrictArgs != nil && *b.Rec.StrictArgs
		obj, err := adapter.Construct(cls, callArgs, callKw, strict)
		if err != nil {
			return err
		}
		if obj == nil {
			// Lenient construction failed: no attribute, no transition.
			fc.log.Debug("component skipped",
				zap.String("class", cls.Name()),
				zap.String("method", method),
				zap.String("attribute", b.Rec.ComponentAttr))
			continue
		}
		if err := fc.attach(self, b, obj); err != nil {
			return err
		}
		fc.applied[key] = true
		fc.log.Debug("component attached",
			zap.String("class", cls.Name()),
			zap.String("method", method),
			zap.String("attribute", b.Rec.ComponentAttr))
	}
	return nil
}

// assembleArguments builds the component constructor's arguments from
// the guarded call's arguments plus the record's forwarding settings.
func (fc *FragmentComposer) assembleArguments(b Binding, self apis.Instance, args []any, kwargs map[string]any) ([]any, map[string]any) {
	callArgs := append([]any(nil), args...)
	if b.Rec.ArgsKeepFirst != nil && *b.Rec.ArgsKeepFirst < len(callArgs) {
		n := *b.Rec.ArgsKeepFirst
		if n < 0 {
			n = 0
		}
		callArgs = callArgs[:n]
	}
	if b.Rec.ArgFromOption != nil && *b.Rec.ArgFromOption {
		callArgs = append([]any{b.Selected}, callArgs...)
	}
	for _, name := range b.Rec.ArgsFromSelf {
		if v, ok := self.Get(name); ok {
			callArgs = append(callArgs, v)
		}
	}

	callKw := map[string]any{}
	for kwName, attrName := range b.Rec.KwargsFromSelf {
		if v, ok := self.Get(attrName); ok {
			callKw[kwName] = v
		}
	}
	for k, v := range kwargs {
		callKw[k] = v
	}
	return callArgs, callKw
}

// attach stores the component on self, through a structured container
// when the record configures one.
func (fc *FragmentComposer) attach(self apis.Instance, b Binding, obj apis.Instance) error {
	attr := b.Rec.ComponentAttr
	if b.Rec.StructuredType == nil {
		self.Set(attr, obj)
		return nil
	}
	container, ok := self.Get(attr)
	if !ok || !uref.Truthy(container) {
		container = b.Rec.StructuredType()
		self.Set(attr, container)
	}
	var err error
	if b.Rec.StructuredKey != "" {
		err = uref.SetInto(container, b.Rec.StructuredKey, obj)
	} else {
		err = uref.AppendTo(container, obj)
	}
	if err != nil {
		return fmt.Errorf("%w: attribute %q: %w", ErrStructuredContainer, attr, err)
	}
	return nil
}
