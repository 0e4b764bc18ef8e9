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

package apis

// ConstructorName is the member name under which a class constructor is
// declared. Fragment injection defaults to this method when no injection
// method is configured.
const ConstructorName = "init"

// Class is the value-level class model the engine composes over.
// A Class is immutable after creation: it carries a name, an ordered list
// of declared supertypes, and a member map whose values are either Method
// values or plain class-level constants.
//
// Composite classes produced by the engine are ordinary Class values; the
// engine never creates new nominal Go types.
type Class interface {
	// Name returns the class name. Composites keep their base class name.
	Name() string

	// Parents returns the declared supertypes in declaration order.
	Parents() []Class

	// Method returns a method declared directly on this class.
	Method(name string) (Method, bool)

	// LookupMethod resolves a method through the linearized supertype
	// chain (this class first, then parents in declaration order).
	LookupMethod(name string) (Method, bool)

	// Attribute resolves a non-method member (class-level constant)
	// through the linearized supertype chain.
	Attribute(name string) (any, bool)

	// Members returns a snapshot of the directly declared members.
	Members() map[string]any

	// New constructs an instance, running the resolved constructor
	// (if any) with the given arguments.
	New(args []any, kwargs map[string]any) (Instance, error)
}

// Instance is a live object of a Class: an attribute bag plus method
// dispatch over the owning class's supertype chain.
type Instance interface {
	// Class returns the class this instance was created from.
	Class() Class

	// Get reads an instance attribute.
	Get(name string) (any, bool)

	// Set writes an instance attribute.
	Set(name string, value any)

	// Call dispatches a method through the class's supertype chain.
	Call(method string, args []any, kwargs map[string]any) (any, error)

	// Super invokes the next definition of method found strictly after
	// owner in the linearized chain. It is the explicit replacement for
	// cooperative super-calls: a constructor can chain into dynamically
	// added supertypes without knowing them in advance.
	Super(owner Class, method string, args []any, kwargs map[string]any) (any, error)
}

// Func is the implementation of a method: it receives the instance, the
// positional arguments, and the keyword arguments.
type Func func(self Instance, args []any, kwargs map[string]any) (any, error)

// Params is the explicit parameter descriptor of a method. It is declared
// once with the method and is never re-computed per call.
type Params struct {
	// Positional lists the positional parameter names in order,
	// excluding the receiver.
	Positional []string

	// Required is the number of leading Positional parameters that have
	// no default and must be supplied.
	Required int

	// KeywordOnly lists parameters fillable only by keyword.
	KeywordOnly []string

	// VarArgs reports whether the method accepts unbounded positional
	// arguments. When set, positional arguments are passed unfiltered.
	VarArgs bool

	// VarKw reports whether the method accepts unbounded keyword
	// arguments. When set, keyword arguments are passed unfiltered.
	VarKw bool
}

// Method is a named member function of a Class.
type Method struct {
	// Name is the member name the method is declared under.
	Name string

	// Params describes the accepted arguments for adaptation.
	Params Params

	// Fn is the method body.
	Fn Func

	// ExplicitInjection marks a method whose body triggers fragment
	// injection itself (via InjectComponents) at a precise point of its
	// execution. Such methods are never wrapped with before/after
	// injection logic.
	ExplicitInjection bool
}

// IsZero reports whether m is the zero Method.
func (m Method) IsZero() bool { return m.Fn == nil }
