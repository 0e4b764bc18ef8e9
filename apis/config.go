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

import "go.uber.org/zap"

// ClassRef references a class either as a live Class value or as a dotted
// path string resolved through a Loader (optionally prefixed by the
// configured base path).
type ClassRef = any

// Options is the set of named build options consulted to decide which
// dependencies activate. Values may be booleans, enum-like values, or any
// other value; selection uses truthiness.
type Options map[string]any

// Defaults carries the per-dependency settings shared by dependency
// records, unit-local defaults, and global defaults. The zero value of
// each field means "unset": unset fields fall back first to the owning
// unit's defaults, then to the global defaults.
type Defaults struct {
	// DefaultClass is the fallback supertype/fragment used when the
	// dependency key is not selected.
	DefaultClass ClassRef

	// ComponentAttr is the instance attribute a fragment attaches to.
	ComponentAttr string

	// InjectionMethod is the method a fragment attaches around.
	// Falls back to ConstructorName.
	InjectionMethod string

	// AddAfterMethod injects the fragment after the method body instead
	// of before it.
	AddAfterMethod *bool

	// StructuredType, when set, aggregates multiple fragments sharing
	// one attribute into a container created by this factory.
	StructuredType func() any

	// StructuredKey stores the fragment under a key of the structured
	// container instead of appending it.
	StructuredKey string

	// ArgsFromSelf appends the named instance attributes (those already
	// present) to the fragment constructor's positional arguments.
	ArgsFromSelf []string

	// KwargsFromSelf maps constructor keyword names to instance
	// attribute names read off the partially constructed instance.
	KwargsFromSelf map[string]string

	// ArgsKeepFirst truncates the forwarded positional arguments to the
	// first N before anything is appended.
	ArgsKeepFirst *int

	// ArgFromOption prepends the selected option value to the fragment
	// constructor's positional arguments.
	ArgFromOption *bool

	// StrictArgs controls the recovery policy for missing required
	// positional arguments during fragment construction: strict
	// propagates the failure, lenient skips the fragment.
	StrictArgs *bool
}

// ClassConfig is one dependency record: the canonical description of a
// candidate supertype or fragment, bound to a dependency key inside a
// configuration unit. Exactly one of InheritFrom and ComponentClass must
// be set.
type ClassConfig struct {
	Defaults

	// InheritFrom adds one or more supertypes when the key is selected.
	InheritFrom []ClassRef

	// ComponentClass instantiates a fragment and attaches it under
	// ComponentAttr when the key is selected.
	ComponentClass ClassRef
}

// Predicate is a condition over named options. Params are looked up in
// the build options, falling back to a class-level attribute of the base
// class; the dependency is selected when Eval returns a truthy value.
type Predicate struct {
	Params []string
	Eval   func(values ...any) any
}

// DependencyKey selects a dependency: either a plain option name whose
// value must be truthy, or a predicate over named options.
type DependencyKey struct {
	Option string
	When   *Predicate
}

// Key returns a DependencyKey for a plain option name.
func Key(option string) DependencyKey { return DependencyKey{Option: option} }

// When returns a predicate DependencyKey over the named options.
func When(params []string, eval func(values ...any) any) DependencyKey {
	return DependencyKey{When: &Predicate{Params: params, Eval: eval}}
}

// SwitchCase binds one case value of a Switch to its dependency records.
type SwitchCase struct {
	Value   any
	Configs []ClassConfig
}

// Switch is a multi-valued dependency: the option's concrete value picks
// one case; Default applies when no case matches or the option is absent.
type Switch struct {
	Cases   []SwitchCase
	Default []ClassConfig
}

// UnitEntry is one keyed entry of a configuration unit. Exactly one of
// Configs and Switch is set.
type UnitEntry struct {
	Key     DependencyKey
	Configs []ClassConfig
	Switch  *Switch
}

// Unit is one user-supplied configuration source: an ordered list of
// keyed dependency entries plus unit-local default settings.
type Unit struct {
	Entries  []UnitEntry
	Defaults *Defaults
}

// On appends a plain-key entry and returns the unit for chaining.
func (u *Unit) On(option string, configs ...ClassConfig) *Unit {
	u.Entries = append(u.Entries, UnitEntry{Key: Key(option), Configs: configs})
	return u
}

// OnCond appends a predicate-key entry and returns the unit for chaining.
func (u *Unit) OnCond(params []string, eval func(values ...any) any, configs ...ClassConfig) *Unit {
	u.Entries = append(u.Entries, UnitEntry{Key: When(params, eval), Configs: configs})
	return u
}

// OnSwitch appends a switch-shaped entry and returns the unit for chaining.
func (u *Unit) OnSwitch(option string, sw Switch) *Unit {
	u.Entries = append(u.Entries, UnitEntry{Key: Key(option), Switch: &sw})
	return u
}

// WithDefaults sets the unit-local defaults and returns the unit.
func (u *Unit) WithDefaults(d Defaults) *Unit {
	u.Defaults = &d
	return u
}

// NewUnit returns an empty configuration unit.
func NewUnit() *Unit { return &Unit{} }

// MethodConfig declares dependencies alongside an individual method
// rather than at class scope. Its component records are injected around
// the named method.
type MethodConfig struct {
	Method string
	Unit   Unit
}

// GlobalConfig carries the process-wide-per-build settings merged from
// the engine defaults down to per-registration overrides. It is passed by
// value and treated as immutable by implementations.
type GlobalConfig struct {
	// Defaults are the global fallback values for unset record fields.
	Defaults Defaults

	// BuildRecursively enables recursive resolution: a selected
	// dependency that is itself registered is built with the same
	// option set before inclusion.
	BuildRecursively bool

	// BasePath is prepended (dot-separated) to path references before
	// they are handed to the Loader.
	BasePath string

	// OptionOrder fixes the evaluation order of dependency keys; keys
	// not listed keep their source order after the listed ones.
	OptionOrder []string

	// ForceAdd adds every dependency regardless of the build options.
	ForceAdd bool

	// Logger receives debug-level build tracing. Nil disables tracing.
	Logger *zap.Logger
}
