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

package dcx

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/builder"
	"dirpx.dev/dcx/classdef"
	"dirpx.dev/dcx/config"
	"dirpx.dev/dcx/fileconf"
	uref "dirpx.dev/dcx/utils/reflect"
)

// init initializes the global dcx state.
func init() {
	// Initialize state with default cfg, reg, ldr, and res.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	s.ldr = b.BuildLoader(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg, s.ldr, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNotRegistered is returned when a build is requested for a class
	// with no bound configuration.
	ErrNotRegistered = errors.New("dcx: class not registered")
	// ErrNotBuilt is returned when an operation requires an instance of
	// an engine-built composite but the instance's class has no build
	// record.
	ErrNotBuilt = errors.New("dcx: instance class was not produced by a build")
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("dcx: builder returned nil registry")
	// ErrNilLoader is returned when a builder returns a nil loader.
	ErrNilLoader = errors.New("dcx: builder returned nil loader")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("dcx: builder returned nil resolver")
)

// Options is the build option set. Alias of apis.Options.
type Options = apis.Options

// NewClass builds a class value from a name, ordered supertypes, and a
// member map. It is the entry point for declaring base classes and
// components.
// This is a convenience wrapper around the classdef model.
func NewClass(name string, parents []apis.Class, members map[string]any) apis.Class {
	return classdef.NewClass(name, parents, members)
}

// NewUnit returns an empty configuration unit for chained declaration.
// This is a convenience re-export of apis.NewUnit.
func NewUnit() *apis.Unit { return apis.NewUnit() }

// Register binds configuration units to a base class in the global
// registry. Per-registration options override the global configuration
// for builds of this class only.
// This is a convenience wrapper around the global reg.
func Register(base apis.Class, units []apis.Unit, opts ...config.Option) error {
	return RegisterWithMethods(base, units, nil, opts...)
}

// RegisterWithMethods binds configuration units plus per-method
// configurations to a base class. Component records of a method
// configuration are injected around their method instead of the
// constructor.
// This is a convenience wrapper around the global reg.
func RegisterWithMethods(base apis.Class, units []apis.Unit, methods []apis.MethodConfig, opts ...config.Option) error {
	s := st.Load()
	cfg := s.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	spec := apis.BuildSpec{Units: units, Methods: methods}
	orch, err := s.bld.BuildOrchestrator(base, spec, cfg, s.reg, s.res)
	if err != nil {
		return err
	}
	return s.reg.Bind(base, orch)
}

// RegisterFile binds the configuration unit read from a TOML document to
// a base class. Options declared in the document's [global] section
// apply first; caller options override them.
// This is a convenience wrapper around fileconf and the global reg.
func RegisterFile(base apis.Class, path string, opts ...config.Option) error {
	unit, fileOpts, err := fileconf.Load(path)
	if err != nil {
		return err
	}
	return Register(base, []apis.Unit{unit}, append(fileOpts, opts...)...)
}

// RegisterPath associates a dotted path with a class so configurations
// can reference it by string.
// This is a convenience wrapper around the global ldr.
func RegisterPath(path string, c apis.Class) error {
	return st.Load().ldr.Register(path, c)
}

// Build composes the registered base class against the given options and
// returns the composite. Options may be an apis.Options map, any
// string-keyed map, a struct or struct pointer whose exported fields
// become options, or nil for no options.
// This is a convenience wrapper around the bound orchestrator.
func Build(base apis.Class, options any) (apis.Class, error) {
	s := st.Load()
	orch, ok := s.reg.Orchestrator(base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, base.Name())
	}
	opts, err := uref.OptionsFrom(options)
	if err != nil {
		return nil, err
	}
	return orch.Build(opts)
}

// BuildComponent composes base with the option set of the build that
// produced enclosing's class. When enclosing's class has no build record,
// or base is not registered, base is returned unchanged.
// This is a convenience wrapper around the global reg.
func BuildComponent(enclosing apis.Instance, base apis.Class) (apis.Class, error) {
	s := st.Load()
	rec, ok := s.reg.Built(enclosing.Class())
	if !ok {
		return base, nil
	}
	orch, ok := s.reg.Orchestrator(base)
	if !ok {
		return base, nil
	}
	return orch.Build(rec.Options)
}

// InjectComponents performs explicit mid-method injection for self: the
// components configured for method with explicit injection are
// constructed and attached at the call site. The method must belong to a
// composite produced by Build.
// This is a convenience wrapper around the build record's injector.
func InjectComponents(self apis.Instance, method string, args []any, kwargs map[string]any) error {
	rec, ok := st.Load().reg.Built(self.Class())
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotBuilt, self.Class().Name())
	}
	return rec.Injector.InjectInto(self, method, args, kwargs)
}

// Reset drops all bindings and build records from the global reg.
func Reset() {
	st.Load().reg.Reset()
}

// Config returns the global dcx configuration.
func Config() apis.GlobalConfig {
	return st.Load().cfg
}

// SetConfig sets the global dcx configuration to cfg.
// It rebuilds the global reg, ldr, and res using the new configuration,
// migrating existing bindings and paths.
// This is a convenience wrapper around the global state.
func SetConfig(cfg apis.GlobalConfig) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg, ldr, and res based on the new cfg and old state.
	nreg := b.BuildRegistry(cfg, old.reg)
	nldr := b.BuildLoader(cfg, old.ldr)
	nres := b.BuildResolver(cfg, nldr, old.res)

	// Ensure non-nil reg, ldr, and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nldr == nil {
		panic(ErrNilLoader)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: cfg,
			reg: nreg,
			ldr: nldr,
			res: nres,
			bld: b,
		},
	)
}

// Registry returns the global dcx reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global dcx reg to reg.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: old.cfg,
			reg: reg,
			ldr: old.ldr,
			res: old.res,
			bld: old.bld,
		},
	)
}

// Loader returns the global dcx ldr.
func Loader() apis.Loader {
	return st.Load().ldr
}

// SetLoader sets the global dcx ldr to ldr.
// It rebuilds the global res over the new ldr.
// This is a convenience wrapper around the global state.
func SetLoader(ldr apis.Loader) {
	if ldr == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new res based on the old cfg and new ldr.
	nres := b.BuildResolver(old.cfg, ldr, old.res)

	// Ensure non-nil res.
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: old.cfg,
			reg: old.reg,
			ldr: ldr,
			res: nres,
			bld: b,
		},
	)
}

// Resolver returns the global dcx res.
func Resolver() apis.Resolver {
	return st.Load().res
}

// Builder returns the global dcx bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global dcx bld to b.
// It rebuilds the global reg, ldr, and res using the new builder,
// migrating existing bindings and paths.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg, ldr, and res based on the new bld and old state.
	nreg := b.BuildRegistry(old.cfg, old.reg)
	nldr := b.BuildLoader(old.cfg, old.ldr)
	nres := b.BuildResolver(old.cfg, nldr, old.res)

	// Ensure non-nil reg, ldr, and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nldr == nil {
		panic(ErrNilLoader)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg: old.cfg,
			reg: nreg,
			ldr: nldr,
			res: nres,
			bld: b,
		},
	)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global dcx state.
var st atomic.Pointer[state]

// state is the global dcx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global dcx configuration.
	cfg apis.GlobalConfig
	// reg is the global dcx reg.
	reg apis.Registry
	// ldr is the global dcx ldr.
	ldr apis.Loader
	// res is the global dcx res.
	res apis.Resolver
	// bld is the global dcx bld.
	bld apis.Builder
}
