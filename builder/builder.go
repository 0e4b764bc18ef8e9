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

// Package builder constructs the engine's collaborators and drives the
// end-to-end composition of one base class: option transform, dependency
// evaluation, supertype and fragment composition, and instantiation of
// the composite.
package builder

import (
	"errors"

	"go.uber.org/zap"

	"dirpx.dev/dcx/apis"
	"dirpx.dev/dcx/classdef"
	"dirpx.dev/dcx/composer"
	"dirpx.dev/dcx/loader"
	"dirpx.dev/dcx/registry"
	"dirpx.dev/dcx/resolver"
	"dirpx.dev/dcx/strategy"
	"dirpx.dev/dcx/units"
	uref "dirpx.dev/dcx/utils/reflect"
)

// ErrNilBase is returned when an orchestrator is requested for a nil
// base class.
var ErrNilBase = errors.New("dcx(builder): nil base class")

type factory struct {
	inst apis.Instantiator
}

// New returns the default Builder, instantiating composites through the
// classdef model.
func New() apis.Builder {
	return &factory{inst: classdef.Instantiator{}}
}

func (f *factory) BuildRegistry(_ apis.GlobalConfig, prev apis.Registry) apis.Registry {
	reg := registry.New()
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = reg.Bind(e.Base, e.Orchestrator)
		}
	}
	return reg
}

func (f *factory) BuildLoader(_ apis.GlobalConfig, prev apis.Loader) apis.Loader {
	ldr := loader.New()
	if prev != nil {
		for _, p := range prev.Paths() {
			_ = ldr.Register(p.Path, p.Class)
		}
	}
	return ldr
}

func (f *factory) BuildResolver(_ apis.GlobalConfig, ldr apis.Loader, _ apis.Resolver) apis.Resolver {
	return resolver.New(strategy.NewClassStrategy(), strategy.NewPathStrategy(ldr))
}

func (f *factory) BuildOrchestrator(base apis.Class, spec apis.BuildSpec, cfg apis.GlobalConfig, reg apis.Registry, res apis.Resolver) (apis.Orchestrator, error) {
	if base == nil {
		return nil, ErrNilBase
	}
	mgr, err := units.NewManager(cfg, spec.Units, spec.Methods)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		base: base,
		mgr:  mgr,
		cfg:  cfg,
		reg:  reg,
		res:  res,
		inst: f.inst,
		log:  log,
	}, nil
}

// Orchestrator composes one base class against its normalized units.
type Orchestrator struct {
	base apis.Class
	mgr  *units.Manager
	cfg  apis.GlobalConfig
	reg  apis.Registry
	res  apis.Resolver
	inst apis.Instantiator
	log  *zap.Logger
}

var _ apis.Orchestrator = (*Orchestrator)(nil)

// Base returns the class this orchestrator builds composites for.
func (o *Orchestrator) Base() apis.Class { return o.base }

// Build transforms the options, composes, and records the composite.
func (o *Orchestrator) Build(options apis.Options) (apis.Class, error) {
	opts := o.mgr.TransformOptions(options)
	built, frag, err := o.compose(opts)
	if err != nil {
		return nil, err
	}
	rec := apis.BuildRecord{Base: o.base, Options: opts, Injector: frag}
	if err := o.reg.RecordBuilt(built, rec); err != nil {
		return nil, err
	}
	return built, nil
}

// Configure composes from an already-transformed option set, without
// recording the result. It backs recursive resolution: nested builds run
// with the outer build's option set.
func (o *Orchestrator) Configure(options apis.Options) (apis.Class, error) {
	built, _, err := o.compose(options)
	return built, err
}

func (o *Orchestrator) compose(opts apis.Options) (apis.Class, *composer.FragmentComposer, error) {
	configure := func(ref apis.ClassRef) (apis.Class, error) {
		cls, err := o.res.Resolve(ref, o.cfg)
		if err != nil {
			return nil, err
		}
		if !o.cfg.BuildRecursively || cls == o.base || !o.reg.Buildable(cls) {
			return cls, nil
		}
		orch, ok := o.reg.Orchestrator(cls)
		if !ok {
			return cls, nil
		}
		return orch.Configure(opts)
	}

	parents := composer.NewParentComposer(o.base, configure)
	frag := composer.NewFragmentComposer(o.base, configure, o.log)

	for _, u := range o.mgr.Units() {
		for _, e := range u.Entries() {
			selected := o.optionValue(e.Key(), opts)
			add := uref.Truthy(selected) || o.cfg.ForceAdd
			for _, rec := range e.Records() {
				if len(rec.InheritFrom) > 0 {
					switch {
					case add:
						parents.Select(rec.InheritFrom...)
					case rec.DefaultClass != nil:
						parents.Select(rec.DefaultClass)
					}
					continue
				}
				if !add && rec.DefaultClass == nil {
					continue
				}
				b := composer.Binding{
					Key:        e.Key(),
					Rec:        rec,
					Selected:   selected,
					Add:        add,
					DefaultRef: rec.DefaultClass,
				}
				if err := frag.Select(b); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	supers, err := parents.Configure()
	if err != nil {
		return nil, nil, err
	}
	members, err := frag.PatchMethods()
	if err != nil {
		return nil, nil, err
	}

	// Constructor resolution stays base-first: without this, a selected
	// supertype placed ahead of the base would shadow its constructor.
	if _, ok := members[apis.ConstructorName]; !ok {
		if ctor, found := o.base.LookupMethod(apis.ConstructorName); found {
			members[apis.ConstructorName] = ctor
		}
	}

	// Later-selected supertypes take precedence in member resolution.
	for i, j := 0, len(supers)-1; i < j; i, j = i+1, j-1 {
		supers[i], supers[j] = supers[j], supers[i]
	}

	built := o.inst.Instantiate(o.base.Name(), supers, members)
	o.log.Debug("composite assembled",
		zap.String("base", o.base.Name()),
		zap.Int("supertypes", len(supers)),
		zap.Int("patched_methods", len(members)))
	return built, frag, nil
}

// optionValue evaluates a dependency key against the option set.
// Predicate parameters resolve from options first, then from class-level
// attributes of the base.
func (o *Orchestrator) optionValue(key apis.DependencyKey, opts apis.Options) any {
	if key.When == nil {
		return opts[key.Option]
	}
	values := make([]any, len(key.When.Params))
	for i, p := range key.When.Params {
		if v, ok := opts[p]; ok {
			values[i] = v
			continue
		}
		if v, ok := o.base.Attribute(p); ok {
			values[i] = v
		}
	}
	return key.When.Eval(values...)
}
