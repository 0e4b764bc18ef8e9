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

// BuildSpec is the registration payload for one base class: its
// configuration units plus any per-method configuration.
type BuildSpec struct {
	Units   []Unit
	Methods []MethodConfig
}

// Builder composes the engine's collaborators from a GlobalConfig.
// Implementations may migrate state from previous instances (prev*), or
// ignore them.
type Builder interface {
	// BuildRegistry constructs a Registry. May migrate bindings from a
	// previous registry.
	BuildRegistry(cfg GlobalConfig, prev Registry) Registry

	// BuildLoader constructs a Loader. May migrate paths from a
	// previous loader.
	BuildLoader(cfg GlobalConfig, prev Loader) Loader

	// BuildResolver constructs a Resolver over the given loader.
	BuildResolver(cfg GlobalConfig, ldr Loader, prev Resolver) Resolver

	// BuildOrchestrator normalizes spec against cfg and constructs the
	// orchestrator driving builds of base. Configuration validation
	// failures surface here.
	BuildOrchestrator(base Class, spec BuildSpec, cfg GlobalConfig, reg Registry, res Resolver) (Orchestrator, error)
}

// Instantiator is the type-instantiation primitive: it creates a new
// class value from a name, a supertype list, and a member map.
type Instantiator interface {
	Instantiate(name string, supertypes []Class, members map[string]any) Class
}

// Orchestrator drives the end-to-end build for one base class.
type Orchestrator interface {
	// Base returns the class this orchestrator builds composites for.
	Base() Class

	// Build produces a composite from a concrete option set. The option
	// set is switch-expanded on a private copy, and the produced
	// composite is recorded in the registry.
	Build(options Options) (Class, error)

	// Configure produces a composite from an already switch-expanded
	// option set without recording it; it is the recursive-resolution
	// entry point.
	Configure(options Options) (Class, error)
}
