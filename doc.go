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

// Package dcx provides configuration-driven type composition: classes
// gain supertypes and components at build time, selected by an option
// set evaluated against registered dependency configurations.
//
// dcx works on a value-level class model (apis.Class / apis.Instance)
// rather than on Go's nominal types: a "class" is an immutable value
// carrying a name, ordered supertypes, and a member map of methods and
// constants. Composition produces new class values; it never creates Go
// types at runtime.
//
// # Model
//
// A base class is registered together with one or more configuration
// units. Each unit is an ordered list of dependency entries; each entry
// binds a dependency key to one or more records. A key is either a plain
// option name (selected when its build-option value is truthy) or a
// predicate over several options. A record either
//
//   - adds supertypes (InheritFrom), or
//   - instantiates a component class and attaches it to an instance
//     attribute while a designated method runs (ComponentClass).
//
// Switch-shaped entries map the concrete value of one option to distinct
// records; an unmatched or absent value falls to the switch's default.
//
// # Building
//
//	composite, err := dcx.Build(base, dcx.Options{"with_cache": true})
//
// Build transforms the option set (expanding switches), evaluates every
// dependency key, accumulates selected supertypes, patches the targeted
// methods with component injection wrappers, and instantiates the
// composite class. Later-selected supertypes take precedence on member
// conflicts; the base constructor always keeps precedence so a build
// with no selections behaves like the base itself.
//
// Component injection is guarded per (component, method, attribute)
// triple: re-running the patched method never re-instantiates an
// already-attached component. Components may aggregate into structured
// containers (lists, maps, or user types implementing the common
// contracts) instead of occupying one attribute each.
//
// When recursion is enabled (the default), a selected dependency that is
// itself registered is composed with the same option set before
// inclusion, so one option can shape a whole object graph.
//
// # Global state
//
// The package keeps a read-mostly global snapshot holding the
// configuration, the registry of bound base classes, the path loader,
// the reference resolver, and the builder that constructs them. Readers
// (Build, BuildComponent, InjectComponents, the accessors) load the
// snapshot atomically and never lock. Writers (SetConfig, SetLoader,
// SetBuilder, SetRegistry) take a short build mutex, derive a new
// snapshot, migrating registry bindings and loader paths, and publish it
// with an atomic pointer swap.
//
// # Configuration sources
//
// Units are declared in code with the chainable apis.Unit helpers, or
// loaded from TOML documents via RegisterFile / the fileconf package.
// Classes referenced by dotted path strings resolve through the loader
// (RegisterPath), optionally under a configured base path.
//
// # Scope
//
// dcx composes classes; it is not a general dependency-injection
// container. Lifecycle management, scoping, and service lookup belong to
// higher layers.
package dcx
