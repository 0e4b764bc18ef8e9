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

// Registry tracks registered base classes and the composites built from
// them. It is process-wide mutable state with no teardown: entries are
// bound at registration time, read at build and nested-build time, and
// never evicted.
type Registry interface {
	// Bind associates a base class with its orchestrator. Re-binding a
	// base class replaces the previous orchestrator.
	Bind(base Class, orch Orchestrator) error

	// Orchestrator returns the orchestrator bound to base, if any.
	Orchestrator(base Class) (Orchestrator, bool)

	// RecordBuilt associates a produced composite with its build record.
	RecordBuilt(built Class, rec BuildRecord) error

	// Built returns the build record of a composite produced by Build.
	Built(built Class) (BuildRecord, bool)

	// Buildable reports whether c is a registered base class that is
	// not itself a produced composite; only buildable classes
	// participate in recursive resolution.
	Buildable(c Class) bool

	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []Entry

	// Count returns the number of bound base classes.
	Count() int

	// Reset clears all bindings and build records.
	Reset()
}

// Entry is a single (base class, orchestrator) binding in a Registry
// snapshot.
type Entry struct {
	Base         Class
	Orchestrator Orchestrator
}

// BuildRecord captures how a composite was produced: its base class, the
// transformed option set the build ran with, and the injector handling
// explicit mid-method injection for that build.
type BuildRecord struct {
	Base     Class
	Options  Options
	Injector Injector
}

// Injector performs explicit mid-method fragment injection for one build.
type Injector interface {
	// InjectInto injects the fragments configured for method at the
	// explicit injection point, on behalf of obj.
	InjectInto(obj Instance, method string, args []any, kwargs map[string]any) error
}
