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

// Package composer assembles the two halves of a composite class: the
// supertype list accumulated from selected inheritance records, and the
// patched method set produced by fragment injection. Composers are
// single-use; the orchestrator creates fresh ones per build.
package composer

import (
	"dirpx.dev/dcx/apis"
)

// ConfigureFunc resolves a class reference, applying recursive
// composition when the referenced class is itself registered.
type ConfigureFunc func(apis.ClassRef) (apis.Class, error)

// ParentComposer accumulates candidate supertypes in selection order.
type ParentComposer struct {
	configure ConfigureFunc
	refs      []apis.ClassRef
}

// NewParentComposer seeds the supertype list with the base class and its
// statically declared supertypes.
func NewParentComposer(base apis.Class, configure ConfigureFunc) *ParentComposer {
	pc := &ParentComposer{configure: configure}
	pc.refs = append(pc.refs, base)
	for _, p := range base.Parents() {
		pc.refs = append(pc.refs, p)
	}
	return pc
}

// Select appends candidate supertypes.
func (pc *ParentComposer) Select(refs ...apis.ClassRef) {
	pc.refs = append(pc.refs, refs...)
}

// Configure resolves the accumulated candidates in selection order,
// dropping duplicates after resolution.
func (pc *ParentComposer) Configure() ([]apis.Class, error) {
	seen := map[apis.Class]bool{}
	out := make([]apis.Class, 0, len(pc.refs))
	for _, ref := range pc.refs {
		cls, err := pc.configure(ref)
		if err != nil {
			return nil, err
		}
		if seen[cls] {
			continue
		}
		seen[cls] = true
		out = append(out, cls)
	}
	return out, nil
}
